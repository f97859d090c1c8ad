// Package cache keeps rendered artifacts on disk so unchanged declarations
// skip rendering on the next run.
//
// Entries are keyed by a BLAKE2b-256 digest of the tool version, the renderer
// revision and the msgpack encoding of meta.Params. A nil *Disk is a valid,
// always-empty cache.
package cache

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/Alia5/unmanagedgen/internal/codegen/generator/gosrc"
	"github.com/Alia5/unmanagedgen/internal/codegen/meta"
)

// Current schema version - increment when the envelope format changes.
const schemaVersion uint16 = 2

// ErrSchema reports an entry written by a different schema or tool version.
var ErrSchema = errors.New("cache entry schema mismatch")

type envelope struct {
	Schema   uint16 `msgpack:"schema"`
	Version  string `msgpack:"version"`
	Revision string `msgpack:"revision"`
	Key      string `msgpack:"key"`
	Content  []byte `msgpack:"content"`
}

// Disk is a directory of msgpack envelopes. Safe for concurrent use.
type Disk struct {
	mu       sync.RWMutex
	dir      string
	version  string
	// revision is the renderer's template revision. Version alone is not
	// enough: builds without ldflags all share an empty version.
	revision string
}

// Open returns the cache for app under the user cache directory.
func Open(app, version string) (*Disk, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("locate user cache directory: %w", err)
	}
	return OpenDir(filepath.Join(base, app), version)
}

// OpenDir returns a cache rooted at dir, creating it if needed.
func OpenDir(dir, version string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Disk{dir: dir, version: version, revision: gosrc.Revision()}, nil
}

// Dir returns the cache root.
func (d *Disk) Dir() string {
	if d == nil {
		return ""
	}
	return d.dir
}

// Key derives the entry key for p.
func (d *Disk) Key(p meta.Params) (string, error) {
	b, err := msgpack.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode params: %w", err)
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	h.Write([]byte(d.version))
	h.Write([]byte{0})
	h.Write([]byte(d.revision))
	h.Write([]byte{0})
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (d *Disk) pathFor(key string) string {
	return filepath.Join(d.dir, "artifacts", key[:2], key+".mp")
}

// Get returns the rendered content cached for p. Missing entries and entries
// of another schema or version are misses, not errors.
func (d *Disk) Get(p meta.Params) ([]byte, bool, error) {
	if d == nil {
		return nil, false, nil
	}
	key, err := d.Key(p)
	if err != nil {
		return nil, false, err
	}

	d.mu.RLock()
	data, err := os.ReadFile(d.pathFor(key))
	d.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}

	content, err := d.decode(key, data)
	if errors.Is(err, ErrSchema) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return content, true, nil
}

func (d *Disk) decode(key string, data []byte) ([]byte, error) {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if env.Schema != schemaVersion || env.Version != d.version || env.Revision != d.revision || env.Key != key {
		return nil, ErrSchema
	}
	return env.Content, nil
}

// Put stores content for p. The entry appears atomically.
func (d *Disk) Put(p meta.Params, content []byte) error {
	if d == nil {
		return nil
	}
	key, err := d.Key(p)
	if err != nil {
		return err
	}
	data, err := msgpack.Marshal(envelope{
		Schema:   schemaVersion,
		Version:  d.version,
		Revision: d.revision,
		Key:      key,
		Content:  content,
	})
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) // no-op after the rename

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Entries counts stored entries.
func (d *Disk) Entries() (int, error) {
	if d == nil {
		return 0, nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := 0
	err := filepath.WalkDir(filepath.Join(d.dir, "artifacts"), func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !e.IsDir() && filepath.Ext(path) == ".mp" {
			n++
		}
		return nil
	})
	return n, err
}

// Clean drops every entry.
func (d *Disk) Clean() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	// Rename first so a concurrent run never sees a half-removed tree.
	root := filepath.Join(d.dir, "artifacts")
	old := root + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(root, old); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
