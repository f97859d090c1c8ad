package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/unmanagedgen/internal/codegen/diag"
	"github.com/Alia5/unmanagedgen/internal/codegen/meta"
	gentest "github.com/Alia5/unmanagedgen/internal/testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const source = `package win

const MaxPath = 260

//unmanaged:chars MaxPath
type Path struct {
	PathFixedChars
}

//unmanaged:buffer 16 byte
type GUIDBytes struct {
	GUIDBytesFixedBuffer
}

//unmanaged:buffer 8 rune
type Text struct {
	TextFixedBuffer
}

//unmanaged:handle
type Closed uintptr

//unmanaged:handle
type HWND struct {
	HWNDNativeHandle
}
`

func TestRun(t *testing.T) {
	host := gentest.CreateSourceHost(t, "/src/win/types_windows.go", source)

	sum, err := New(discardLogger(), Options{Jobs: 2}).Run(context.Background(), host)
	require.NoError(t, err)

	assert.Equal(t, []string{"Path_FixedChars", "GUIDBytes_FixedBuffer", "HWND_NativeHandle"}, host.Keys())
	assert.Equal(t, []diag.Code{diag.CharType, diag.MustBePartial}, host.Codes())
	assert.Equal(t, Summary{Candidates: 5, Artifacts: 3, Errors: 1, Warnings: 1}, sum)

	a := host.Emitted[0]
	assert.Equal(t, "path_fixed_chars_gen_windows.go", a.FileName)
	assert.Equal(t, "/src/win", a.Dir)
	assert.Equal(t, 6, a.Decl.Line)
	assert.Contains(t, string(a.Content), "value [260]uint16")
}

func TestRunDeterministicAcrossJobs(t *testing.T) {
	var want [][]byte
	for _, jobs := range []int{1, 4, 16} {
		host := gentest.CreateSourceHost(t, "types.go", source)
		_, err := New(discardLogger(), Options{Jobs: jobs}).Run(context.Background(), host)
		require.NoError(t, err)

		var got [][]byte
		for _, a := range host.Emitted {
			got = append(got, a.Content)
		}
		if want == nil {
			want = got
			continue
		}
		assert.Equal(t, want, got, "jobs=%d", jobs)
	}
}

func TestRunScanError(t *testing.T) {
	host := &gentest.RecordingHost{ScanErr: errors.New("boom")}
	_, err := New(discardLogger(), Options{}).Run(context.Background(), host)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collect candidates: boom")
}

func TestRunEmitError(t *testing.T) {
	host := gentest.CreateSourceHost(t, "types.go", source)
	host.EmitErr = errors.New("disk full")

	sum, err := New(discardLogger(), Options{}).Run(context.Background(), host)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emit Path_FixedChars: disk full")
	assert.Zero(t, sum.Artifacts)
}

func TestRunCanceled(t *testing.T) {
	host := gentest.CreateSourceHost(t, "types.go", source)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(discardLogger(), Options{}).Run(ctx, host)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, host.Emitted)
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	puts    int
}

func (c *memCache) Get(p meta.Params) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	b, ok := c.entries[fmt.Sprint(p)]
	return b, ok, nil
}

func (c *memCache) Put(p meta.Params, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fmt.Sprint(p)] = content
	c.puts++
	return nil
}

func TestRunCache(t *testing.T) {
	c := &memCache{entries: map[string][]byte{}}
	g := New(discardLogger(), Options{Cache: c})

	first := gentest.CreateSourceHost(t, "types.go", source)
	sum, err := g.Run(context.Background(), first)
	require.NoError(t, err)
	assert.Zero(t, sum.CacheHits)
	assert.Equal(t, 3, c.puts)

	second := gentest.CreateSourceHost(t, "types.go", source)
	sum, err = g.Run(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.CacheHits)
	assert.Equal(t, 3, c.puts)
	assert.Equal(t, first.Emitted, second.Emitted)
}

func TestRunCacheErrorFallsBack(t *testing.T) {
	c := &memCache{entries: map[string][]byte{}, getErr: errors.New("corrupt")}
	host := gentest.CreateSourceHost(t, "types.go", source)

	sum, err := New(discardLogger(), Options{Cache: c}).Run(context.Background(), host)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Artifacts)
	assert.Zero(t, sum.CacheHits)
}

type recordingDump struct{ names []string }

func (d *recordingDump) Dump(name string, data []byte) {
	d.names = append(d.names, name)
}

func TestRunDump(t *testing.T) {
	d := &recordingDump{}
	host := gentest.CreateSourceHost(t, "types.go", source)
	_, err := New(discardLogger(), Options{Dump: d}).Run(context.Background(), host)
	require.NoError(t, err)
	assert.Equal(t, []string{"path_fixed_chars_gen.go", "guid_bytes_fixed_buffer_gen.go", "hwnd_native_handle_gen.go"}, d.names)
}

func TestRunIndependentCandidates(t *testing.T) {
	src := strings.Replace(source, "type Path struct {\n\tPathFixedChars\n}", "type Path struct{}", 1)
	host := gentest.CreateSourceHost(t, "types.go", src)

	_, err := New(discardLogger(), Options{}).Run(context.Background(), host)
	require.NoError(t, err)
	assert.Equal(t, []string{"GUIDBytes_FixedBuffer", "HWND_NativeHandle"}, host.Keys())
	assert.Equal(t, []diag.Code{diag.MustBePartial, diag.CharType, diag.MustBePartial}, host.Codes())
}
