package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// DumpLogger records the content of every emitted artifact.
type DumpLogger interface {
	Dump(name string, data []byte)
}

// dumpLogger implements DumpLogger with thread-safe writes.
type dumpLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewDump creates a new DumpLogger. If writer is nil, returns a no-op logger.
func NewDump(w io.Writer) DumpLogger {
	return &dumpLogger{w: w}
}

// Dump writes a header line followed by the artifact text.
func (d *dumpLogger) Dump(name string, data []byte) {
	if len(data) == 0 || d.w == nil {
		return
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s ==> %s (%d bytes)\n",
		time.Now().Format("2006/01/02 15:04:05"),
		name,
		len(data))
	buf.Write(data)
	if data[len(data)-1] != '\n' {
		buf.WriteByte('\n')
	}

	d.mu.Lock()
	_, _ = d.w.Write(buf.Bytes())
	d.mu.Unlock()
}
