package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Alia5/unmanagedgen/internal/codegen/diag"
	"github.com/Alia5/unmanagedgen/internal/codegen/meta"
	"github.com/Alia5/unmanagedgen/internal/codegen/scanner"
)

// RecordingHost serves fixed candidates and records everything reported or
// emitted, in call order.
type RecordingHost struct {
	Input []scanner.Candidate
	// ScanErr fails Candidates; EmitErr fails every Emit.
	ScanErr error
	EmitErr error

	Reported []diag.Diagnostic
	Emitted  []meta.Artifact
}

func (h *RecordingHost) Candidates(ctx context.Context) ([]scanner.Candidate, error) {
	if h.ScanErr != nil {
		return nil, h.ScanErr
	}
	return h.Input, ctx.Err()
}

func (h *RecordingHost) Report(d diag.Diagnostic) {
	h.Reported = append(h.Reported, d)
}

func (h *RecordingHost) Emit(a meta.Artifact) error {
	if h.EmitErr != nil {
		return h.EmitErr
	}
	h.Emitted = append(h.Emitted, a)
	return nil
}

// Codes lists the reported diagnostic codes.
func (h *RecordingHost) Codes() []diag.Code {
	var out []diag.Code
	for _, d := range h.Reported {
		out = append(out, d.Code)
	}
	return out
}

// Keys lists the emitted artifact keys.
func (h *RecordingHost) Keys() []string {
	var out []string
	for _, a := range h.Emitted {
		out = append(out, a.Key)
	}
	return out
}

// CreateSourceHost scans one in-memory file into a RecordingHost.
func CreateSourceHost(t *testing.T, filename, src string) *RecordingHost {
	t.Helper()
	pkg, err := scanner.ScanSource(filename, []byte(src), scanner.Options{})
	require.NoError(t, err)
	return &RecordingHost{Input: pkg.Candidates}
}
