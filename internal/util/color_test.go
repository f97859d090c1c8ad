package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorEnabled(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()

	assert.True(t, ColorEnabled(f, ColorAlways))
	assert.False(t, ColorEnabled(f, ColorNever))
	assert.False(t, ColorEnabled(f, ColorAuto), "regular files are not terminals")
	assert.False(t, ColorEnabled(nil, ColorAuto))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled(os.Stdout, ColorAuto))
}
