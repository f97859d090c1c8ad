package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		verb    string
		kind    Kind
		args    []string
		keyed   map[string]string
		wantErr bool
	}{
		{
			name:    "positional chars",
			comment: "//unmanaged:chars 260",
			verb:    "chars",
			kind:    KindFixedChars,
			args:    []string{"260"},
			keyed:   map[string]string{},
		},
		{
			name:    "keyed buffer",
			comment: "//unmanaged:buffer length=16 type=byte",
			verb:    "buffer",
			kind:    KindFixedBuffer,
			keyed:   map[string]string{"length": "16", "type": "byte"},
		},
		{
			name:    "quoted handle base",
			comment: `//unmanaged:handle "*ItemIDList"`,
			verb:    "handle",
			kind:    KindNativeHandle,
			args:    []string{"*ItemIDList"},
			keyed:   map[string]string{},
		},
		{
			name:    "quoted expression with spaces",
			comment: `//unmanaged:buffer "N + 1" byte`,
			verb:    "buffer",
			kind:    KindFixedBuffer,
			args:    []string{"N + 1", "byte"},
			keyed:   map[string]string{},
		},
		{
			name:    "backquoted struct element",
			comment: "//unmanaged:buffer 2 `struct{ X int32 }`",
			verb:    "buffer",
			kind:    KindFixedBuffer,
			args:    []string{"2", "struct{ X int32 }"},
			keyed:   map[string]string{},
		},
		{
			name:    "quoted keyed values",
			comment: `//unmanaged:buffer type="struct{ X, Y int32 }" length="2 * N"`,
			verb:    "buffer",
			kind:    KindFixedBuffer,
			keyed:   map[string]string{"length": "2 * N", "type": "struct{ X, Y int32 }"},
		},
		{
			name:    "escaped quote inside quotes",
			comment: `//unmanaged:handle "a\" b"`,
			verb:    "handle",
			kind:    KindNativeHandle,
			args:    []string{`a" b`},
			keyed:   map[string]string{},
		},
		{
			name:    "unterminated quote",
			comment: `//unmanaged:buffer "N + 1 byte`,
			wantErr: true,
		},
		{
			name:    "unknown verb keeps invalid kind",
			comment: "//unmanaged:string 4",
			verb:    "string",
			kind:    KindInvalid,
			args:    []string{"4"},
			keyed:   map[string]string{},
		},
		{
			name:    "missing verb",
			comment: "//unmanaged:",
			wantErr: true,
		},
		{
			name:    "repeated key",
			comment: "//unmanaged:chars length=1 length=2",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDirective(tt.comment)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.verb, d.Verb)
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.args, d.Args)
			assert.Equal(t, tt.keyed, d.Keyed)
		})
	}
}

func TestParseDirectiveIgnoresOtherComments(t *testing.T) {
	for _, c := range []string{"// unmanaged:chars 4", "//go:generate unmanagedgen", "// plain doc"} {
		_, err := ParseDirective(c)
		assert.ErrorIs(t, err, ErrNotDirective, c)
	}
}

func TestDirectiveBind(t *testing.T) {
	params := []string{"length", "type"}

	d, err := ParseDirective("//unmanaged:buffer length=8 uint16")
	require.NoError(t, err)
	got, err := d.Bind(params, 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"length": "8", "type": "uint16"}, got)

	d, err = ParseDirective("//unmanaged:buffer 8")
	require.NoError(t, err)
	_, err = d.Bind(params, 2)
	assert.ErrorContains(t, err, "missing type")

	d, err = ParseDirective("//unmanaged:buffer 8 byte extra")
	require.NoError(t, err)
	_, err = d.Bind(params, 2)
	assert.ErrorContains(t, err, "at most 2")

	d, err = ParseDirective("//unmanaged:chars base=uintptr")
	require.NoError(t, err)
	_, err = d.Bind([]string{"length"}, 1)
	assert.ErrorContains(t, err, `does not take "base"`)
}

func TestKindVerbs(t *testing.T) {
	for _, k := range Kinds() {
		back, ok := KindForVerb(k.Verb())
		assert.True(t, ok)
		assert.Equal(t, k, back)
	}
	assert.Equal(t, "FixedChars", KindFixedChars.String())
	assert.Equal(t, "FixedBuffer", KindFixedBuffer.String())
	assert.Equal(t, "NativeHandle", KindNativeHandle.String())
	assert.Equal(t, "", KindInvalid.Verb())
}

func TestNativeHandleIsPointer(t *testing.T) {
	assert.False(t, NativeHandle{BaseTypeName: DefaultBaseTypeName}.IsPointer())
	assert.True(t, NativeHandle{BaseTypeName: "*ItemIDList"}.IsPointer())
	assert.True(t, NativeHandle{BaseTypeName: "*windows.SID"}.IsPointer())
}
