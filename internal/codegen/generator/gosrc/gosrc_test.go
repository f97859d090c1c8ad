package gosrc

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/unmanagedgen/internal/codegen/annotation"
	"github.com/Alia5/unmanagedgen/internal/codegen/common"
	"github.com/Alia5/unmanagedgen/internal/codegen/layout"
	"github.com/Alia5/unmanagedgen/internal/codegen/meta"
)

func charsParams(n int) meta.Params {
	return meta.Params{
		Kind:      annotation.KindFixedChars,
		Package:   "win",
		Name:      "Path",
		Companion: "PathFixedChars",
		Length:    n,
	}
}

func bufferParams() meta.Params {
	return meta.Params{
		Kind:         annotation.KindFixedBuffer,
		Package:      "win",
		Name:         "Words",
		Companion:    "WordsFixedBuffer",
		Length:       4,
		ElemType:     "int16",
		ElemHex:      layout.HexInteger,
		ElemUnsigned: "uint16",
	}
}

func handleParams(base string) meta.Params {
	return meta.Params{
		Kind:      annotation.KindNativeHandle,
		Package:   "win",
		Name:      "HWND",
		Companion: "HWNDNativeHandle",
		BaseType:  base,
		IsPointer: strings.Contains(base, "*"),
	}
}

// parse checks the output is a valid Go file and returns its declarations
// by name.
func parse(t *testing.T, src []byte) (*ast.File, map[string]bool) {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	require.NoError(t, err, string(src))
	names := map[string]bool{}
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			names[d.Name.Name] = true
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					names[s.Name.Name] = true
				case *ast.ValueSpec:
					for _, n := range s.Names {
						names[n.Name] = true
					}
				}
			}
		}
	}
	return f, names
}

func importPaths(f *ast.File) []string {
	var out []string
	for _, is := range f.Imports {
		out = append(out, is.Path.Value)
	}
	return out
}

func TestRenderChars(t *testing.T) {
	src, err := Render(charsParams(260))
	require.NoError(t, err)

	assert.True(t, common.IsGenerated(src))
	f, names := parse(t, src)
	assert.Equal(t, "win", f.Name.Name)
	assert.Equal(t, []string{`"unicode/utf16"`}, importPaths(f))
	for _, n := range []string{"PathFixedChars", "Chars", "Len", "String", "SetString"} {
		assert.True(t, names[n], n)
	}

	s := string(src)
	assert.Contains(t, s, "value [260]uint16")
	assert.Contains(t, s, "return 260")
	assert.Contains(t, s, "units = units[:259]")
	assert.NotContains(t, s, "//go:build")
}

func TestRenderCharsSingleUnit(t *testing.T) {
	src, err := Render(charsParams(1))
	require.NoError(t, err)
	parse(t, src)
	assert.Contains(t, string(src), "units = units[:0]")
}

func TestRenderBuffer(t *testing.T) {
	src, err := Render(bufferParams())
	require.NoError(t, err)

	f, names := parse(t, src)
	assert.Equal(t, []string{`"fmt"`, `"strings"`, `"unsafe"`}, importPaths(f))
	for _, n := range []string{"WordsFixedBuffer", "Elements", "Len", "String"} {
		assert.True(t, names[n], n)
	}

	s := string(src)
	assert.Contains(t, s, "value [4]int16")
	assert.Contains(t, s, "sb.Grow(8)")
	assert.Contains(t, s, `fmt.Fprintf(&sb, "%0*X", width, uint16(v))`)
	assert.NotContains(t, s, "unsafe.Slice")
}

func TestRenderBufferRawBytes(t *testing.T) {
	p := bufferParams()
	p.Name, p.Companion = "GUIDs", "GUIDsFixedBuffer"
	p.Length = 16
	p.ElemType = "windows.GUID"
	p.ElemHex, p.ElemUnsigned = layout.HexBytes, ""
	p.Imports = []string{`"golang.org/x/sys/windows"`, `"unsafe"`}

	src, err := Render(p)
	require.NoError(t, err)

	f, _ := parse(t, src)
	assert.Equal(t, []string{`"fmt"`, `"golang.org/x/sys/windows"`, `"strings"`, `"unsafe"`}, importPaths(f))
	s := string(src)
	assert.Contains(t, s, "value [16]windows.GUID")
	assert.Contains(t, s, "sb.Grow(32)")
	assert.Contains(t, s, "unsafe.Slice((*byte)(unsafe.Pointer(&b.value[i])), size)")
}

func TestRenderHandle(t *testing.T) {
	src, err := Render(handleParams("uintptr"))
	require.NoError(t, err)

	f, names := parse(t, src)
	assert.Equal(t, []string{`"fmt"`, `"unsafe"`}, importPaths(f))
	for _, n := range []string{"HWNDNativeHandle", "HWNDNull", "HWNDFromWord", "Word", "IsNull", "Equal", "EqualWord", "Hash", "String"} {
		assert.True(t, names[n], n)
	}
	assert.False(t, names["Pointer"])
	assert.False(t, names["HWNDFromPointer"])
	assert.Contains(t, string(src), "return HWND{HWNDNativeHandle: HWNDNativeHandle{value: w}}")
}

func TestRenderHandlePointer(t *testing.T) {
	p := handleParams("*shell.ItemIDList")
	p.Imports = []string{`"example.com/shell"`}

	src, err := Render(p)
	require.NoError(t, err)

	f, names := parse(t, src)
	assert.True(t, names["Pointer"])
	assert.True(t, names["HWNDFromPointer"])
	assert.Equal(t, []string{`"example.com/shell"`, `"fmt"`, `"unsafe"`}, importPaths(f))
	assert.Contains(t, string(src), "func (h HWNDNativeHandle) Pointer() *shell.ItemIDList {")
}

func TestRenderHandleIgnoresImportsWithoutPointer(t *testing.T) {
	p := handleParams("windows.Handle")
	p.Imports = []string{`"golang.org/x/sys/windows"`}

	src, err := Render(p)
	require.NoError(t, err)
	f, _ := parse(t, src)
	assert.Equal(t, []string{`"fmt"`, `"unsafe"`}, importPaths(f))
}

func TestRenderBuildConstraint(t *testing.T) {
	p := handleParams("uintptr")
	p.BuildConstraint = "windows && amd64"

	src, err := Render(p)
	require.NoError(t, err)
	parse(t, src)
	assert.True(t, strings.HasPrefix(string(src), common.GeneratedHeader+"\n\n//go:build windows && amd64\n\npackage win\n"))
}

func TestRenderDeterministic(t *testing.T) {
	for _, p := range []meta.Params{charsParams(32), bufferParams(), handleParams("*byte")} {
		a, err := Render(p)
		require.NoError(t, err)
		b, err := Render(p)
		require.NoError(t, err)
		assert.Equal(t, a, b, p.Key())
	}
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := Render(meta.Params{Name: "X"})
	require.Error(t, err)
}

func TestMergeImports(t *testing.T) {
	got := mergeImports([]string{`"fmt"`, `"unsafe"`}, []string{`w "example.com/w"`, `"fmt"`, `"bytes"`})
	assert.Equal(t, []string{`"bytes"`, `w "example.com/w"`, `"fmt"`, `"unsafe"`}, got)
}

func TestRevision(t *testing.T) {
	assert.Len(t, Revision(), 32)
	assert.Equal(t, Revision(), Revision())
	assert.NotContains(t, Revision(), " ")
}
