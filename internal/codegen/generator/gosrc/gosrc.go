// Package gosrc renders companion type definitions as Go source.
//
// Rendering is a pure function of meta.Params: equal parameters produce
// byte-identical, gofmt-formatted output.
package gosrc

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"go/format"
	"slices"
	"strings"
	"text/template"

	"golang.org/x/crypto/blake2b"

	"github.com/Alia5/unmanagedgen/internal/codegen/annotation"
	"github.com/Alia5/unmanagedgen/internal/codegen/common"
	"github.com/Alia5/unmanagedgen/internal/codegen/layout"
	"github.com/Alia5/unmanagedgen/internal/codegen/meta"
)

const headerTemplate = `{{define "header" -}}
{{.Header}}
{{- if .BuildConstraint}}

//go:build {{.BuildConstraint}}
{{- end}}

package {{.Package}}

import (
{{- range .Imports}}
	{{.}}
{{- end}}
)
{{end}}`

const templateSource = headerTemplate + charsTemplate + bufferTemplate + handleTemplate

var templates = template.Must(template.New("gosrc").Parse(templateSource))

var revision = func() string {
	sum := blake2b.Sum256([]byte(templateSource))
	return hex.EncodeToString(sum[:16])
}()

// Revision identifies the template set. It changes whenever rendered output
// for the same parameters may change, so caches must key on it.
func Revision() string {
	return revision
}

// fileData is what the templates see. Derived numbers are computed here so
// the templates hold no arithmetic.
type fileData struct {
	meta.Params
	Header  string
	Imports []string
	// Last is the number of units SetString may fill before the NUL.
	Last int
	// HexCap is the initial capacity of the hex builder.
	HexCap     int
	IntegerHex bool
}

// Render produces the formatted source of the artifact for p.
func Render(p meta.Params) ([]byte, error) {
	d := fileData{
		Params: p,
		Header: common.GeneratedHeader,
	}
	switch p.Kind {
	case annotation.KindFixedChars:
		d.Imports = mergeImports(charsImports, nil)
		d.Last = p.Length - 1
	case annotation.KindFixedBuffer:
		d.Imports = mergeImports(bufferImports, p.Imports)
		d.HexCap = p.Length * 2
		d.IntegerHex = p.ElemHex == layout.HexInteger
	case annotation.KindNativeHandle:
		// The base type only appears in the pointer accessors.
		var extra []string
		if p.IsPointer {
			extra = p.Imports
		}
		d.Imports = mergeImports(handleImports, extra)
	default:
		return nil, fmt.Errorf("no renderer for annotation kind %s", p.Kind)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, p.Kind.String(), d); err != nil {
		return nil, fmt.Errorf("executing %s template: %w", p.Kind, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", p.Key(), err)
	}
	return src, nil
}

// mergeImports joins import specs, dropping duplicates, ordered by path.
func mergeImports(std, extra []string) []string {
	out := slices.Clone(std)
	for _, s := range extra {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(importPath(a), importPath(b))
	})
	return out
}

// importPath strips the local name from an import spec.
func importPath(spec string) string {
	if i := strings.LastIndexByte(spec, ' '); i >= 0 {
		return spec[i+1:]
	}
	return spec
}
