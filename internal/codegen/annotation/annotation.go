// Package annotation defines the configuration schema read from
// //unmanaged: directives.
//
// An Annotation is a closed sum type with exactly three cases: CharBuffer,
// ElementBuffer and NativeHandle. Values are produced once by the scanner,
// with every argument already resolved from declared source, and are never
// mutated afterwards.
package annotation

import (
	"go/token"
	"strings"

	"github.com/Alia5/unmanagedgen/internal/codegen/layout"
)

// DefaultBaseTypeName is the base type of a NativeHandle declared without one.
const DefaultBaseTypeName = "uintptr"

// Annotation is implemented by CharBuffer, ElementBuffer and NativeHandle only.
type Annotation interface {
	Kind() Kind
	// Position is where the directive was written.
	Position() token.Position
	sealed()
}

// CharBuffer requests a fixed-length UTF-16 character buffer.
type CharBuffer struct {
	Length int            `json:"length"`
	At     token.Position `json:"-"`
}

// ElementBuffer requests a fixed-length buffer of Elem values.
type ElementBuffer struct {
	Length int            `json:"length"`
	Elem   TypeRef        `json:"elem"`
	At     token.Position `json:"-"`
}

// NativeHandle requests a pointer-sized opaque handle wrapper.
type NativeHandle struct {
	BaseTypeName string         `json:"baseTypeName"`
	Imports      []string       `json:"imports,omitempty"`
	At           token.Position `json:"-"`
}

// TypeRef is an element type reference as written in the directive, plus the
// layout the scanner resolved it to.
type TypeRef struct {
	Expr    string       `json:"expr"`    // e.g. "byte", "[4]uint16", "windows.GUID"
	Imports []string     `json:"imports"` // import paths the expression refers to
	Layout  *layout.Type `json:"-"`
}

func (CharBuffer) Kind() Kind    { return KindFixedChars }
func (ElementBuffer) Kind() Kind { return KindFixedBuffer }
func (NativeHandle) Kind() Kind  { return KindNativeHandle }

func (a CharBuffer) Position() token.Position    { return a.At }
func (a ElementBuffer) Position() token.Position { return a.At }
func (a NativeHandle) Position() token.Position  { return a.At }

func (CharBuffer) sealed()    {}
func (ElementBuffer) sealed() {}
func (NativeHandle) sealed()  {}

// IsPointer reports whether the base type name denotes a raw pointer type.
func (a NativeHandle) IsPointer() bool {
	return strings.Contains(a.BaseTypeName, "*")
}
