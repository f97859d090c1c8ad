// Package meta holds the plain-data records passed between validation,
// rendering and emission.
package meta

import (
	"go/token"

	"github.com/Alia5/unmanagedgen/internal/codegen/annotation"
	"github.com/Alia5/unmanagedgen/internal/codegen/common"
	"github.com/Alia5/unmanagedgen/internal/codegen/layout"
)

// Params is a validated annotation, normalized for rendering. It refers to no
// AST or scanner state, so rendering is a pure function of it.
type Params struct {
	Kind      annotation.Kind `msgpack:"kind" json:"kind"`
	Package   string          `msgpack:"package" json:"package"`
	Name      string          `msgpack:"name" json:"name"`
	Companion string          `msgpack:"companion" json:"companion"`

	// Buffers.
	Length int `msgpack:"length,omitempty" json:"length,omitempty"`

	// Element buffers.
	ElemType     string         `msgpack:"elemType,omitempty" json:"elemType,omitempty"`
	ElemHex      layout.HexMode `msgpack:"elemHex,omitempty" json:"elemHex,omitempty"`
	ElemUnsigned string         `msgpack:"elemUnsigned,omitempty" json:"elemUnsigned,omitempty"`

	// Native handles.
	BaseType  string `msgpack:"baseType,omitempty" json:"baseType,omitempty"`
	IsPointer bool   `msgpack:"isPointer,omitempty" json:"isPointer,omitempty"`

	// Imports the rendered text needs beyond its own standard imports, sorted.
	Imports []string `msgpack:"imports,omitempty" json:"imports,omitempty"`
	// BuildConstraint is copied from the host file's //go:build line.
	BuildConstraint string `msgpack:"buildConstraint,omitempty" json:"buildConstraint,omitempty"`
}

// Key is the artifact key, unique per host and kind.
func (p Params) Key() string {
	return common.ArtifactKey(p.Name, p.Kind)
}

// Artifact is one rendered file, ready to be handed to the emission sink.
type Artifact struct {
	Key      string
	FileName string
	// Dir is the directory of the host declaration's package.
	Dir     string
	Decl    token.Position
	Content []byte
}
