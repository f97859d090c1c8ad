// Package layout classifies Go type expressions by memory layout.
//
// A Type tree is built by the scanner from declared source only. The
// classification answers two questions the validator asks of an element type:
// whether it is unmanaged (fixed size, self-contained, no pointers the garbage
// collector has to trace) and whether it is the language character type.
package layout

// Kind is the syntactic category of a type.
type Kind uint8

const (
	Unknown Kind = iota
	Basic        // bool, numeric types, uintptr
	Array        // [N]T
	Struct       // struct{...}
	Named        // defined type or alias declared in the scanned package
	External     // qualified type from another package
	Pointer      // *T
	UnsafePointer
	String
	Slice
	Map
	Chan
	Func
	Interface
	Generic // type parameter or generic instantiation
)

var kindNames = [...]string{
	Unknown:       "unknown",
	Basic:         "basic",
	Array:         "array",
	Struct:        "struct",
	Named:         "named",
	External:      "external",
	Pointer:       "pointer",
	UnsafePointer: "unsafe.Pointer",
	String:        "string",
	Slice:         "slice",
	Map:           "map",
	Chan:          "chan",
	Func:          "func",
	Interface:     "interface",
	Generic:       "generic",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[Unknown]
}

// Type is a resolved type expression.
type Type struct {
	Kind Kind
	// Name is the type as written: "uint16", "Point", "windows.GUID".
	Name string
	// Elem is the element of an Array.
	Elem *Type
	// Fields are the field types of a Struct, one entry per field name.
	Fields []*Type
	// Underlying is the right-hand side of a Named type.
	Underlying *Type
	// Alias marks a Named type declared with '='.
	Alias bool
	// Fixed marks an External type known to have a fixed layout.
	Fixed bool
}

// HexMode selects how a buffer element is rendered as hex text.
type HexMode uint8

const (
	// HexBytes renders the element's raw bytes in memory order.
	HexBytes HexMode = iota
	// HexInteger renders the element's value through an unsigned conversion.
	HexInteger
)

// basicKinds maps universe identifiers to their kind.
var basicKinds = map[string]Kind{
	"bool":       Basic,
	"int":        Basic,
	"int8":       Basic,
	"int16":      Basic,
	"int32":      Basic,
	"int64":      Basic,
	"uint":       Basic,
	"uint8":      Basic,
	"uint16":     Basic,
	"uint32":     Basic,
	"uint64":     Basic,
	"uintptr":    Basic,
	"byte":       Basic,
	"rune":       Basic,
	"float32":    Basic,
	"float64":    Basic,
	"complex64":  Basic,
	"complex128": Basic,
	"string":     String,
	"error":      Interface,
	"any":        Interface,
	"comparable": Interface,
}

// unsignedOf maps integer basics to the unsigned type of the same width.
var unsignedOf = map[string]string{
	"int8":    "uint8",
	"uint8":   "uint8",
	"byte":    "uint8",
	"int16":   "uint16",
	"uint16":  "uint16",
	"int32":   "uint32",
	"uint32":  "uint32",
	"rune":    "uint32",
	"int64":   "uint64",
	"uint64":  "uint64",
	"int":     "uint",
	"uint":    "uint",
	"uintptr": "uintptr",
}

// Universe returns the predeclared type called name, or nil.
func Universe(name string) *Type {
	k, ok := basicKinds[name]
	if !ok {
		return nil
	}
	return &Type{Kind: k, Name: name}
}

// IsUnmanaged reports whether t has a fixed, self-contained layout: basics,
// arrays of unmanaged elements, and structs whose fields are all unmanaged,
// through any number of named types.
func (t *Type) IsUnmanaged() bool {
	return isUnmanaged(t, map[*Type]bool{})
}

func isUnmanaged(t *Type, seen map[*Type]bool) bool {
	if t == nil {
		return false
	}
	if seen[t] {
		// Only reachable through an invalid recursive declaration.
		return false
	}
	seen[t] = true
	defer delete(seen, t)

	switch t.Kind {
	case Basic:
		return true
	case Array:
		return isUnmanaged(t.Elem, seen)
	case Struct:
		for _, f := range t.Fields {
			if !isUnmanaged(f, seen) {
				return false
			}
		}
		return true
	case Named:
		return isUnmanaged(t.Underlying, seen)
	case External:
		return t.Fixed
	default:
		return false
	}
}

// IsChar reports whether t is spelled rune, directly or through aliases. The
// check is syntactic: int32 is the same type to the compiler but states
// integer intent, so it is not the character type. Neither is a defined type
// such as `type Letter rune`.
func (t *Type) IsChar() bool {
	for i := 0; t != nil && i < 64; i++ {
		switch {
		case t.Kind == Basic:
			return t.Name == "rune"
		case t.Kind == Named && t.Alias:
			t = t.Underlying
		default:
			return false
		}
	}
	return false
}

// Hex reports how values of t render as hex. For HexInteger, unsigned is the
// conversion type that yields the value's two's-complement bits.
func (t *Type) Hex() (mode HexMode, unsigned string) {
	for i := 0; t != nil && i < 64; i++ {
		switch t.Kind {
		case Basic:
			if u, ok := unsignedOf[t.Name]; ok {
				return HexInteger, u
			}
			return HexBytes, ""
		case Named:
			t = t.Underlying
		default:
			return HexBytes, ""
		}
	}
	return HexBytes, ""
}
