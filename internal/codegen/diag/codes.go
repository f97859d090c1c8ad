// Package diag holds the fixed catalog of diagnostics the generator reports,
// and the containers and printers used to surface them.
//
// Codes, severities and argument order form the tool's external contract:
// editors and CI scripts match on them.
package diag

// Code is a stable diagnostic identifier.
type Code string

const (
	UnmanagedType        Code = "FBGE001"
	LengthMustBePositive Code = "FBGE002"
	MustBePartial        Code = "FBGE003"
	InvalidAnnotation    Code = "FBGE004"
	DuplicateAnnotation  Code = "FBGE005"

	CharType Code = "FBGW001"
)

// Descriptor describes one catalog entry. Format is a fmt format string whose
// verbs consume the diagnostic's arguments in order.
type Descriptor struct {
	Code     Code
	Severity Severity
	Title    string
	Format   string
}

var (
	// UnmanagedTypeRule: args [element type].
	UnmanagedTypeRule = Descriptor{
		Code:     UnmanagedType,
		Severity: SevError,
		Title:    "unmanaged:buffer requires an unmanaged type",
		Format:   "type '%s' is not unmanaged; unmanaged:buffer only supports types with a fixed, pointer-free layout",
	}
	// LengthMustBePositiveRule: args [length].
	LengthMustBePositiveRule = Descriptor{
		Code:     LengthMustBePositive,
		Severity: SevError,
		Title:    "length must be greater than zero",
		Format:   "buffer length must be greater than zero (was %d)",
	}
	// MustBePartialRule: args [type name, companion type name].
	MustBePartialRule = Descriptor{
		Code:     MustBePartial,
		Severity: SevError,
		Title:    "type must embed its generated companion",
		Format:   "type '%s' must be a struct embedding %s to use this generator",
	}
	// InvalidAnnotationRule: args [directive text, reason].
	InvalidAnnotationRule = Descriptor{
		Code:     InvalidAnnotation,
		Severity: SevError,
		Title:    "invalid annotation",
		Format:   "invalid annotation '%s': %s",
	}
	// DuplicateAnnotationRule: args [verb, type name].
	DuplicateAnnotationRule = Descriptor{
		Code:     DuplicateAnnotation,
		Severity: SevError,
		Title:    "duplicate annotation",
		Format:   "unmanaged:%s is declared more than once on '%s'",
	}
	// CharTypeRule: no args.
	CharTypeRule = Descriptor{
		Code:     CharType,
		Severity: SevWarning,
		Title:    "use unmanaged:chars instead of unmanaged:buffer for rune",
		Format:   "type 'rune' should not be used with unmanaged:buffer; use unmanaged:chars instead",
	}
)

var catalog = []Descriptor{
	UnmanagedTypeRule,
	LengthMustBePositiveRule,
	MustBePartialRule,
	InvalidAnnotationRule,
	DuplicateAnnotationRule,
	CharTypeRule,
}

// Catalog returns every descriptor, ordered by code.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds the descriptor for code.
func Lookup(code Code) (Descriptor, bool) {
	for _, d := range catalog {
		if d.Code == code {
			return d, true
		}
	}
	return Descriptor{}, false
}
