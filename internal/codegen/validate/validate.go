// Package validate checks scanned annotations against the rules of their
// kind and normalizes the survivors into render parameters.
//
// Checks run in a fixed order and stop at the first failure, so every
// annotation yields either parameters or exactly one diagnostic.
package validate

import (
	"github.com/Alia5/unmanagedgen/internal/codegen/annotation"
	"github.com/Alia5/unmanagedgen/internal/codegen/common"
	"github.com/Alia5/unmanagedgen/internal/codegen/diag"
	"github.com/Alia5/unmanagedgen/internal/codegen/meta"
	"github.com/Alia5/unmanagedgen/internal/codegen/scanner"
)

// Result collects the outcome for every annotation of one candidate.
type Result struct {
	Params      []meta.Params
	Diagnostics []diag.Diagnostic
}

// HasErrors reports whether any diagnostic is an error.
func (r Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

// Candidate validates each annotation of c independently. Problems the
// scanner recorded come first, then one entry per annotation in directive
// order.
func Candidate(c scanner.Candidate) Result {
	var r Result
	r.Diagnostics = append(r.Diagnostics, c.Invalid...)
	for _, a := range c.Annotations {
		p, d := Check(c, a)
		if d != nil {
			r.Diagnostics = append(r.Diagnostics, *d)
			continue
		}
		r.Params = append(r.Params, p)
	}
	return r
}

// Check validates a single annotation declared on c.
func Check(c scanner.Candidate, a annotation.Annotation) (meta.Params, *diag.Diagnostic) {
	p := meta.Params{
		Kind:            a.Kind(),
		Package:         c.Package,
		Name:            c.Name,
		Companion:       common.CompanionName(c.Name, a.Kind()),
		BuildConstraint: c.BuildConstraint,
	}

	if !c.Struct || !c.Embeds(p.Companion) {
		return fail(diag.MustBePartialRule, c, c.Name, p.Companion)
	}

	switch a := a.(type) {
	case annotation.CharBuffer:
		if a.Length <= 0 {
			return fail(diag.LengthMustBePositiveRule, c, a.Length)
		}
		p.Length = a.Length

	case annotation.ElementBuffer:
		if a.Length <= 0 {
			return fail(diag.LengthMustBePositiveRule, c, a.Length)
		}
		if a.Elem.Layout == nil || !a.Elem.Layout.IsUnmanaged() {
			return fail(diag.UnmanagedTypeRule, c, a.Elem.Expr)
		}
		if a.Elem.Layout.IsChar() {
			return fail(diag.CharTypeRule, c)
		}
		p.Length = a.Length
		p.ElemType = a.Elem.Expr
		p.ElemHex, p.ElemUnsigned = a.Elem.Layout.Hex()
		p.Imports = a.Elem.Imports

	case annotation.NativeHandle:
		p.BaseType = a.BaseTypeName
		p.IsPointer = a.IsPointer()
		p.Imports = a.Imports
	}
	return p, nil
}

func fail(rule diag.Descriptor, c scanner.Candidate, args ...any) (meta.Params, *diag.Diagnostic) {
	d := diag.New(rule, c.Pos, args...)
	return meta.Params{}, &d
}
