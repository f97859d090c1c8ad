package diag

import (
	"fmt"
	"go/token"
)

// Diagnostic is one reported problem, attached to the declaration that
// carries the offending annotation.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Format   string
	Pos      token.Position
	Args     []any
}

// New instantiates d at pos.
func New(d Descriptor, pos token.Position, args ...any) Diagnostic {
	return Diagnostic{
		Code:     d.Code,
		Severity: d.Severity,
		Format:   d.Format,
		Pos:      pos,
		Args:     args,
	}
}

// Message formats the descriptor template with the arguments.
func (d Diagnostic) Message() string {
	return fmt.Sprintf(d.Format, d.Args...)
}

// String renders the diagnostic in the conventional
// file:line:col: severity CODE: message form.
func (d Diagnostic) String() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s %s: %s", d.Pos, d.Severity, d.Code, d.Message())
	}
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message())
}
