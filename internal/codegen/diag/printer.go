package diag

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Printer writes diagnostics for humans (text) or tools (json).
type Printer struct {
	w      io.Writer
	format string

	errStyle  *color.Color
	warnStyle *color.Color
	posStyle  *color.Color
}

// NewPrinter creates a Printer. useColor only affects the text format.
func NewPrinter(w io.Writer, format string, useColor bool) *Printer {
	p := &Printer{
		w:         w,
		format:    format,
		errStyle:  color.New(color.FgRed, color.Bold),
		warnStyle: color.New(color.FgYellow, color.Bold),
		posStyle:  color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.errStyle, p.warnStyle, p.posStyle} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

type jsonDiagnostic struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
	Message  string   `json:"message"`
	Args     []any    `json:"args"`
}

// Print writes items in the configured format.
func (p *Printer) Print(items []Diagnostic) error {
	if p.format == FormatJSON {
		return p.printJSON(items)
	}
	return p.printText(items)
}

func (p *Printer) printJSON(items []Diagnostic) error {
	out := make([]jsonDiagnostic, 0, len(items))
	for _, d := range items {
		args := d.Args
		if args == nil {
			args = []any{}
		}
		out = append(out, jsonDiagnostic{
			Code:     d.Code,
			Severity: d.Severity,
			File:     d.Pos.Filename,
			Line:     d.Pos.Line,
			Column:   d.Pos.Column,
			Message:  d.Message(),
			Args:     args,
		})
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (p *Printer) printText(items []Diagnostic) error {
	errs, warns := 0, 0
	for _, d := range items {
		style := p.warnStyle
		if d.Severity == SevError {
			style = p.errStyle
			errs++
		} else {
			warns++
		}

		prefix := ""
		if d.Pos.IsValid() {
			prefix = p.posStyle.Sprint(d.Pos.String()) + ": "
		}
		if _, err := fmt.Fprintf(p.w, "%s%s: %s\n", prefix, style.Sprintf("%s %s", d.Severity, d.Code), d.Message()); err != nil {
			return err
		}
	}
	if errs+warns == 0 {
		return nil
	}
	_, err := fmt.Fprintf(p.w, "%d error(s), %d warning(s)\n", errs, warns)
	return err
}
