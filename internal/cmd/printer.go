package cmd

import (
	"fmt"
	"io"
)

// Printer is the destination for command results meant for stdout.
type Printer struct {
	W io.Writer
}

func (p *Printer) Println(s string) error {
	_, err := fmt.Fprintln(p.W, s)
	return err
}
