package cmd

import (
	"github.com/Alia5/unmanagedgen/internal/codegen/common"
)

type Version struct{}

// Run is called by Kong when the version command is executed.
func (v *Version) Run(p *Printer) error {
	version, err := common.GetVersion()
	if err != nil {
		return err
	}
	return p.Println("unmanagedgen " + version)
}
