package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Alia5/unmanagedgen/internal/codegen/diag"
	"github.com/Alia5/unmanagedgen/internal/codegen/meta"
	"github.com/Alia5/unmanagedgen/internal/codegen/scanner"
	"github.com/Alia5/unmanagedgen/internal/codegen/validate"
)

// Prints the validated render parameters of a package, and the diagnostics
// of everything that did not validate.
func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	pkg, err := scanner.ScanDir(dir, scanner.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to scan package: %v\n", err)
		os.Exit(1)
	}

	result := struct {
		Params      []meta.Params `json:"params"`
		Diagnostics []string      `json:"diagnostics"`
	}{
		Params:      []meta.Params{},
		Diagnostics: []string{},
	}
	bag := diag.NewBag()
	for _, c := range pkg.Candidates {
		r := validate.Candidate(c)
		result.Params = append(result.Params, r.Params...)
		for _, d := range r.Diagnostics {
			bag.Report(d)
		}
	}
	bag.Sort()
	for _, d := range bag.Items() {
		result.Diagnostics = append(result.Diagnostics, d.String())
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
}
