package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Alia5/unmanagedgen/internal/codegen/scanner"
)

// Usage: scan-candidates [dir] [extern,types]
func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	var opts scanner.Options
	if len(os.Args) > 2 {
		opts.ExternUnmanaged = strings.Split(os.Args[2], ",")
	}

	pkg, err := scanner.ScanDir(dir, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to scan candidates: %v\n", err)
		os.Exit(1)
	}

	output, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
}
