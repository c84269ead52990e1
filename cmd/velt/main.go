// velt is the command-line front end for the velt language: it
// tokenizes, parses, and formats .velt source files and reports
// diagnostics.
package main

import (
	"os"

	"github.com/veltlang/velt/cmd/velt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
