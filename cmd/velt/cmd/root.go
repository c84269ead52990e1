package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "velt",
	Short: "velt - tools for the velt component language",
	Long: `velt is the front end for the velt language, a small DSL for
declaring reactive UI components, data models, and services.

Commands:
  parse    - parse files and report all diagnostics
  tokens   - dump the token stream of a file
  fmt      - print files in canonical form
  version  - print version information`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
