package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veltlang/velt/parser"
	"github.com/veltlang/velt/printer"
)

var writeInPlace bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>...",
	Short: "Print velt files in canonical form",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			program, err := parser.Parse(path, src)
			if err != nil {
				reportDiagnostics(path, err)
				return fmt.Errorf("%s: not formatted", path)
			}
			out := printer.Print(program)
			if writeInPlace {
				if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
					return err
				}
				continue
			}
			fmt.Print(out)
		}
		return nil
	},
}

func init() {
	fmtCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "write result back to source file")
	rootCmd.AddCommand(fmtCmd)
}
