package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/veltlang/velt/lexer"
	"github.com/veltlang/velt/parser"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	fileStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Parse velt files and report all diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			if err := parseFile(path); err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to parse", failed, len(args))
		}
		return nil
	},
}

func parseFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("error:"), err)
		return err
	}

	program, err := parser.Parse(path, src)
	if err != nil {
		reportDiagnostics(path, err)
		return err
	}

	fmt.Printf("%s %s (%d declarations)\n",
		okStyle.Render("ok"), fileStyle.Render(path), len(program.Decls))
	if verbose {
		for _, decl := range program.Decls {
			fmt.Printf("  %T at %s\n", decl, decl.GetRange().Start)
		}
	}
	return nil
}

// reportDiagnostics prints every collected error individually rather
// than the joined aggregate message.
func reportDiagnostics(path string, err error) {
	fmt.Fprintln(os.Stderr, fileStyle.Render(path))

	var lexErrs lexer.ErrorList
	if errors.As(err, &lexErrs) {
		for _, e := range lexErrs {
			fmt.Fprintf(os.Stderr, "  %s %s\n", errorStyle.Render("lexical:"), e)
		}
		return
	}

	var synErrs parser.ErrorList
	if errors.As(err, &synErrs) {
		for _, e := range synErrs {
			fmt.Fprintf(os.Stderr, "  %s %s\n", errorStyle.Render("syntax:"), e)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "  %s %v\n", errorStyle.Render("error:"), err)
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
