package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veltlang/velt/lexer"
)

var showComments bool

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Dump the token stream of a velt file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		lex := lexer.New(string(src))
		tokens, lexErr := lex.Tokenize()
		for _, tok := range tokens {
			fmt.Printf("%4d:%-3d %s\n", tok.Line, tok.Column, tok)
		}
		if showComments {
			for _, c := range lex.Comments() {
				fmt.Printf("%4d:%-3d %s\n", c.Line, c.Column, c)
			}
		}
		if lexErr != nil {
			for _, e := range lex.Errors() {
				fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("lexical:"), e)
			}
			return fmt.Errorf("%s: %d lexical errors", args[0], len(lex.Errors()))
		}
		return nil
	},
}

func init() {
	tokensCmd.Flags().BoolVar(&showComments, "comments", false, "also dump comment tokens")
	rootCmd.AddCommand(tokensCmd)
}
