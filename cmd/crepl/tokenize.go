package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"crepl/internal/diag"
	"crepl/internal/diagfmt"
	"crepl/internal/lexer"
	"crepl/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] line...",
	Short: "Show the tokens of a command line",
	Long:  `Tokenize lexes the arguments, joined by spaces, as one command line and prints the tokens`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	line := source.NewLine(1, strings.Join(args, " "), source.LineScripted)
	bag := diag.NewBag(st.maxDiag)
	toks := lexer.Tokenize(line, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	// Выводим диагностику в stderr, если есть
	if bag.Len() > 0 {
		bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, line, diagfmt.PrettyOpts{Color: st.color, ShowNotes: true, Echo: true})
	}

	if format == "json" {
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), toks)
	}
	return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), toks)
}
