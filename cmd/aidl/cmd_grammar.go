package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/aidl/aidl/parser"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the EBNF grammar of .aidl files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := parser.Grammar(); err != nil {
				return err
			}
			fmt.Print(parser.GrammarSource())
			return nil
		},
	}

	cmd.AddCommand(newGrammarCheckCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and verify an EBNF grammar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkGrammarFile(args[0], startProduction)
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", parser.GrammarStart, "start production for verification (if empty, only checks syntax)")

	return cmd
}

// checkGrammarFile parses and verifies the grammar in filename. The ebnf
// package reports the first error and how many more it found.
func checkGrammarFile(filename, start string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	_, err = parser.ParseGrammar(filename, string(data), start)
	return err
}
