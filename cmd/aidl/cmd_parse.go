package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/aidl/aidl"
	"github.com/dhamidi/aidl/aidl/parser"
	"github.com/dhamidi/aidl/format"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool
	var resolve bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an .aidl file and dump the result",
		Long: `Parse an .aidl file and dump the result.

The tree and json formats show the syntax tree, including error nodes for
malformed input. The pretty format shows the AST built from it; with
--resolve the type names are resolved against the types of the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			switch outputFormat {
			case "tree", "json":
				f, err := os.Open(filename)
				if err != nil {
					return fmt.Errorf("read aidl file: %w", err)
				}
				defer f.Close()

				p := parser.ParseDocument(f, parser.WithFile(filename), parser.WithComments())
				node := p.Finish()
				if node == nil {
					return fmt.Errorf("read aidl file: %w", p.Err())
				}

				if outputFormat == "json" {
					if err := format.NewASTJSONEncoder(os.Stdout).Encode(node); err != nil {
						return fmt.Errorf("encode json: %w", err)
					}
					fmt.Println()
				} else if includePositions {
					fmt.Println(node.StringWithPositions())
				} else {
					fmt.Println(node.String())
				}
				if errs := node.Errors(); len(errs) > 0 {
					return fmt.Errorf("%s: %d syntax errors", filename, len(errs))
				}
			case "pretty":
				p := aidl.NewParser(aidl.OSDelegate{}, aidl.NewTypenames())
				if err := p.ParseFile(filename); err != nil {
					return err
				}
				var resolveErr error
				if resolve {
					resolveErr = p.Resolve()
				}
				if err := format.NewPrettyEncoder(os.Stdout).Encode(p.Document().DefinedTypes); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				return resolveErr
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json, pretty)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include token positions in the tree format")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "resolve type names before printing the pretty format")

	return cmd
}
