package main

import (
	"io"

	"github.com/dhamidi/aidl/aidl"
	"github.com/dhamidi/aidl/format"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newPreprocessCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "preprocess -o <out> [file...]",
		Short: "Write the declarations of .aidl files as a preprocessed file",
		Long: `Write the declarations of .aidl files as a preprocessed file.

Each line names one type, e.g. "parcelable a.b.Data;". Other invocations load
the file with -p to resolve these types without parsing their sources.
Files are only parsed, not validated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			files, err := inputFiles(p, args)
			if err != nil {
				return err
			}

			var types []aidl.DefinedType
			var errs error
			for _, file := range files {
				parser := aidl.NewParser(aidl.OSDelegate{}, aidl.NewTypenames())
				if err := parser.ParseFile(file); err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				types = append(types, parser.Document().DefinedTypes...)
			}
			if errs != nil {
				return errs
			}

			return writeOutput(output, func(w io.Writer) error {
				return format.NewPreprocessedEncoder(w).Encode(types)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, or - for stdout")

	return cmd
}
