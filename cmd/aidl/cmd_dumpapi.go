package main

import (
	"io"

	"github.com/dhamidi/aidl/aidl"
	"github.com/dhamidi/aidl/aidl/apicheck"
	"github.com/dhamidi/aidl/format"
	"github.com/spf13/cobra"
)

func newDumpAPICmd() *cobra.Command {
	var flags loadFlags
	var output string

	cmd := &cobra.Command{
		Use:   "dumpapi [file...]",
		Short: "Write the API of structured .aidl files",
		Long: `Write the API of structured .aidl files.

The dump lists every type grouped by package with its method or field
signatures. It is the reference checkapi and reviewers compare against.
Unstructured parcelables are rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			files, err := inputFiles(p, args)
			if err != nil {
				return err
			}

			types, err := apicheck.Load(aidl.OSDelegate{}, files, flags.options(cmd, p)...)
			if err != nil {
				return err
			}
			return writeOutput(output, func(w io.Writer) error {
				return format.NewAPIEncoder(w).Encode(types)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, or - for stdout")

	return cmd
}
