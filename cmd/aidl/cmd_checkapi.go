package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/aidl/aidl"
	"github.com/dhamidi/aidl/aidl/apicheck"
	"github.com/spf13/cobra"
)

func newCheckAPICmd() *cobra.Command {
	var outputFormat string
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "checkapi <old> <new>",
		Short: "Check that a new version of an API is compatible with an old one",
		Long: `Check that a new version of an API is compatible with an old one.

<old> and <new> are .aidl files or directories of them. New types, methods
appended at the end of an interface and fields appended at the end of a
parcelable are compatible; anything else that changes is reported.

Examples:
  aidl checkapi api/1 api/current
  aidl checkapi --format json --diff api/1 api/current`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			older, err := loadAPI(args[0])
			if err != nil {
				return err
			}
			newer, err := loadAPI(args[1])
			if err != nil {
				return err
			}

			if showDiff {
				diff, err := apicheck.Diff(older, newer, args[0], args[1])
				if err != nil {
					return fmt.Errorf("diff: %w", err)
				}
				fmt.Print(diff)
			}

			checkErr := apicheck.Check(older, newer)
			switch outputFormat {
			case "text":
				return checkErr
			case "json":
				if err := apicheck.NewReport(checkErr).WriteJSON(os.Stdout); err != nil {
					return err
				}
				if checkErr != nil {
					return errors.New(args[1] + " is not compatible with " + args[0])
				}
				return nil
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "report format (text, json)")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "also print a unified diff of the two API dumps")

	return cmd
}

// loadAPI loads one version of an API. A directory doubles as the import
// path of its files.
func loadAPI(path string) ([]aidl.DefinedType, error) {
	files, err := apicheck.Files([]string{path})
	if err != nil {
		return nil, err
	}
	var opts []aidl.LoadOption
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		opts = append(opts, aidl.WithImportPaths(path))
	}
	return apicheck.Load(aidl.OSDelegate{}, files, opts...)
}
