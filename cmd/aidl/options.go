package main

import (
	"github.com/dhamidi/aidl/aidl"
	"github.com/dhamidi/aidl/project"
	"github.com/spf13/cobra"
)

// loadFlags are the front end options shared by the commands that load
// files. They are added to the ones from the project configuration.
type loadFlags struct {
	importPaths  []string
	preprocessed []string
	structured   bool
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.importPaths, "include", "I", nil, "search this directory for imports (repeatable)")
	cmd.Flags().StringArrayVarP(&f.preprocessed, "preprocessed", "p", nil, "load types from this preprocessed file (repeatable)")
	cmd.Flags().BoolVar(&f.structured, "structured", false, "reject unstructured parcelables")
}

func (f *loadFlags) options(cmd *cobra.Command, p *project.Project) []aidl.LoadOption {
	opts := p.LoadOptions()
	if len(f.importPaths) > 0 {
		opts = append(opts, aidl.WithImportPaths(f.importPaths...))
	}
	if len(f.preprocessed) > 0 {
		opts = append(opts, aidl.WithPreprocessed(f.preprocessed...))
	}
	if cmd.Flags().Changed("structured") {
		opts = append(opts, aidl.WithStructured(f.structured))
	}
	return opts
}

// inputFiles returns args, or every source file of the project when no file
// was named.
func inputFiles(p *project.Project, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	return p.Files()
}
