package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/aidl/aidl"
	"github.com/dhamidi/aidl/aidl/backend"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newCompileCmd() *cobra.Command {
	var flags loadFlags
	var lang string
	var output string

	cmd := &cobra.Command{
		Use:   "compile [file...]",
		Short: "Validate .aidl files and write their intermediate representation",
		Long: `Validate .aidl files and write their intermediate representation.

Every file is loaded with its imports, checked and handed to the generator of
the selected backend, which writes <output>/<package path>/<Name>.json. Files
are compiled independently: a failing file does not stop the others, but the
command fails if any file failed.

Without arguments every .aidl file of the project is compiled.

Examples:
  aidl compile --lang cpp -I imports src/a/b/IFoo.aidl
  aidl compile -o - a/b/IFoo.aidl     # write to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("lang") {
				p.Lang = lang
			}
			out := p.Path(p.Output)
			if cmd.Flags().Changed("output") {
				out = output
			}
			b, err := backend.Lookup(p.Lang)
			if err != nil {
				return err
			}
			files, err := inputFiles(p, args)
			if err != nil {
				return err
			}

			opts := append(flags.options(cmd, p), aidl.WithInputFiles(files...))
			gen := backend.IRGenerator{Backend: b}

			var errs error
			for _, file := range files {
				if err := compileFile(gen, b, file, out, opts); err != nil {
					errs = multierr.Append(errs, err)
				}
			}
			return errs
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&lang, "lang", "java", "target backend ("+strings.Join(backend.Names(), ", ")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "out", "output directory, or - for stdout")

	return cmd
}

func compileFile(gen backend.Generator, b backend.Backend, file, output string, opts []aidl.LoadOption) error {
	in, err := backend.Load(aidl.OSDelegate{}, file, b, opts...)
	if err != nil {
		return err
	}

	if output == "-" {
		return gen.Generate(os.Stdout, in)
	}

	path := filepath.Join(append([]string{output}, in.Type.SplitPackage()...)...)
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	path = filepath.Join(path, in.Type.Name()+".json")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	err = gen.Generate(f, in)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}
