package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/aidl/project"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default " + project.FileName,
		Long: `Write a default ` + project.FileName + `.

If a directory is provided, creates it and writes the configuration there.
Otherwise, writes it to the current directory. An existing configuration is
kept unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration")

	return cmd
}

func runInit(dir string, force bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	path := filepath.Join(dir, project.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Printf("%s already exists\n", path)
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	err = project.Default(dir).Write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("Created %s\n", path)
	return nil
}
