package main

import (
	"github.com/dhamidi/aidl/aidl/codebase"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the Language Server Protocol server on stdio.

The server reads aidl.yaml from the workspace root, publishes diagnostics for
open files and completes type and annotation names.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version)
			return server.RunStdio()
		},
	}
}
