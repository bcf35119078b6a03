package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/aidl/aidl"
	"github.com/dhamidi/aidl/project"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// globals set by the persistent flags of the root command
var (
	verbosity  int
	logFile    string
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "aidl",
		Short:         "Compiler front end for the Android Interface Definition Language",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbosity, path)
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "project configuration (default ./"+project.FileName+" when present)")

	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newPreprocessCmd())
	rootCmd.AddCommand(newDumpAPICmd())
	rootCmd.AddCommand(newCheckAPICmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newGrammarCmd())

	if err := rootCmd.Execute(); err != nil {
		printErrors(err)
		os.Exit(1)
	}
}

func printErrors(err error) {
	for _, d := range aidl.Diagnostics(err) {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", d.Error())
	}
}

// loadProject reads the project named by --config, or the one in the
// current directory.
func loadProject() (*project.Project, error) {
	if configFile != "" {
		return project.LoadFile(configFile)
	}
	return project.Load()
}
