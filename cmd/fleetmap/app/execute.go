package app

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// Process exit codes. The core distinguishes full success, partial
// success, and total failure so the CLI can report each distinctly.
const (
	// ExitOK means the operation succeeded for every hostname.
	ExitOK = 0

	// ExitFailure means the operation failed outright.
	ExitFailure = 1

	// ExitPartial means some hostnames succeeded and some failed.
	ExitPartial = 2

	// ExitDrift means validation found mismatched or missing records.
	ExitDrift = 3
)

// exitError carries a specific process exit code up through cobra.
type exitError struct {
	code    int
	message string
}

// Error implements the error interface.
func (e *exitError) Error() string {
	return e.message
}

// Execute runs the fleetmap CLI application with the given arguments and
// returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			if exitErr.message != "" {
				_, _ = os.Stderr.WriteString(exitErr.message + "\n")
			}
			return exitErr.code
		}

		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		return ExitFailure
	}

	return ExitOK
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "fleetmap",
		Short:   "GPU fleet node state management",
		Version: a.version,
		Long: `Fleetmap tracks the desired and actual configuration of GPU compute
nodes, using etcd as the system of record.

Declare desired node state in a YAML manifest, write it to the store with
put, inspect a single node with get, and reconcile the whole manifest
against the store with validate.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.fleetmap.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.config.Endpoint, "etcd", a.config.Endpoint, "base URL of the etcd v3 HTTP gateway")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().StringVar(&a.config.LogOutput, "log-output", a.config.LogOutput, "where to write logs: stderr, stdout, or a file path")

	rootCmd.SetVersionTemplate("fleetmap {{.Version}}\n")

	// Register all commands
	rootCmd.AddCommand(a.NewPutCommand())
	rootCmd.AddCommand(a.NewGetCommand())
	rootCmd.AddCommand(a.NewValidateCommand())
	rootCmd.AddCommand(a.NewVersionCommand())

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	noColor, _ := cmd.Flags().GetBool("no-color")
	format, _ := cmd.Flags().GetString("format")
	logLevel, _ := cmd.Flags().GetString("log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError prints an error and exits with status 1. Meant for
// top-level error handling in main.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(ExitFailure)
	}
}
