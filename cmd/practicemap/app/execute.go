package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/practicemap/pkg/constants"
	"github.com/agentstation/practicemap/pkg/errors"
	"github.com/agentstation/practicemap/pkg/logging"
)

const (
	registryUsage = "Usage: practicemap <registry_file> [<amendment_file>...]"
	joinUsage     = "Usage: practicemap join <directory_file> <registry_file> [<amendment_file>...]"
)

// Execute runs the practicemap CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command. The root command itself
// runs the registry-only reconciliation; join adds the directory export.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "practicemap <registry_file> [<amendment_file>...]",
		Short: "Reconcile GP practice registry extracts into a JSON document",
		Long: `practicemap merges a practice registry extract with any number of
amendment extracts (later files override earlier ones by organisation code),
keeps active GP practices, and prints them as a JSON array sorted by
organisation code.

Use "practicemap join" to add coordinates from a GP directory export.`,
		Version:           a.version,
		Args:              requireArgs(1, registryUsage),
		PersistentPreRunE: a.setupCommand,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), args, "")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.practicemap.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", false, "disable colored log output")
	flags.StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: json, yaml, table")
	flags.StringVar(&a.config.MetricsTextfile, "metrics-textfile", a.config.MetricsTextfile, "write run metrics to this Prometheus textfile")
	flags.StringVar(&a.config.StatusCode, "status-code", a.config.StatusCode, "registry status code of an active practice")
	flags.StringVar(&a.config.PrescribingSetting, "prescribing-setting", a.config.PrescribingSetting, "prescribing setting of a GP practice")

	rootCmd.SetVersionTemplate("practicemap {{.Version}}\n")
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.NewUsageError(usageFor(cmd), err.Error())
	})

	rootCmd.AddCommand(a.newJoinCommand())

	return rootCmd
}

func (a *App) newJoinCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join <directory_file> <registry_file> [<amendment_file>...]",
		Short: "Reconcile registry extracts with a GP directory export",
		Long: `join merges the registry extract and its amendments, then joins them
with the GP directory export by organisation code. Each practice gains a
location holding its address and, when the directory has them, its
latitude and longitude.`,
		Args: requireArgs(2, joinUsage),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), args[1:], args[0])
		},
	}

	cmd.Flags().StringVar(&a.config.DirectoryDelimiter, "directory-delimiter", a.config.DirectoryDelimiter, "field delimiter of the directory export")
	cmd.Flags().StringVar(&a.config.DirectoryEncoding, "directory-encoding", a.config.DirectoryEncoding, "character encoding of the directory export")

	return cmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if a.config.ConfigFile != "" && cmd.Flags().Changed("config") {
		if err := a.config.ApplyFile(a.config.ConfigFile, cmd.Flags().Changed); err != nil {
			return err
		}
	}

	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	logLevel := mustGetString(cmd, "log-level")
	a.config.UpdateFromFlags(verbose, quiet, noColor, logLevel)

	logger := NewLogger(a.config, a.stderr)
	a.logger = &logger
	logging.SetDefault(logger)

	return nil
}

// requireArgs returns a validator that fails with a usage error when fewer
// than n positional arguments are given.
func requireArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return errors.NewUsageError(usage, "")
		}
		return nil
	}
}

func usageFor(cmd *cobra.Command) string {
	if cmd.Name() == "join" {
		return joinUsage
	}
	return registryUsage
}

// ExitCode maps an error returned by Execute to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return constants.ExitOK
	case errors.IsUsage(err):
		return constants.ExitUsage
	default:
		return constants.ExitError
	}
}

// PrintError writes err to w the way the command line reports it.
func PrintError(w io.Writer, err error) {
	if errors.IsUsage(err) {
		_, _ = fmt.Fprintln(w, err.Error())
		return
	}
	_, _ = fmt.Fprintf(w, "practicemap: %v\n", err)
}

// ExitOnError prints err and exits with the matching status.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		PrintError(os.Stderr, err)
		os.Exit(ExitCode(err))
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
