package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "yaml"
	ConfigPath string

	Config Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the closedform CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "closedform",
		Short: "Evaluate closed-form roots of unity and Michaelis–Menten kinetics",
		Long: `closedform evaluates two closed-form results and hands the numbers to
CSV and plot sinks:

  roots      n-th roots of unity and cyclotomic polynomials
  kinetics   Michaelis–Menten time course via the Lambert W function
  sweep      one-parameter sensitivity scan of the kinetics`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			if opts.ConfigPath == "" {
				return nil
			}
			cfg, err := LoadConfig(opts.ConfigPath)
			if err != nil {
				formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
				return formatter.Fail(ErrCodeConfig, ExitCommandError, fmt.Errorf("load config: %w", err))
			}
			opts.Config = cfg
			opts.Logger.Debug("config loaded", "path", opts.ConfigPath)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML file with default parameters")

	cmd.AddCommand(NewRootsCommand(opts))
	cmd.AddCommand(NewKineticsCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// flag parsing and unknown commands
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}
	if !exitErr.Reported {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return GetExitCode(exitErr)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
