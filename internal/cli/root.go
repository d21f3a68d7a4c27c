package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AdikaNathaniel/Automated-Voice-AI-Testing-Framework-sub004/internal/config"
)

// RootOptions holds global flags for all commands, layered on top of
// the .vatrack.yml config.
type RootOptions struct {
	Config  config.Config
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the vatrack CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vatrack",
		Short: "vatrack - voice assistant scenario execution tracker",
		Long: `vatrack tracks multi-turn scenario executions on the voice assistant
test platform: it mirrors an execution's state from the platform's REST
snapshots and event stream, and derives consensus verdicts from each
step's validation payloads.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}

			// Flags override the config file only when set explicitly.
			if cmd.Flags().Changed("format") {
				cfg.Format = opts.Format
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = opts.Verbose
			}

			if !isValidFormat(cfg.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", cfg.Format, ValidFormats)
			}

			opts.Config = cfg
			opts.Format = cfg.Format
			opts.Verbose = cfg.Verbose
			configureLogging(cfg.LogLevel, cfg.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewRecordCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewVerdictCommand(opts))

	return cmd
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

// configureLogging installs the default slog handler. Logs go to
// stderr so JSON output on stdout stays parseable.
func configureLogging(level string, verbose bool) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	if verbose && l > slog.LevelDebug {
		l = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
