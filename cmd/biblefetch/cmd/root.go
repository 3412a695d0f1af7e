// Package cmd provides the CLI commands for biblefetch.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/VeryOriginalIK/BibleFetch/internal/config"
	"github.com/VeryOriginalIK/BibleFetch/internal/logging"
	"github.com/VeryOriginalIK/BibleFetch/pkg/version"
)

var (
	cfgFile   string
	debugMode bool
)

// NewRootCmd creates the root command for the biblefetch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "biblefetch",
		Short: "Offline Bible corpus indexer",
		Long: `BibleFetch turns raw translation and lexicon source files into a static
JSON tree of chapter chunks, word indexes, Strong's concordance,
original-language indexes, and chunked lexicons, laid out so a web
frontend can fetch every shard directly from a CDN.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("biblefetch version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file (default "+config.DefaultConfigFile+")")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newLookupCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig loads configuration and sets up logging for a command run.
// The returned cleanup closes the log file, if any.
func loadConfig() (*config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}

	level := cfg.Logging.Level
	if debugMode {
		level = "debug"
	}
	log, cleanup, err := logging.Setup(level, cfg.Logging.File)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.SetDefault(log)
	return cfg, log, cleanup, nil
}

// Execute runs the root command with signal-aware cancellation: SIGINT
// and SIGTERM cancel the command context so a run can stop between
// translations instead of mid-write.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
