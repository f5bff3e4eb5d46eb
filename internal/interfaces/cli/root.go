// Package cli defines the command-line interface of the platform.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/config"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// cliContext carries the initialized dependencies through the command tree.
type cliContext struct {
	cfg    *config.Config
	logger logging.Logger
}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	ctx := &cliContext{}

	cmd := &cobra.Command{
		Use:     "crimegraph",
		Short:   "CrimeGraph-Intelligence: incident similarity graphs and community scoring",
		Long:    "CrimeGraph-Intelligence builds a weighted similarity graph over geolocated\nincident records, partitions it into communities and classifies the\ncommunities into focal points, priority areas and attention areas.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initContext(ctx, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to the configuration file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug|info|warn|error)")

	cmd.AddCommand(newAnalyzeCommand(ctx))
	cmd.AddCommand(newServeCommand(ctx))
	return cmd
}

func initContext(ctx *cliContext, opts *RootOptions) error {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	logCfg := logging.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if cfg.Log.Output != "" {
		logCfg.OutputPaths = []string{cfg.Log.Output}
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	ctx.cfg = cfg
	ctx.logger = logger
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
