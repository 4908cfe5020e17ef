/*
Package cli implements the vesting command-line interface.

COMMANDS:
  vesting serve       Run the HTTP API
  vesting calculate   Project a preset or a scheme file in the terminal
  vesting presets     List built-in schemes

CONFIGURATION:
  Every command reads the same configuration (see config package):
  defaults, then the --config file, then VESTING_* environment variables,
  then command flags.

  vesting --config ./vesting.yaml serve --port 9090
  VESTING_MARKET_PRICE_USD=120000 vesting calculate builder
*/
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/warp/vesting-engine/config"
	"github.com/warp/vesting-engine/logger"
)

// app carries state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg *config.Config
	log *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "vesting",
		Short:         "Bitcoin vesting projection engine",
		Long:          "Project employer-held bitcoin grants over their vesting schedule and serve projections over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "Config file (yaml, json or toml)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "json", "Log format (json, console)")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		newServeCmd(a),
		newCalculateCmd(a),
		newPresetsCmd(a),
	)
	return root
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// load reads configuration and builds the logger.
func (a *app) load() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	return nil
}
