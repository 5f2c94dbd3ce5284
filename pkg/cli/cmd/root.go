// Package cmd implements the strato CLI commands.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/strato-sh/strato/internal/config"
	"github.com/strato-sh/strato/pkg/cli/format"
	"github.com/strato-sh/strato/pkg/log"
	"github.com/strato-sh/strato/pkg/version"
)

var (
	cfgFile string
	verbose bool

	cfg = config.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "strato",
	Short: "Strato - Multi-cloud cluster lifecycle CLI",
	Long: `Strato manages the lifecycle of clusters provisioned across clouds:
launch, start, stop, tear-down and scheduled autostop, with glob-style
targeting over many clusters at once.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version.Version,
}

// Execute runs the root command. Interrupts stop dispatch of new work but
// let in-flight cloud operations finish.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		format.RenderError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.strato/strato.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	viper.SetEnvPrefix("STRATO")
	viper.AutomaticEnv()
}

// initConfig reads in the config file and prepares logging.
func initConfig() {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		log.GetDefaultLogger().Warn("failed to load config, using defaults", log.Err(err))
	} else {
		cfg = loaded
	}

	level := log.ParseLevel(cfg.Log.Level)
	if verbose {
		level = log.DebugLevel
	}
	logFormat := log.TextFormat
	if cfg.Log.Format == "json" {
		logFormat = log.JSONFormat
	}
	log.SetDefaultLogger(log.NewLogger(log.WithLevel(level), log.WithFormat(logFormat)))
}
