package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/patchdeps/patchdeps/internal/cli"
	"github.com/patchdeps/patchdeps/internal/config"
	"github.com/patchdeps/patchdeps/internal/logging"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.UserMessage(err))
		os.Exit(cli.ExitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "patchdeps",
	Short: "Find textual dependencies among git commits",
	Long: `patchdeps analyzes a range of commits and reports, for each commit,
which earlier commits it depends on textually: a commit that modifies or
removes lines another commit introduced cannot be applied without it.
The matrix output shows at a glance which commits can be safely reordered.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}
		logrus.SetOutput(os.Stderr)

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}

		if err := logging.Initialize(logConfig()); err != nil {
			logger.WithError(err).Warn("Failed to initialize structured logging")
		}
	},
}

func logConfig() logging.Config {
	level := logging.INFO
	switch cfg.Log.Level {
	case "debug":
		level = logging.DEBUG
	case "warn":
		level = logging.WARN
	case "error":
		level = logging.ERROR
	}
	if verbose {
		level = logging.DEBUG
	}
	return logging.Config{
		Level:      level,
		OutputFile: cfg.Log.File,
		JSONFormat: cfg.Log.JSON,
		AddSource:  verbose,
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .patchdeps/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`patchdeps {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(reorderCmd)
}
