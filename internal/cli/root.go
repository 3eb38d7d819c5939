package cli

import (
	"github.com/spf13/cobra"
	"github.com/vytor/recall/internal/config"
	"github.com/vytor/recall/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "recall",
	Short:         "Hybrid mastery decay engine",
	Long:          "recall estimates how much of a learned skill is retained, combining elapsed time with interference from newer material, and ranks items for review.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(decayCmd)
	rootCmd.AddCommand(reviewsCmd)
}

// setupLogger installs the process-wide logger for cfg.
func setupLogger(cfg config.Config) *logger.Logger {
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)
	return log
}
