// Package cmd implements the sessiond command line.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sessionguard/core/config"
	"github.com/dmitrymomot/sessionguard/core/logger"
	"github.com/dmitrymomot/sessionguard/core/session"
)

const serviceName = "sessiond"

var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Cookie session authority backed by PostgreSQL",
	Long: `sessiond issues encrypted, fingerprint-bound session cookies for users
stored in PostgreSQL. Configuration is read from the environment and from a
.env file in the working directory when present.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns a JSON logger in production and a debug text logger otherwise.
func newLogger() (*slog.Logger, error) {
	var cfg session.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if cfg.IsProduction() {
		return logger.New(logger.WithProduction(serviceName)), nil
	}
	return logger.New(logger.WithDevelopment(serviceName)), nil
}
