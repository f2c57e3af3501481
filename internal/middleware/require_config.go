package middleware

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/hoist/internal/checker"
	"github.com/MrSnakeDoc/hoist/internal/config"
	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/spf13/cobra"
)

// RequireConfig loads the configuration, reopens the logger with the
// configured log file and stores the config in the command context.
func RequireConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	path, _ := cmd.Flags().GetString("config")
	overrides, _ := cmd.Flags().GetStringArray("set")

	cfg, err := config.Load(path, overrides...)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.App.Version == "" {
		cfg.App.Version = checker.Version
	}

	logger.ConfigureLoggerFromFlags(cfg.Paths.LogFile)
	logger.Debug("%s %s: state %s", cmd.Name(), cfg.App.Version, cfg.StatePath())

	ctx := context.WithValue(cmd.Context(), CtxKeyConfig, cfg)
	cmd.SetContext(ctx)

	return next(cmd, args)
}
