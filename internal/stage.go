package internal

import (
	"github.com/MrSnakeDoc/hoist/internal/config"
	"github.com/MrSnakeDoc/hoist/internal/errs"
	"github.com/MrSnakeDoc/hoist/internal/middleware"
	"github.com/MrSnakeDoc/hoist/internal/update"
	"github.com/spf13/cobra"
)

func NewStage1Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stage1",
		Short: "Obtain the installer and relaunch elevated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}
			return finish(newUpdater(cfg).Stage1(cmd.Context()))
		},
	}
}

func NewStage2Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   update.Stage2Directive + " <installer path>",
		Short: "Run a downloaded installer (started elevated by stage1)",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return middleware.InvocationError(errs.MissingInstallerPath, appName)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}
			return finish(newUpdater(cfg).Stage2(cmd.Context(), args[0]))
		},
	}
}

func NewPrefetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prefetch",
		Short: "Download the latest installer for a later stage1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}
			return finish(newUpdater(cfg).Prefetch(cmd.Context()))
		},
	}
}

// finish maps a failed stage to ErrLogged: the cause is already in the log.
func finish(o update.Outcome) error {
	if o.Err() != nil {
		return middleware.ErrLogged
	}
	return nil
}
