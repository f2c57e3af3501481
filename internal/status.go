package internal

import (
	"time"

	"github.com/MrSnakeDoc/hoist/internal/config"
	"github.com/MrSnakeDoc/hoist/internal/errs"
	"github.com/MrSnakeDoc/hoist/internal/middleware"
	"github.com/MrSnakeDoc/hoist/internal/printer"
	"github.com/MrSnakeDoc/hoist/internal/state"
	"github.com/MrSnakeDoc/hoist/internal/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type statusView struct {
	State       string `yaml:"state"`
	LastChecked string `yaml:"last_checked"`
	Installer   string `yaml:"downloaded_installer_filename,omitempty"`
	StateFile   string `yaml:"state_file"`
	PendingDir  string `yaml:"pending_dir"`
}

func NewStatusCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the persisted update state",
		Long: `Show the persisted update state without changing it.

Examples:
  hoist status                 # table
  hoist status --output yaml   # machine readable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "table" && output != "yaml" {
				return middleware.InvocationError(errs.InvalidOutputFormat, appName, output)
			}

			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}

			view := newStatusView(cfg, state.New(cfg.StatePath()).Read())
			if output == "yaml" {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer utils.Try(enc.Close)
				return enc.Encode(view)
			}

			colorize := printer.NewColorPrinter().ForStatus(view.State)
			utils.CreateStatusTable("", []utils.Field{
				{Name: "State", Value: colorize("%s", view.State)},
				{Name: "Last checked", Value: view.LastChecked},
				{Name: "Installer", Value: orDash(view.Installer)},
				{Name: "State file", Value: view.StateFile},
				{Name: "Pending dir", Value: view.PendingDir},
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or yaml")
	return cmd
}

func newStatusView(cfg *config.Config, rec state.UpdateState) statusView {
	last := "never"
	if rec.LastChecked != nil {
		last = rec.LastChecked.Local().Format(time.RFC3339)
	}
	return statusView{
		State:       rec.State.String(),
		LastChecked: last,
		Installer:   rec.DownloadedInstallerFilename,
		StateFile:   cfg.StatePath(),
		PendingDir:  cfg.Paths.PendingDir,
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
