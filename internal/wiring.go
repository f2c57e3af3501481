package internal

import (
	"github.com/MrSnakeDoc/hoist/internal/acquire"
	"github.com/MrSnakeDoc/hoist/internal/checker"
	"github.com/MrSnakeDoc/hoist/internal/config"
	"github.com/MrSnakeDoc/hoist/internal/elevate"
	"github.com/MrSnakeDoc/hoist/internal/installer"
	"github.com/MrSnakeDoc/hoist/internal/runner"
	"github.com/MrSnakeDoc/hoist/internal/service"
	"github.com/MrSnakeDoc/hoist/internal/state"
	"github.com/MrSnakeDoc/hoist/internal/update"
	"github.com/MrSnakeDoc/hoist/internal/window"
)

func newUpdater(cfg *config.Config) *update.Updater {
	store := state.New(cfg.StatePath())
	pending := acquire.NewPending(cfg.Paths.PendingDir)

	resolver := checker.NewGitHubResolver(service.NewHTTPClient(cfg.HTTP.Timeout), checker.Options{
		URL:            cfg.Release.URL,
		CurrentVersion: cfg.App.Version,
		AssetSuffix:    cfg.Release.AssetSuffix,
		AllowInsecure:  cfg.Release.AllowInsecure,
	})
	downloader := acquire.NewHTTPDownloader(
		service.NewHTTPClient(cfg.HTTP.DownloadTimeout), pending, cfg.Release.AllowInsecure)

	return update.New(update.Deps{
		AppName:   cfg.App.Name,
		Store:     store,
		Acquirer:  acquire.New(store, resolver, downloader, pending),
		Installer: installer.New(runner.ExecRunner{}, cfg.Install.Timeout, cfg.Install.SilentArgs),
		Closer:    window.New(cfg.App.WindowClass, cfg.App.ProcessName),
		Launcher:  elevate.New(cfg.Elevation.Command),

		RelaunchArgs: cfg.RelaunchArgs(),
	})
}
