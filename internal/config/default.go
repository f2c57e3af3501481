package config

import (
	"runtime"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAppName        = "hoist"
	DefaultWindowClass    = "HoistTrayIconWindow"
	DefaultReleaseURL     = "https://api.github.com/repos/MrSnakeDoc/hoist/releases/latest"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultDownloadTime   = 30 * time.Minute
	DefaultInstallTimeout = 60 * time.Second
)

// DefaultSilentArgs are passed to generic executable installers.
var DefaultSilentArgs = []string{"/passive", "/norestart"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", DefaultAppName)
	v.SetDefault("app.version", "")
	v.SetDefault("app.window_class", DefaultWindowClass)
	v.SetDefault("app.process_name", "")

	v.SetDefault("release.url", DefaultReleaseURL)
	v.SetDefault("release.asset_suffix", defaultAssetSuffix(runtime.GOOS))
	v.SetDefault("release.allow_insecure", false)

	v.SetDefault("http.timeout", DefaultHTTPTimeout)
	v.SetDefault("http.download_timeout", DefaultDownloadTime)

	v.SetDefault("install.timeout", DefaultInstallTimeout)
	v.SetDefault("install.silent_args", DefaultSilentArgs)

	v.SetDefault("elevation.command", defaultElevationCommand(runtime.GOOS))

	v.SetDefault("paths.state_dir", DefaultStateDir())
	v.SetDefault("paths.pending_dir", "")
	v.SetDefault("paths.log_file", "")
}

func defaultAssetSuffix(goos string) string {
	switch goos {
	case "windows":
		return ".exe"
	case "darwin":
		return ".pkg"
	default:
		return ".deb"
	}
}

func defaultElevationCommand(goos string) string {
	switch goos {
	case "windows":
		return "" // ShellExecute "runas"
	case "darwin":
		return "sudo"
	default:
		return "pkexec"
	}
}
