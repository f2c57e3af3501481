// Package config loads hoist settings from defaults, an optional YAML file and
// HOIST_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrSnakeDoc/hoist/internal/state"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "HOIST"
	configFileName = "config"
)

type App struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	WindowClass string `mapstructure:"window_class"`
	ProcessName string `mapstructure:"process_name"`
}

type Release struct {
	URL           string `mapstructure:"url"`
	AssetSuffix   string `mapstructure:"asset_suffix"`
	AllowInsecure bool   `mapstructure:"allow_insecure"`
}

type HTTP struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
}

type Install struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	SilentArgs []string      `mapstructure:"silent_args"`
}

type Elevation struct {
	Command string `mapstructure:"command"`
}

type Paths struct {
	StateDir   string `mapstructure:"state_dir"`
	PendingDir string `mapstructure:"pending_dir"`
	LogFile    string `mapstructure:"log_file"`
}

type Config struct {
	App       App       `mapstructure:"app"`
	Release   Release   `mapstructure:"release"`
	HTTP      HTTP      `mapstructure:"http"`
	Install   Install   `mapstructure:"install"`
	Elevation Elevation `mapstructure:"elevation"`
	Paths     Paths     `mapstructure:"paths"`

	// File is the absolute path of the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Load reads the configuration. An explicit path must exist; otherwise the
// default config.yml is optional. Overrides are key=value pairs that take
// precedence over every other source.
func Load(path string, overrides ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid override %q: expected key=value", kv)
		}
		v.Set(strings.TrimSpace(key), value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		if abs, err := filepath.Abs(used); err == nil {
			cfg.File = abs
		}
	}
	cfg.fillDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) fillDerived() {
	if c.App.ProcessName == "" {
		c.App.ProcessName = c.App.Name
	}
	if c.Paths.PendingDir == "" {
		c.Paths.PendingDir = filepath.Join(c.Paths.StateDir, "pending")
	}
	if c.Paths.LogFile == "" {
		c.Paths.LogFile = filepath.Join(c.Paths.StateDir, "logs", c.App.Name+"-update.log")
	}
}

func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.App.Name) == "":
		return errors.New("config: app.name must not be empty")
	case strings.TrimSpace(c.Release.URL) == "":
		return errors.New("config: release.url must not be empty")
	case c.Release.AssetSuffix == "":
		return errors.New("config: release.asset_suffix must not be empty")
	case c.HTTP.Timeout <= 0:
		return fmt.Errorf("config: http.timeout must be positive, got %s", c.HTTP.Timeout)
	case c.HTTP.DownloadTimeout <= 0:
		return fmt.Errorf("config: http.download_timeout must be positive, got %s", c.HTTP.DownloadTimeout)
	case c.Install.Timeout <= 0:
		return fmt.Errorf("config: install.timeout must be positive, got %s", c.Install.Timeout)
	case c.Paths.StateDir == "":
		return errors.New("config: paths.state_dir could not be resolved")
	}
	return nil
}

// RelaunchArgs are the global flags that make an elevated relaunch resolve
// the same state file, log file and install settings. The elevation helper
// may drop the environment, so env-sourced values travel as overrides.
func (c *Config) RelaunchArgs() []string {
	var args []string
	if c.File != "" {
		args = append(args, "--config="+c.File)
	}
	set := func(key, value string) {
		args = append(args, "--set="+key+"="+value)
	}
	set("app.name", c.App.Name)
	set("paths.state_dir", absPath(c.Paths.StateDir))
	set("paths.pending_dir", absPath(c.Paths.PendingDir))
	set("paths.log_file", absPath(c.Paths.LogFile))
	set("install.timeout", c.Install.Timeout.String())
	set("install.silent_args", strings.Join(c.Install.SilentArgs, ","))
	return args
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// StatePath is the fixed location of the persisted update record.
func (c *Config) StatePath() string {
	return filepath.Join(c.Paths.StateDir, state.FileName)
}
