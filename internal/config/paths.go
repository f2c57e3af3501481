package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
)

const (
	unixStateDir  = ".local/state/hoist"
	unixConfigDir = ".config/hoist"
)

// DefaultStateDir is per user. Elevated unix runs resolve the invoking user's
// home so both stages read and write the same record.
func DefaultStateDir() string {
	if runtime.GOOS == "windows" {
		if base := os.Getenv("LOCALAPPDATA"); base != "" {
			return filepath.Join(base, DefaultAppName)
		}
	}
	home := invokingUserHome()
	if home == "" {
		return ""
	}
	return filepath.Join(home, unixStateDir)
}

func ConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, DefaultAppName), nil
	}
	home := invokingUserHome()
	if home == "" {
		return "", os.ErrNotExist
	}
	return filepath.Join(home, unixConfigDir), nil
}

func invokingUserHome() string {
	if runtime.GOOS != "windows" && os.Geteuid() == 0 {
		if name := os.Getenv("SUDO_USER"); name != "" {
			if u, err := user.Lookup(name); err == nil {
				return u.HomeDir
			}
		}
		if uid := os.Getenv("PKEXEC_UID"); uid != "" {
			if u, err := user.LookupId(uid); err == nil {
				return u.HomeDir
			}
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
