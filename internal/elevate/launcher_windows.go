//go:build windows

package elevate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/hoist/internal/logger"
	"golang.org/x/sys/windows"
)

// ShellLauncher asks the shell for the "runas" verb, which raises the UAC prompt.
type ShellLauncher struct{}

// New ignores command; elevation on Windows always goes through UAC.
func New(_ string) *ShellLauncher {
	return &ShellLauncher{}
}

func (ShellLauncher) Launch(exe string, args []string) error {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = windows.EscapeArg(a)
	}
	params := strings.Join(quoted, " ")

	verb, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(exe)
	if err != nil {
		return err
	}
	argv, err := windows.UTF16PtrFromString(params)
	if err != nil {
		return err
	}
	dir, err := windows.UTF16PtrFromString(filepath.Dir(exe))
	if err != nil {
		return err
	}

	logger.Debug("Elevating: %s %s", exe, params)
	if err := windows.ShellExecute(0, verb, file, argv, dir, windows.SW_HIDE); err != nil {
		return fmt.Errorf("failed to launch elevated %s: %w", exe, err)
	}
	return nil
}
