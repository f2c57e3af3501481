// Package installer runs a downloaded artifact: native package formats go
// through the platform package tool, anything else is executed directly.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/MrSnakeDoc/hoist/internal/runner"
)

// ExitError describes a failed install. Code is -1 when the installer never
// produced an exit status.
type ExitError struct {
	Path     string
	Code     int
	TimedOut bool
	Err      error
}

func (e *ExitError) Error() string {
	switch {
	case e.TimedOut:
		return fmt.Sprintf("installer %s timed out: %v", e.Path, e.Err)
	case e.Code >= 0:
		return fmt.Sprintf("installer %s exited with code %d", e.Path, e.Code)
	default:
		return fmt.Sprintf("installer %s failed: %v", e.Path, e.Err)
	}
}

func (e *ExitError) Unwrap() error { return e.Err }

type packageCommand func(path string) (string, []string)

var packageTools = map[string]packageCommand{
	".msi": func(p string) (string, []string) { return "msiexec", []string{"/i", p, "/passive", "/norestart"} },
	".deb": func(p string) (string, []string) { return "dpkg", []string{"-i", p} },
	".rpm": func(p string) (string, []string) { return "rpm", []string{"-U", p} },
	".pkg": func(p string) (string, []string) { return "installer", []string{"-pkg", p, "-target", "/"} },
}

type Dispatcher struct {
	Runner     runner.CommandRunner
	Timeout    time.Duration
	SilentArgs []string
}

func New(r runner.CommandRunner, timeout time.Duration, silentArgs []string) *Dispatcher {
	return &Dispatcher{Runner: r, Timeout: timeout, SilentArgs: silentArgs}
}

// Install blocks until the installer finishes. Package installs have no
// deadline. Executables get d.Timeout and must exit 0; one that outlives the
// timeout is reported as failed and left running.
func (d *Dispatcher) Install(ctx context.Context, path string) error {
	if err := checkArtifact(path); err != nil {
		return &ExitError{Path: path, Code: -1, Err: err}
	}

	name, args, timeout, mode := path, d.SilentArgs, d.Timeout, runner.LeaveRunning
	if tool, ok := packageTools[strings.ToLower(filepath.Ext(path))]; ok {
		name, args = tool(path)
		timeout, mode = 0, runner.Capture
	}

	logger.Debug("Running %s", runner.CommandLine(name, args...))
	out, err := d.Runner.Run(ctx, timeout, mode, name, args...)
	if err == nil {
		return nil
	}
	if len(out) > 0 {
		logger.Debug("Installer output:\n%s", strings.TrimSpace(string(out)))
	}
	return classify(path, err)
}

func classify(path string, err error) *ExitError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ExitError{Path: path, Code: -1, TimedOut: true, Err: err}
	}
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Path: path, Code: exitErr.Code, Err: err}
	}
	return &ExitError{Path: path, Code: -1, Err: err}
}

func checkArtifact(path string) error {
	if path == "" {
		return errors.New("no installer path given")
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("installer path %q is not absolute", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	return nil
}
