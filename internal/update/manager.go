package update

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/MrSnakeDoc/hoist/internal/acquire"
	"github.com/MrSnakeDoc/hoist/internal/elevate"
	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/MrSnakeDoc/hoist/internal/state"
	"github.com/MrSnakeDoc/hoist/internal/utils"
	"github.com/MrSnakeDoc/hoist/internal/window"
)

// Stage2Directive is the first argument of the elevated relaunch.
const Stage2Directive = "stage2"

type StateStore interface {
	Read() state.UpdateState
	Store(mutate state.Mutator) error
}

type Acquirer interface {
	Obtain(ctx context.Context) (string, error)
}

type Installer interface {
	Install(ctx context.Context, path string) error
}

type Deps struct {
	AppName   string
	Store     StateStore
	Acquirer  Acquirer
	Installer Installer
	Closer    window.Closer
	Launcher  elevate.Launcher

	// RelaunchArgs precede the stage2 directive so the elevated copy
	// resolves the same configuration.
	RelaunchArgs []string

	// Now and Executable default to time.Now and os.Executable.
	Now        func() time.Time
	Executable func() (string, error)
	// TempDir receives the self-copy; defaults to os.TempDir().
	TempDir string
}

type Updater struct {
	deps Deps
}

func New(deps Deps) *Updater {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Executable == nil {
		deps.Executable = os.Executable
	}
	if deps.TempDir == "" {
		deps.TempDir = os.TempDir()
	}
	return &Updater{deps: deps}
}

// Stage1 runs unprivileged: obtain an installer, stage a copy of this binary
// outside the install directory, close the application and relaunch the copy
// elevated as stage2.
func (u *Updater) Stage1(ctx context.Context) Outcome {
	installerPath, err := u.deps.Acquirer.Obtain(ctx)
	if errors.Is(err, acquire.ErrUpToDate) {
		return u.upToDate()
	}
	if err != nil {
		logger.LogError("Could not obtain the installer: %v", err)
		u.persist(state.ErrorDownloadingAt(u.deps.Now()))
		return OutcomeFailed
	}

	installerPath, err = filepath.Abs(installerPath)
	if err != nil {
		logger.LogError("Could not resolve installer path: %v", err)
		u.persist(state.ErrorDownloadingAt(u.deps.Now()))
		return OutcomeFailed
	}

	copied, err := u.copySelf()
	if err != nil {
		// the artifact stays in place for the next attempt
		logger.LogError("%v", &RelaunchError{Op: "self-copy", Err: err})
		return OutcomeFailed
	}

	u.closeApplication(ctx)

	args := append(append([]string{}, u.deps.RelaunchArgs...), Stage2Directive, installerPath)
	if err := u.deps.Launcher.Launch(copied, args); err != nil {
		logger.LogError("%v", &RelaunchError{Op: "elevation", Err: err})
		u.persist(state.ErrorDownloadingAt(u.deps.Now()))
		return OutcomeFailed
	}

	logger.Info("Installer %s handed to the elevated updater", filepath.Base(installerPath))
	return OutcomeRelaunched
}

// Stage2 runs elevated and blocks until the installer finishes.
func (u *Updater) Stage2(ctx context.Context, installerPath string) Outcome {
	logger.Info("Installing %s", installerPath)

	if err := u.deps.Installer.Install(ctx, installerPath); err != nil {
		logger.LogError("Installation failed: %v", err)
		u.persist(state.ErrorDownloadingAt(u.deps.Now()))
		return OutcomeFailed
	}

	if err := u.persist(state.UpToDateAt(u.deps.Now())); err != nil {
		return OutcomeFailed
	}
	logger.Success("Update installed")
	return OutcomeInstalled
}

// Prefetch downloads the installer in the background and records it as
// readyToInstall for the next stage1. It never launches anything.
func (u *Updater) Prefetch(ctx context.Context) Outcome {
	path, err := u.deps.Acquirer.Obtain(ctx)
	if errors.Is(err, acquire.ErrUpToDate) {
		return u.upToDate()
	}
	if err != nil {
		logger.LogError("Prefetch failed: %v", err)
		u.persist(state.ErrorDownloadingAt(u.deps.Now()))
		return OutcomeFailed
	}

	name := filepath.Base(path)
	if err := u.persist(state.ReadyToInstallAt(name, u.deps.Now())); err != nil {
		return OutcomeFailed
	}
	logger.Success("Installer %s ready to install", name)
	return OutcomeDownloaded
}

func (u *Updater) upToDate() Outcome {
	if err := u.persist(state.UpToDateAt(u.deps.Now())); err != nil {
		return OutcomeFailed
	}
	logger.Success("Already on the latest version")
	return OutcomeUpToDate
}

func (u *Updater) persist(m state.Mutator) error {
	if err := u.deps.Store.Store(m); err != nil {
		logger.LogError("Failed to save update state: %v", err)
		return err
	}
	return nil
}

func (u *Updater) closeApplication(ctx context.Context) {
	if u.deps.Closer == nil {
		return
	}
	found, err := u.deps.Closer.Close(ctx)
	switch {
	case err != nil:
		logger.Warn("Could not close the running application: %v", err)
	case found:
		logger.Debug("Asked the running application to exit")
	default:
		logger.Debug("Application not running")
	}
}

// copySelf puts this executable at a fixed path outside the installation so
// the installer can replace the original.
func (u *Updater) copySelf() (string, error) {
	exe, err := u.deps.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	dst := SelfCopyPath(u.deps.TempDir, u.deps.AppName)
	if filepath.Clean(exe) == filepath.Clean(dst) {
		return dst, nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := utils.CopyFile(exe, dst, 0o755); err != nil {
		return "", err
	}
	return dst, nil
}

func SelfCopyPath(dir, app string) string {
	name := app + ".update"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name)
}
