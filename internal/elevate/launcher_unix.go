//go:build !windows

package elevate

import (
	"fmt"
	"os"

	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/MrSnakeDoc/hoist/internal/runner"
)

// CommandLauncher prefixes the program with an elevation helper such as
// pkexec and starts it in its own session.
type CommandLauncher struct {
	Command string
	Starter runner.Starter
	euid    func() int
}

func New(command string) *CommandLauncher {
	return &CommandLauncher{Command: command, Starter: runner.ExecRunner{}, euid: os.Geteuid}
}

func (l *CommandLauncher) Launch(exe string, args []string) error {
	name, argv := exe, args
	if l.Command != "" && l.euid() != 0 {
		name, argv = l.Command, append([]string{exe}, args...)
	}

	logger.Debug("Elevating: %s", runner.CommandLine(name, argv...))
	if err := l.Starter.Start(name, argv...); err != nil {
		return fmt.Errorf("failed to launch elevated %s: %w", exe, err)
	}
	return nil
}
