//go:build !windows

package window

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	defaultExitWait = 5 * time.Second
	exitPoll        = 100 * time.Millisecond
)

// ProcessCloser sends SIGTERM to every process of the current user whose
// executable name matches Name, then waits up to ExitWait for them to exit.
type ProcessCloser struct {
	Name     string
	ExitWait time.Duration
}

// New takes the process name; the window class only applies on Windows.
func New(_, processName string) Closer {
	return &ProcessCloser{Name: processName, ExitWait: defaultExitWait}
}

func (c *ProcessCloser) Close(ctx context.Context) (bool, error) {
	if c.Name == "" {
		return false, nil
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list processes: %w", err)
	}

	self := int32(os.Getpid())
	uid := int32(os.Getuid())

	var (
		found      bool
		result     *multierror.Error
		terminated []*process.Process
	)
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil || name != c.Name {
			continue
		}
		uids, err := p.UidsWithContext(ctx)
		if err != nil || len(uids) == 0 || uids[0] != uid {
			continue
		}

		found = true
		logger.Debug("Terminating %s (pid %d)", name, p.Pid)
		err = p.TerminateWithContext(ctx)
		switch {
		case err == nil:
			terminated = append(terminated, p)
		case !errors.Is(err, process.ErrorProcessNotRunning):
			result = multierror.Append(result, fmt.Errorf("pid %d: %w", p.Pid, err))
		}
	}

	c.waitExit(ctx, terminated)
	return found, result.ErrorOrNil()
}

// waitExit polls until every process is gone or ExitWait elapses. A process
// still running afterwards is only logged.
func (c *ProcessCloser) waitExit(ctx context.Context, procs []*process.Process) {
	if len(procs) == 0 || c.ExitWait <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.ExitWait)
	defer cancel()

	ticker := time.NewTicker(exitPoll)
	defer ticker.Stop()

	for {
		alive := procs[:0]
		for _, p := range procs {
			if !exited(ctx, p) {
				alive = append(alive, p)
			}
		}
		procs = alive
		if len(procs) == 0 {
			return
		}

		select {
		case <-ctx.Done():
			for _, p := range procs {
				logger.Warn("Process %d still running after %s", p.Pid, c.ExitWait)
			}
			return
		case <-ticker.C:
		}
	}
}

// exited treats a zombie as gone: it no longer holds the application files.
func exited(ctx context.Context, p *process.Process) bool {
	running, err := p.IsRunningWithContext(ctx)
	if err != nil || !running {
		return true
	}
	status, err := p.StatusWithContext(ctx)
	if err != nil {
		return false
	}
	for _, s := range status {
		if s == process.Zombie {
			return true
		}
	}
	return false
}
