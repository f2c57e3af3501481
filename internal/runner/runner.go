package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

type Mode int

const (
	// Capture collects combined output and kills the child at the deadline.
	Capture Mode = iota
	// LeaveRunning stops waiting at the deadline and leaves the child alive.
	// Output is discarded so the child never writes to a closed pipe.
	LeaveRunning
)

// waitDelay bounds how long Run waits for inherited pipes after the child is killed.
const waitDelay = 2 * time.Second

type CommandRunner interface {
	Run(ctx context.Context, timeout time.Duration, mode Mode,
		name string, args ...string) ([]byte, error)
}

// Starter launches a process that outlives the caller.
type Starter interface {
	Start(name string, args ...string) error
}

// ExitError reports a child that ran but exited non-zero.
type ExitError struct {
	Name string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
}

type ExecRunner struct{}

// Run executes name and waits for it. A timeout <= 0 means no deadline;
// an expired deadline wraps context.DeadlineExceeded.
func (r ExecRunner) Run(
	parent context.Context,
	timeout time.Duration,
	mode Mode,
	name string,
	args ...string,
) ([]byte, error) {
	if mode == LeaveRunning {
		return nil, r.waitFor(parent, timeout, name, args...)
	}

	ctx, cancel := parent, context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay

	out, err := cmd.CombinedOutput()
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out, deadlineError(name, timeout)
	}
	return out, classify(name, err)
}

func (ExecRunner) waitFor(ctx context.Context, timeout time.Duration, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case err := <-done:
		return classify(name, err)
	case <-expired:
		return deadlineError(name, timeout)
	case <-ctx.Done():
		return fmt.Errorf("stopped waiting for %s: %w", name, ctx.Err())
	}
}

func (ExecRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = detachedAttr()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return cmd.Process.Release()
}

func deadlineError(name string, timeout time.Duration) error {
	return fmt.Errorf("%s did not finish within %s: %w", name, timeout, context.DeadlineExceeded)
}

func classify(name string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return &ExitError{Name: name, Code: exitErr.ExitCode()}
	}
	return err
}

// CommandLine renders a command for logs.
func CommandLine(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
