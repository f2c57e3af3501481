//go:build !windows

package elevate

import (
	"errors"
	"testing"

	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/MrSnakeDoc/hoist/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLauncher(command string, euid int) (*CommandLauncher, *runner.MockRunner) {
	logger.UseTestMode()
	mock := runner.NewMockRunner()
	return &CommandLauncher{Command: command, Starter: mock, euid: func() int { return euid }}, mock
}

func TestLaunch_PrefixesHelper(t *testing.T) {
	l, mock := newTestLauncher("pkexec", 1000)

	require.NoError(t, l.Launch("/tmp/hoist.update", []string{"stage2", "/p/update.deb"}))

	last, ok := mock.Last()
	require.True(t, ok)
	assert.True(t, last.Detached)
	assert.Equal(t, "pkexec", last.Name)
	assert.Equal(t, []string{"/tmp/hoist.update", "stage2", "/p/update.deb"}, last.Args)
}

func TestLaunch_AlreadyRoot(t *testing.T) {
	l, mock := newTestLauncher("pkexec", 0)

	require.NoError(t, l.Launch("/tmp/hoist.update", []string{"stage2", "/p/update.deb"}))
	assert.True(t, mock.VerifyCommand("/tmp/hoist.update", "stage2", "/p/update.deb"))
}

func TestLaunch_StartFailure(t *testing.T) {
	l, mock := newTestLauncher("pkexec", 1000)
	mock.StartErr = errors.New("exec: \"pkexec\": executable file not found in $PATH")

	err := l.Launch("/tmp/hoist.update", []string{"stage2", "/p/update.deb"})
	require.Error(t, err)
	assert.ErrorIs(t, err, mock.StartErr)
}
