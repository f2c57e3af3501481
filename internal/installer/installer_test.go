package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/MrSnakeDoc/hoist/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var silent = []string{"/passive", "/norestart"}

func artifact(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func TestInstall_ExecutableExitCodes(t *testing.T) {
	logger.UseTestMode()

	tests := []struct {
		name string
		code int
		ok   bool
	}{
		{"success", 0, true},
		{"failure", 17, false},
		{"reboot required is still failure", 3010, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := artifact(t, "update.exe", "")
			mock := runner.NewMockRunner()
			mock.AddExitCode(tt.code, path, silent...)

			err := New(mock, time.Minute, silent).Install(context.Background(), path)

			last, _ := mock.Last()
			assert.Equal(t, time.Minute, last.Timeout)
			assert.Equal(t, runner.LeaveRunning, last.Mode)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, tt.code, exitErr.Code)
			assert.False(t, exitErr.TimedOut)
		})
	}
}

func TestInstall_PackageFormats(t *testing.T) {
	logger.UseTestMode()

	tests := []struct {
		file string
		tool string
		args func(p string) []string
	}{
		{"update.msi", "msiexec", func(p string) []string { return []string{"/i", p, "/passive", "/norestart"} }},
		{"UPDATE.MSI", "msiexec", func(p string) []string { return []string{"/i", p, "/passive", "/norestart"} }},
		{"hoist.deb", "dpkg", func(p string) []string { return []string{"-i", p} }},
		{"hoist.rpm", "rpm", func(p string) []string { return []string{"-U", p} }},
		{"Hoist.pkg", "installer", func(p string) []string { return []string{"-pkg", p, "-target", "/"} }},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := artifact(t, tt.file, "")
			mock := runner.NewMockRunner()

			require.NoError(t, New(mock, time.Minute, silent).Install(context.Background(), path))
			assert.True(t, mock.VerifyCommand(tt.tool, tt.args(path)...))

			last, _ := mock.Last()
			assert.Zero(t, last.Timeout, "package installs are not time-bounded")
			assert.Equal(t, runner.Capture, last.Mode)
		})
	}
}

func TestInstall_PackageToolFailure(t *testing.T) {
	logger.UseTestMode()
	path := artifact(t, "update.msi", "")
	mock := runner.NewMockRunner()
	mock.AddExitCode(1603, "msiexec", "/i", path, "/passive", "/norestart")

	err := New(mock, time.Minute, silent).Install(context.Background(), path)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1603, exitErr.Code)
}

func TestInstall_RejectsBadPaths(t *testing.T) {
	logger.UseTestMode()
	mock := runner.NewMockRunner()
	d := New(mock, time.Minute, silent)

	for _, p := range []string{"", "relative/update.exe", filepath.Join(t.TempDir(), "missing.exe"), t.TempDir()} {
		err := d.Install(context.Background(), p)
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr), p)
		assert.Equal(t, -1, exitErr.Code)
	}
	assert.Empty(t, mock.Commands)
}

func TestInstall_RealChild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	logger.UseTestMode()

	t.Run("exit 0", func(t *testing.T) {
		path := artifact(t, "update.exe", "#!/bin/sh\nexit 0\n")
		require.NoError(t, New(runner.ExecRunner{}, 5*time.Second, silent).Install(context.Background(), path))
	})

	t.Run("exit 17", func(t *testing.T) {
		path := artifact(t, "update.exe", "#!/bin/sh\nexit 17\n")
		err := New(runner.ExecRunner{}, 5*time.Second, silent).Install(context.Background(), path)
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 17, exitErr.Code)
	})

	t.Run("never exits", func(t *testing.T) {
		path := artifact(t, "update.exe", "#!/bin/sh\nexec sleep 3\n")
		timeout := 300 * time.Millisecond

		start := time.Now()
		err := New(runner.ExecRunner{}, timeout, silent).Install(context.Background(), path)
		elapsed := time.Since(start)

		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.True(t, exitErr.TimedOut)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.GreaterOrEqual(t, elapsed, timeout)
		assert.Less(t, elapsed, 10*time.Second)
	})
	t.Run("outlives timeout and keeps running", func(t *testing.T) {
		marker := filepath.Join(t.TempDir(), "finished")
		path := artifact(t, "update.exe", "#!/bin/sh\nsleep 1\ntouch "+marker+"\n")

		err := New(runner.ExecRunner{}, 300*time.Millisecond, silent).Install(context.Background(), path)

		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.True(t, exitErr.TimedOut)
		assert.NoFileExists(t, marker)

		assert.Eventually(t, func() bool {
			_, err := os.Stat(marker)
			return err == nil
		}, 5*time.Second, 50*time.Millisecond, "installer should finish after hoist stops waiting")
	})
}
