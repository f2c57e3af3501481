package acquire

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/MrSnakeDoc/hoist/internal/checker"
	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/MrSnakeDoc/hoist/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	res   checker.Result
	err   error
	calls int
}

func (f *fakeResolver) CheckRemote(context.Context) (checker.Result, error) {
	f.calls++
	return f.res, f.err
}

type fakeDownloader struct {
	pending *Pending
	err     error
	calls   int
}

func (f *fakeDownloader) Download(_ context.Context, info checker.DownloadInfo) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if err := f.pending.Ensure(); err != nil {
		return "", err
	}
	path := f.pending.Path(info.SuggestedFilename)
	return path, os.WriteFile(path, []byte("payload"), 0o644)
}

type fixture struct {
	store      *state.Store
	pending    *Pending
	resolver   *fakeResolver
	downloader *fakeDownloader
	acquirer   *Acquirer
}

var available = checker.DownloadResult(checker.DownloadInfo{
	DownloadURL:       "https://dl.invalid/update.exe",
	SuggestedFilename: "update.exe",
})

func newFixture(t *testing.T, res checker.Result, resErr error) *fixture {
	t.Helper()
	logger.UseTestMode()

	dir := t.TempDir()
	f := &fixture{
		store:    state.New(filepath.Join(dir, state.FileName)),
		pending:  NewPending(filepath.Join(dir, "pending")),
		resolver: &fakeResolver{res: res, err: resErr},
	}
	f.downloader = &fakeDownloader{pending: f.pending}
	f.acquirer = New(f.store, f.resolver, f.downloader, f.pending)
	return f
}

func (f *fixture) seed(t *testing.T, names ...string) {
	t.Helper()
	require.NoError(t, f.pending.Ensure())
	for _, n := range names {
		require.NoError(t, os.WriteFile(f.pending.Path(n), []byte(n), 0o644))
	}
}

func (f *fixture) writeRaw(t *testing.T, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(f.store.Path(), []byte(body), 0o644))
}

func (f *fixture) listing(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.pending.Dir())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestObtain_UpToDate(t *testing.T) {
	f := newFixture(t, checker.UpToDateResult(), nil)
	f.seed(t, "old.exe")

	_, err := f.acquirer.Obtain(context.Background())
	require.ErrorIs(t, err, ErrUpToDate)

	var acqErr *Error
	assert.False(t, errors.As(err, &acqErr))
	assert.Zero(t, f.downloader.calls)
	assert.NoFileExists(t, f.store.Path())
}

func TestObtain_NetworkUnreachable(t *testing.T) {
	cause := &checker.NetworkError{URL: "https://x.invalid", Err: errors.New("dial tcp: refused")}
	f := newFixture(t, checker.Result{}, cause)

	_, err := f.acquirer.Obtain(context.Background())
	require.ErrorIs(t, err, ErrNetworkUnreachable)

	var netErr *checker.NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.Zero(t, f.downloader.calls)
}

func TestObtain_DownloadsFromFreshState(t *testing.T) {
	f := newFixture(t, available, nil)

	path, err := f.acquirer.Obtain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.pending.Path("update.exe"), path)
	assert.Equal(t, 1, f.downloader.calls)
}

func TestObtain_RetriesAfterErrorDownloading(t *testing.T) {
	f := newFixture(t, available, nil)
	require.NoError(t, f.store.Store(state.ErrorDownloadingAt(time.Now())))

	_, err := f.acquirer.Obtain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.downloader.calls)
}

func TestObtain_DownloadFailed(t *testing.T) {
	f := newFixture(t, available, nil)
	f.downloader.err = errors.New("connection reset")

	_, err := f.acquirer.Obtain(context.Background())
	require.ErrorIs(t, err, ErrDownloadFailed)
	assert.NotErrorIs(t, err, ErrMissingArtifact)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestObtain_ReusesReadyArtifact(t *testing.T) {
	f := newFixture(t, available, nil)
	f.seed(t, "update.msi")
	require.NoError(t, f.store.Store(state.ReadyToInstallAt("update.msi", time.Now())))

	path, err := f.acquirer.Obtain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.pending.Path("update.msi"), path)
	assert.Zero(t, f.downloader.calls)
}

func TestObtain_MissingArtifact(t *testing.T) {
	f := newFixture(t, available, nil)
	require.NoError(t, f.store.Store(state.ReadyToInstallAt("update.msi", time.Now())))

	_, err := f.acquirer.Obtain(context.Background())
	require.ErrorIs(t, err, ErrMissingArtifact)
	assert.Zero(t, f.downloader.calls)
}

func TestObtain_UnexpectedState(t *testing.T) {
	tests := map[string]string{
		"unknown state":            `{"state":"installing"}`,
		"ready without filename":   `{"state":"readyToInstall"}`,
		"ready with path filename": `{"state":"readyToInstall","downloaded_installer_filename":"../x.exe"}`,
		"up to date but filename":  `{"state":"upToDate","downloaded_installer_filename":"x.exe"}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, available, nil)
			f.writeRaw(t, raw)

			_, err := f.acquirer.Obtain(context.Background())
			require.ErrorIs(t, err, ErrUnexpectedState)
			assert.Zero(t, f.downloader.calls)
		})
	}
}

func TestObtain_PurgesOrphans(t *testing.T) {
	t.Run("download path", func(t *testing.T) {
		f := newFixture(t, available, nil)
		f.seed(t, "stale-1.exe", "stale-2.msi", "update.exe.part")

		_, err := f.acquirer.Obtain(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"update.exe"}, f.listing(t))
	})

	t.Run("ready artifact kept", func(t *testing.T) {
		f := newFixture(t, available, nil)
		f.seed(t, "update.msi", "older.msi", "update.msi.part")
		require.NoError(t, f.store.Store(state.ReadyToInstallAt("update.msi", time.Now())))

		_, err := f.acquirer.Obtain(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"update.msi"}, f.listing(t))
	})

	t.Run("failed download leaves nothing", func(t *testing.T) {
		f := newFixture(t, available, nil)
		f.seed(t, "stale.exe")
		f.downloader.err = errors.New("boom")

		_, err := f.acquirer.Obtain(context.Background())
		require.Error(t, err)
		assert.Empty(t, f.listing(t))
	})

	t.Run("missing artifact leaves nothing", func(t *testing.T) {
		f := newFixture(t, available, nil)
		f.seed(t, "other.exe")
		require.NoError(t, f.store.Store(state.ReadyToInstallAt("update.msi", time.Now())))

		_, err := f.acquirer.Obtain(context.Background())
		require.ErrorIs(t, err, ErrMissingArtifact)
		assert.Empty(t, f.listing(t))
	})
}

func TestPurge_MissingDirIsFine(t *testing.T) {
	p := NewPending(filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, p.Purge(""))
}

func TestSafeFilename(t *testing.T) {
	ok := map[string]string{
		"update.exe":             "update.exe",
		"dir/update.exe":         "update.exe",
		`C:\temp\HoistSetup.msi`: "HoistSetup.msi",
	}
	for in, want := range ok {
		got, err := SafeFilename(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", ".", "..", "/"} {
		_, err := SafeFilename(bad)
		assert.Error(t, err, bad)
	}
}

func TestErrorKinds(t *testing.T) {
	err := newError(MissingArtifact, os.ErrNotExist)
	assert.ErrorIs(t, err, ErrMissingArtifact)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrDownloadFailed)
	assert.Equal(t, "missing artifact", MissingArtifact.String())
}
