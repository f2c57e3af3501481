// Package acquire produces a local installer artifact for stage1.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/MrSnakeDoc/hoist/internal/checker"
	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/MrSnakeDoc/hoist/internal/state"
)

type StateReader interface {
	Read() state.UpdateState
}

type Acquirer struct {
	store      StateReader
	resolver   checker.Resolver
	downloader Downloader
	pending    *Pending
}

func New(store StateReader, resolver checker.Resolver, downloader Downloader, pending *Pending) *Acquirer {
	return &Acquirer{
		store:      store,
		resolver:   resolver,
		downloader: downloader,
		pending:    pending,
	}
}

// Obtain returns the path of the installer to run, ErrUpToDate, or an *Error.
// The pending directory is purged of everything but the current artifact
// on every call that gets past the remote check.
func (a *Acquirer) Obtain(ctx context.Context) (string, error) {
	rec := a.store.Read()

	res, err := a.resolver.CheckRemote(ctx)
	if err != nil {
		return "", newError(NetworkUnreachable, err)
	}
	if res.IsUpToDate() {
		return "", ErrUpToDate
	}
	if res.Download == nil {
		return "", newError(NetworkUnreachable, errors.New("resolver returned no download"))
	}

	keep := ""
	if rec.State == state.ReadyToInstall && rec.Validate() == nil {
		keep = rec.DownloadedInstallerFilename
	}
	if err := a.pending.Purge(keep); err != nil {
		logger.Warn("Failed to clean pending updates: %v", err)
	}

	switch rec.State {
	case state.ReadyToDownload, state.ErrorDownloading:
		path, err := a.downloader.Download(ctx, *res.Download)
		if err != nil {
			return "", newError(DownloadFailed, err)
		}
		return path, nil

	case state.ReadyToInstall:
		if keep == "" {
			return "", newError(UnexpectedState, fmt.Errorf("record %q has no usable installer filename", rec.State))
		}
		path := a.pending.Path(keep)
		info, err := os.Stat(path)
		if err != nil {
			return "", newError(MissingArtifact, err)
		}
		if !info.Mode().IsRegular() {
			return "", newError(MissingArtifact, fmt.Errorf("%s is not a regular file", path))
		}
		return path, nil

	default:
		return "", newError(UnexpectedState, fmt.Errorf("stored state %q", rec.State))
	}
}
