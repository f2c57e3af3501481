// Package state persists the update progress record shared by both stages.
package state

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// Status is the persisted update state. Unknown values are kept as read so
// callers can report them instead of silently resetting.
type Status string

const (
	UpToDate         Status = "upToDate"
	ReadyToDownload  Status = "readyToDownload"
	ReadyToInstall   Status = "readyToInstall"
	ErrorDownloading Status = "errorDownloading"
)

func (s Status) String() string {
	return string(s)
}

// Known reports whether s is one of the defined states.
func (s Status) Known() bool {
	switch s {
	case UpToDate, ReadyToDownload, ReadyToInstall, ErrorDownloading:
		return true
	}
	return false
}

var ErrInvariant = errors.New("update state invariant violated")

// UpdateState is the whole persisted record. It is always written as a unit.
type UpdateState struct {
	State                       Status     `json:"state" yaml:"state"`
	LastChecked                 *time.Time `json:"last_checked,omitempty" yaml:"last_checked,omitempty"`
	DownloadedInstallerFilename string     `json:"downloaded_installer_filename,omitempty" yaml:"downloaded_installer_filename,omitempty"`
}

// Default is the record assumed on first run or when the file is unreadable.
func Default() UpdateState {
	return UpdateState{State: ReadyToDownload}
}

// Validate checks that the installer filename is set exactly when the state
// is readyToInstall, and that it names a file directly inside the pending dir.
func (s UpdateState) Validate() error {
	if !s.State.Known() {
		return fmt.Errorf("%w: unknown state %q", ErrInvariant, s.State)
	}
	hasFile := s.DownloadedInstallerFilename != ""
	if hasFile != (s.State == ReadyToInstall) {
		return fmt.Errorf("%w: state %s with installer filename %q", ErrInvariant, s.State, s.DownloadedInstallerFilename)
	}
	if hasFile {
		name := s.DownloadedInstallerFilename
		if name != filepath.Base(name) || name == "." || name == ".." {
			return fmt.Errorf("%w: installer filename %q is not a bare file name", ErrInvariant, name)
		}
	}
	return nil
}

// Mutator builds the record to persist. It always receives a blank record.
type Mutator func(UpdateState) UpdateState

func UpToDateAt(now time.Time) Mutator {
	return func(s UpdateState) UpdateState {
		s.State = UpToDate
		s.LastChecked = stamp(now)
		return s
	}
}

func ErrorDownloadingAt(now time.Time) Mutator {
	return func(s UpdateState) UpdateState {
		s.State = ErrorDownloading
		s.LastChecked = stamp(now)
		return s
	}
}

func ReadyToInstallAt(filename string, now time.Time) Mutator {
	return func(s UpdateState) UpdateState {
		s.State = ReadyToInstall
		s.DownloadedInstallerFilename = filename
		s.LastChecked = stamp(now)
		return s
	}
}

func stamp(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}
