package acquire

import (
	"errors"
	"fmt"
)

// ErrUpToDate is returned by Obtain when there is nothing to install.
var ErrUpToDate = errors.New("already up to date")

type Kind int

const (
	NetworkUnreachable Kind = iota + 1
	DownloadFailed
	MissingArtifact
	UnexpectedState
)

func (k Kind) String() string {
	switch k {
	case NetworkUnreachable:
		return "network unreachable"
	case DownloadFailed:
		return "download failed"
	case MissingArtifact:
		return "missing artifact"
	case UnexpectedState:
		return "unexpected state"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is an acquisition failure. Compare with the Err* sentinels via errors.Is.
type Error struct {
	Kind Kind
	Err  error
}

var (
	ErrNetworkUnreachable = &Error{Kind: NetworkUnreachable}
	ErrDownloadFailed     = &Error{Kind: DownloadFailed}
	ErrMissingArtifact    = &Error{Kind: MissingArtifact}
	ErrUnexpectedState    = &Error{Kind: UnexpectedState}
)

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
