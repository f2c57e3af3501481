// Package window asks the running desktop application to exit before its
// files are replaced.
package window

import "context"

// Closer reports whether a running instance was found. A missing instance
// is not an error.
type Closer interface {
	Close(ctx context.Context) (bool, error)
}
