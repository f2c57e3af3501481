package update

import (
	"errors"
	"fmt"
)

// Outcome is the terminal result of one stage invocation.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeUpToDate
	OutcomeRelaunched
	OutcomeInstalled
	OutcomeDownloaded
)

var ErrStageFailed = errors.New("update stage failed")

func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeUpToDate:
		return "up to date"
	case OutcomeRelaunched:
		return "relaunched elevated"
	case OutcomeInstalled:
		return "installed"
	case OutcomeDownloaded:
		return "downloaded"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Err is non-nil only for OutcomeFailed. By then the state has been persisted
// and the cause logged.
func (o Outcome) Err() error {
	if o == OutcomeFailed {
		return ErrStageFailed
	}
	return nil
}

// RelaunchError is a failure between acquisition and the elevated stage2 start.
type RelaunchError struct {
	Op  string
	Err error
}

func (e *RelaunchError) Error() string {
	return fmt.Sprintf("relaunch failed during %s: %v", e.Op, e.Err)
}

func (e *RelaunchError) Unwrap() error { return e.Err }
