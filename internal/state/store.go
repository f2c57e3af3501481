package state

import (
	"fmt"

	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/MrSnakeDoc/hoist/internal/utils"
)

const FileName = "update_state.json"

// Store reads and replaces the record at a fixed path. Writes are whole-file
// replacements, so the last writer wins and no reader sees a torn record.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Read never fails: a missing, empty or undecodable file yields Default().
func (s *Store) Read() UpdateState {
	if ok, err := utils.FileExists(s.path); err != nil || !ok {
		if err != nil {
			logger.Debug("update state not readable, using default: %v", err)
		}
		return Default()
	}

	var st UpdateState
	if err := utils.FileReader(s.path, utils.FileTypeJSON, &st); err != nil {
		logger.Debug("update state corrupt, using default: %v", err)
		return Default()
	}
	if st.State == "" {
		logger.Debug("update state %s has no state field, using default", s.path)
		return Default()
	}
	return st
}

// Store persists mutate(blank record). A record that breaks the invariant is
// rejected and nothing is written.
func (s *Store) Store(mutate Mutator) error {
	next := mutate(UpdateState{})
	if err := next.Validate(); err != nil {
		return err
	}

	if err := utils.WriteJSONAtomic(s.path, next); err != nil {
		return fmt.Errorf("failed to write update state %s: %w", s.path, err)
	}
	logger.Debug("update state stored: %s", next.State)
	return nil
}
