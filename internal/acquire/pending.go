package acquire

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/hashicorp/go-multierror"
)

const partSuffix = ".part"

// Pending is the directory holding downloaded installers awaiting stage2.
type Pending struct {
	dir string
}

func NewPending(dir string) *Pending {
	return &Pending{dir: dir}
}

func (p *Pending) Dir() string { return p.dir }

func (p *Pending) Path(name string) string {
	return filepath.Join(p.dir, name)
}

func (p *Pending) Ensure() error {
	if err := os.MkdirAll(p.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create pending directory: %w", err)
	}
	return nil
}

// Purge removes every file but keep. Partial downloads go even when they match keep.
func (p *Pending) Purge(keep string) error {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to list pending directory: %w", err)
	}

	var result *multierror.Error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if name == keep && !strings.HasSuffix(name, partSuffix) {
			continue
		}
		if err := os.Remove(p.Path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			result = multierror.Append(result, fmt.Errorf("remove %s: %w", name, err))
			continue
		}
		logger.Debug("Removed stale artifact %s", name)
	}
	return result.ErrorOrNil()
}

// SafeFilename reduces a server-suggested name to a base name usable inside the pending directory.
func SafeFilename(suggested string) (string, error) {
	name := filepath.Base(filepath.FromSlash(strings.ReplaceAll(suggested, `\`, "/")))
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return "", fmt.Errorf("unusable installer filename %q", suggested)
	}
	return name, nil
}
