package transfer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	dayLayout    = "2006-01-02"
	suffixLayout = "20060102150405"
)

// DatedPath places name under a per-day partition of root.
func DatedPath(root string, day time.Time, name string) string {
	return filepath.Join(root, day.Format(dayLayout), name)
}

// ResolveCollision returns path when nothing exists there, otherwise path with a
// _<YYYYMMDDHHMMSS> suffix taken from now, plus a counter if that is taken too.
func ResolveCollision(fsys afero.Fs, path string, now time.Time) (string, error) {
	taken, err := afero.Exists(fsys, path)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", path, err)
	}
	if !taken {
		return path, nil
	}

	stamp := now.Format(suffixLayout)
	candidate := fmt.Sprintf("%s_%s", path, stamp)
	for n := 1; ; n++ {
		taken, err := afero.Exists(fsys, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%s_%d", path, stamp, n)
	}
}
