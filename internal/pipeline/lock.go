package pipeline

import (
	"path/filepath"

	"github.com/gofrs/flock"

	pipeerr "github.com/VeryOriginalIK/BibleFetch/internal/errors"
)

// lockFile is the advisory lock serializing generation runs over one
// output tree. Writers assume exclusive ownership of the tree; two
// concurrent runs would interleave partial output.
const lockFile = ".biblefetch.lock"

type runLock struct {
	fl *flock.Flock
}

func newRunLock(dir string) *runLock {
	return &runLock{fl: flock.New(filepath.Join(dir, lockFile))}
}

// acquire takes the lock without blocking. A held lock means another run
// is in progress, which aborts this one rather than queuing behind it.
func (l *runLock) acquire() error {
	ok, err := l.fl.TryLock()
	if err != nil {
		return pipeerr.Wrap(pipeerr.ErrCodeLockHeld, err).WithDetail("path", l.fl.Path())
	}
	if !ok {
		return pipeerr.Newf(pipeerr.ErrCodeLockHeld,
			"another generation run holds %s", l.fl.Path())
	}
	return nil
}

func (l *runLock) release() {
	_ = l.fl.Unlock()
}
