package index

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"

	"unify/internal/config"
)

// ErrLocked is returned when another process holds the index write lock.
var ErrLocked = errors.New("index is locked by another process")

// Lock is an exclusive advisory lock serializing index writers across processes.
type Lock struct {
	path  string
	flock *flock.Flock
}

// NewLock prepares the lock file beside the index database. It does not lock.
func NewLock(cfg *config.Config) *Lock {
	path := cfg.LockPath()
	return &Lock{path: path, flock: flock.New(path)}
}

// TryLock acquires the lock without waiting, failing with ErrLocked when it is held.
func (l *Lock) TryLock() error {
	ok, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("%w (%s)", ErrLocked, l.path)
	}
	return nil
}

// Unlock releases the lock. Unlocking an unheld lock is a no-op.
func (l *Lock) Unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}
