// Package lock provides the advisory file lock that serializes commands
// writing project files.
package lock

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName is the lock file created in the project directory.
const FileName = ".notecheck.lock"

// ErrAlreadyLocked is returned when another notecheck process holds the lock.
var ErrAlreadyLocked = errors.New("another notecheck command is already writing to this project")

// Flocker abstracts the subset of flock.Flock used for advisory locking.
type Flocker interface {
	TryLock() (bool, error)
	Unlock() error
}

// Lock wraps a Flocker to provide fail-fast advisory locking.
type Lock struct {
	flocker Flocker
}

// New creates a Lock from the given Flocker.
func New(f Flocker) *Lock {
	return &Lock{flocker: f}
}

// ForProject creates a Lock backed by FileName in dir.
func ForProject(dir string) *Lock {
	return New(flock.New(filepath.Join(dir, FileName)))
}

// TryLock attempts a non-blocking lock acquisition. It returns
// ErrAlreadyLocked if the lock is held elsewhere.
func (l *Lock) TryLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ok, err := l.flocker.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	if !ok {
		return ErrAlreadyLocked
	}
	return nil
}

// Unlock releases the advisory lock.
func (l *Lock) Unlock() error {
	if err := l.flocker.Unlock(); err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}

// Do runs fn while holding the lock. Errors from fn and from releasing the
// lock are both reported.
func (l *Lock) Do(ctx context.Context, fn func() error) (err error) {
	if err := l.TryLock(ctx); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, l.Unlock())
	}()
	return fn()
}
