package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"unify/internal/config"
	"unify/internal/index"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckIndex opens the index, runs SQLite's quick_check, and confirms the
// recorded normalizer profile matches the configured one.
func CheckIndex(ctx context.Context, cfg *config.Config) Result {
	const name = "Index database"

	store, err := index.Open(cfg, nil, index.IgnoreProfile())
	if err != nil {
		if errors.Is(err, index.ErrSchemaMismatch) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: schema mismatch, delete the file to rebuild)", cfg.IndexPath())}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.IndexPath(), err)}
	}
	defer store.Close()

	if err := store.QuickCheck(ctx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", store.Path(), err)}
	}

	want := store.Normalizer().Profile()
	if stored := store.StoredProfile(); stored != "" && stored != want {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: built with %s, config uses %s; run 'unify index clear')", store.Path(), stored, want)}
	}

	count, err := store.Count(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", store.Path(), err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entries, %s)", store.Path(), count, want)}
}

// CheckLock reports whether the index write lock is free.
func CheckLock(cfg *config.Config) Result {
	const name = "Index lock"

	lock := index.NewLock(cfg)
	if err := lock.TryLock(); err != nil {
		if errors.Is(err, index.ErrLocked) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (held by another process)", lock.Path())}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", lock.Path(), err)}
	}
	_ = lock.Unlock()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (free)", lock.Path())}
}
