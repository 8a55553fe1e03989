package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"unify/internal/config"
	"unify/internal/logging"
	"unify/internal/unify"
)

// Store persists normalized identifiers in SQLite.
type Store struct {
	db         *sql.DB
	path       string
	normalizer *unify.Normalizer
	logger     *slog.Logger

	// storedProfile is the normalizer profile the existing rows were keyed with.
	storedProfile string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Option customizes Open.
type Option func(*openOptions)

type openOptions struct {
	logger        *slog.Logger
	ignoreProfile bool
}

// WithLogger attaches a logger for collision warnings and maintenance events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		o.logger = logger
	}
}

// IgnoreProfile lets Open succeed when the recorded normalizer profile differs
// from the requested one. Operations that derive UIDs still fail with
// ErrProfileMismatch until Clear records the new profile.
func IgnoreProfile() Option {
	return func(o *openOptions) {
		o.ignoreProfile = true
	}
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// withTx runs fn inside a transaction, retrying the whole transaction while
// SQLite reports the database as busy.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

// Open initializes or connects to the index database in the data directory.
// A nil normalizer selects the profile described by cfg.
func Open(cfg *config.Config, normalizer *unify.Normalizer, opts ...Option) (*Store, error) {
	var options openOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if normalizer == nil {
		normalizer = cfg.Normalizer()
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.IndexPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:         db,
		path:       dbPath,
		normalizer: normalizer,
		logger:     logging.NewComponentLogger(options.logger, "index"),
	}
	ctx := context.Background()
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	profile, err := store.loadProfile(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	store.storedProfile = profile
	if err := store.checkProfile(); err != nil && !options.ignoreProfile {
		_ = db.Close()
		return nil, err
	}

	store.logger.Debug("index opened",
		logging.String("path", dbPath),
		logging.String("profile", normalizer.Profile()))
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Normalizer returns the normalizer used to derive UIDs.
func (s *Store) Normalizer() *unify.Normalizer {
	return s.normalizer
}

// StoredProfile returns the normalizer profile recorded in the database.
func (s *Store) StoredProfile() string {
	return s.storedProfile
}

func (s *Store) checkProfile() error {
	want := s.normalizer.Profile()
	if s.storedProfile == "" || s.storedProfile == want {
		return nil
	}
	return fmt.Errorf("%w: index built with %q, current settings use %q (run 'unify index clear' to rebuild)",
		ErrProfileMismatch, s.storedProfile, want)
}

// QuickCheck runs SQLite's quick integrity check.
func (s *Store) QuickCheck(ctx context.Context) error {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "PRAGMA quick_check")
	if err != nil {
		return fmt.Errorf("quick_check: %w", err)
	}
	defer rows.Close()

	var problems []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return fmt.Errorf("scan quick_check: %w", err)
		}
		if line != "ok" {
			problems = append(problems, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate quick_check: %w", err)
	}
	if len(problems) > 0 {
		return fmt.Errorf("quick_check reported %d problem(s): %s", len(problems), strings.Join(problems, "; "))
	}
	return nil
}
