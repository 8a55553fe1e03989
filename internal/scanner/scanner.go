package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"unify/internal/config"
	"unify/internal/index"
	"unify/internal/logging"
)

// Options controls which files Scan records.
type Options struct {
	// IncludeHidden indexes dot files and descends into dot directories.
	IncludeHidden bool
	// Accept filters regular files by extension (including the leading dot).
	// A nil Accept records every file.
	Accept func(ext string) bool
	// RunID tags every written entry; a fresh UUID is generated when empty.
	RunID  string
	Logger *slog.Logger
}

// Summary reports the outcome of one scan.
type Summary struct {
	RunID    string        `json:"run_id"`
	Root     string        `json:"root"`
	Visited  int           `json:"visited"`
	Indexed  int           `json:"indexed"`
	Replaced int           `json:"replaced"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// Scan walks root and adds every accepted file to store as "./<relative path>"
// using forward slashes. The caller is expected to hold the index lock.
func Scan(ctx context.Context, root string, store *index.Store, opts Options) (Summary, error) {
	if store == nil {
		return Summary{}, errors.New("scan: index store is required")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Summary{}, fmt.Errorf("scan: resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return Summary{}, fmt.Errorf("scan: %w", err)
	}
	if !info.IsDir() {
		return Summary{}, fmt.Errorf("scan: %s is not a directory", absRoot)
	}

	summary := Summary{RunID: strings.TrimSpace(opts.RunID), Root: absRoot}
	if summary.RunID == "" {
		summary.RunID = uuid.NewString()
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "scanner"))

	started := time.Now()
	logger.Info("scan started",
		logging.String("root", absRoot),
		logging.Bool("include_hidden", opts.IncludeHidden))

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			logging.WarnWithContext(logger, "skipping unreadable path", "scan_walk_error",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "files below this path are not indexed"),
				logging.String(logging.FieldErrorHint, "check directory permissions"))
			summary.Skipped++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == absRoot {
			return nil
		}

		hidden := strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if hidden && !opts.IncludeHidden {
				return fs.SkipDir
			}
			return nil
		}

		summary.Visited++
		if !d.Type().IsRegular() || (hidden && !opts.IncludeHidden) {
			summary.Skipped++
			return nil
		}
		if opts.Accept != nil && !opts.Accept(filepath.Ext(d.Name())) {
			summary.Skipped++
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		identifier := "./" + filepath.ToSlash(rel)

		entry, replaced, err := store.Add(ctx, identifier, summary.RunID)
		if err != nil {
			if errors.Is(err, index.ErrEmptyUID) {
				logger.Debug("skipping identifier without uid", logging.String("identifier", identifier))
				summary.Skipped++
				return nil
			}
			return err
		}
		summary.Indexed++
		if replaced != nil {
			summary.Replaced++
		}
		logger.Debug("indexed file",
			logging.String("uid", entry.UID.String()),
			logging.String("identifier", identifier))
		return nil
	})

	summary.Duration = time.Since(started)
	if walkErr != nil {
		if !errors.Is(walkErr, context.Canceled) {
			logging.ErrorWithContext(logger, "scan aborted", "scan_failed",
				logging.String("root", absRoot),
				logging.Int("indexed", summary.Indexed),
				logging.Error(walkErr),
				logging.String(logging.FieldErrorHint, "fix the error and rerun the scan; entries already indexed are kept"))
		}
		return summary, fmt.Errorf("scan %s: %w", absRoot, walkErr)
	}

	logger.Info("scan finished",
		logging.Int("visited", summary.Visited),
		logging.Int("indexed", summary.Indexed),
		logging.Int("replaced", summary.Replaced),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", summary.Duration))
	return summary, nil
}

// OptionsFromConfig builds scan options from the [scan] configuration section.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		IncludeHidden: cfg.Scan.IncludeHidden,
		Accept:        cfg.WantsExtension,
		Logger:        logger,
	}
}
