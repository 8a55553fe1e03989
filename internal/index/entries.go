package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"unify/internal/logging"
	"unify/internal/unify"
)

// ErrEmptyUID is returned when an identifier normalizes to the empty UID.
var ErrEmptyUID = errors.New("identifier normalizes to an empty uid")

// Entry is one indexed identifier.
type Entry struct {
	UID      unify.UID `json:"uid"`
	Original string    `json:"original"`
	Tags     []string  `json:"tags,omitempty"`
	RunID    string    `json:"run_id,omitempty"`
	AddedAt  time.Time `json:"added_at"`
}

// ListOptions filters List results.
type ListOptions struct {
	// Tag keeps entries carrying this tag. The leading '#' is optional.
	Tag string
	// Limit caps the number of returned entries when positive.
	Limit int
}

const entrySelect = `SELECT e.uid, e.original, e.run_id, e.added_at, t.tag
FROM entries e
LEFT JOIN entry_tags t ON t.uid = e.uid`

// Add stores original under its UID. When the UID already pointed at a
// different original, that entry is replaced and returned as the second value.
func (s *Store) Add(ctx context.Context, original, runID string) (Entry, *Entry, error) {
	ctx = ensureContext(ctx)
	if err := s.checkProfile(); err != nil {
		return Entry{}, nil, err
	}

	var tags []string
	uid := unify.UID(s.normalizer.Normalize(original, &tags))
	if uid.IsZero() {
		return Entry{}, nil, fmt.Errorf("add %q: %w", original, ErrEmptyUID)
	}

	entry := Entry{
		UID:      uid,
		Original: original,
		Tags:     tags,
		RunID:    runID,
		AddedAt:  time.Now().UTC(),
	}

	var replaced *Entry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		replaced = nil
		prev, err := queryEntry(ctx, tx, uid)
		if err != nil {
			return err
		}
		if prev != nil && prev.Original != original {
			replaced = prev
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entries (uid, original, run_id, added_at) VALUES (?, ?, ?, ?)
             ON CONFLICT(uid) DO UPDATE SET
                original = excluded.original,
                run_id = excluded.run_id,
                added_at = excluded.added_at`,
			uid.String(),
			original,
			nullableString(runID),
			entry.AddedAt.Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("upsert entry: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM entry_tags WHERE uid = ?", uid.String()); err != nil {
			return fmt.Errorf("reset entry tags: %w", err)
		}
		for position, tag := range tags {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO entry_tags (uid, position, tag) VALUES (?, ?, ?)",
				uid.String(), position, tag,
			); err != nil {
				return fmt.Errorf("insert entry tag: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Entry{}, nil, fmt.Errorf("add %q: %w", original, err)
	}

	if replaced != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "uid collision; replacing index entry", "index_uid_collision",
			logging.String("uid", uid.String()),
			logging.String("previous", replaced.Original),
			logging.String("original", original),
			logging.String(logging.FieldImpact, "lookups now resolve to the newer identifier"),
			logging.String(logging.FieldErrorHint, "rename one of the assets so their UIDs differ"))
	}
	return entry, replaced, nil
}

// Lookup normalizes key and returns the matching entry, or nil when absent.
func (s *Store) Lookup(ctx context.Context, key string) (*Entry, error) {
	if err := s.checkProfile(); err != nil {
		return nil, err
	}
	uid := unify.UID(s.normalizer.Normalize(key, nil))
	if uid.IsZero() {
		return nil, nil
	}
	entry, err := queryEntry(ensureContext(ctx), s.db, uid)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", key, err)
	}
	return entry, nil
}

// List returns entries ordered by UID.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	ctx = ensureContext(ctx)

	query := entrySelect
	var args []any
	if tag := normalizeTag(opts.Tag); tag != "" {
		query += "\nWHERE e.uid IN (SELECT uid FROM entry_tags WHERE tag = ?)"
		args = append(args, tag)
	}
	query += "\nORDER BY e.uid, t.position"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Remove deletes the entry matching key and reports whether one existed.
func (s *Store) Remove(ctx context.Context, key string) (bool, error) {
	ctx = ensureContext(ctx)
	if err := s.checkProfile(); err != nil {
		return false, err
	}
	uid := unify.UID(s.normalizer.Normalize(key, nil))
	if uid.IsZero() {
		return false, nil
	}

	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM entry_tags WHERE uid = ?", uid.String()); err != nil {
			return fmt.Errorf("delete entry tags: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE uid = ?", uid.String())
		if err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("remove %q: %w", key, err)
	}
	return affected > 0, nil
}

// Clear deletes every entry and records the current normalizer profile. It
// returns the number of removed entries.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	profile := s.normalizer.Profile()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM entry_tags"); err != nil {
			return fmt.Errorf("clear entry tags: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM entries")
		if err != nil {
			return fmt.Errorf("clear entries: %w", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return err
		}
		return writeProfile(ctx, tx, profile)
	})
	if err != nil {
		return 0, err
	}
	if s.storedProfile != profile {
		s.logger.Info("index profile reset",
			logging.String("previous", s.storedProfile),
			logging.String("profile", profile))
	}
	s.storedProfile = profile
	return removed, nil
}

// Count returns the number of indexed entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM entries").Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryEntry(ctx context.Context, q queryer, uid unify.UID) (*Entry, error) {
	rows, err := q.QueryContext(ctx, entrySelect+"\nWHERE e.uid = ?\nORDER BY t.position", uid.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries, err := scanEntries(rows, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// scanEntries folds joined entry/tag rows, which must be grouped by uid.
func scanEntries(rows *sql.Rows, limit int) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			uid      string
			original string
			runID    sql.NullString
			addedRaw string
			tag      sql.NullString
		)
		if err := rows.Scan(&uid, &original, &runID, &addedRaw, &tag); err != nil {
			return nil, err
		}

		if n := len(entries); n == 0 || entries[n-1].UID != unify.UID(uid) {
			if limit > 0 && n == limit {
				break
			}
			entry := Entry{UID: unify.UID(uid), Original: original, RunID: runID.String}
			if added, err := parseTimeString(addedRaw); err == nil {
				entry.AddedAt = added
			}
			entries = append(entries, entry)
		}
		if tag.Valid {
			last := &entries[len(entries)-1]
			last.Tags = append(last.Tags, tag.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func normalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" || tag == "#" {
		return ""
	}
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return tag
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
