package catalog

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"unify/internal/logging"
	"unify/internal/unify"
)

// Entry is one stored identifier.
type Entry struct {
	UID      unify.UID `json:"uid"`
	Original string    `json:"original"`
	Tags     []string  `json:"tags,omitempty"`
}

// Catalog maps UIDs back to the identifiers they were derived from. It is safe
// for concurrent use.
type Catalog struct {
	normalizer *unify.Normalizer
	logger     *slog.Logger

	mu       sync.RWMutex
	entries  map[unify.UID]Entry
	replaced int
}

// New creates an empty catalog. A nil normalizer selects unify.Default and a
// nil logger discards output.
func New(normalizer *unify.Normalizer, logger *slog.Logger) *Catalog {
	if normalizer == nil {
		normalizer = unify.Default()
	}
	return &Catalog{
		normalizer: normalizer,
		logger:     logging.NewComponentLogger(logger, "catalog"),
		entries:    make(map[unify.UID]Entry),
	}
}

// Add stores originalID under its UID and returns that UID. A later Add that
// produces the same UID replaces the earlier original.
func (c *Catalog) Add(originalID string) unify.UID {
	var tags []string
	uid := unify.UID(c.normalizer.Normalize(originalID, &tags))

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.entries[uid]; ok && prev.Original != originalID {
		c.replaced++
		logging.WarnWithContext(c.logger, "uid collision; replacing catalog entry", "catalog_uid_collision",
			logging.String("uid", uid.String()),
			logging.String("previous", prev.Original),
			logging.String("original", originalID),
			logging.String(logging.FieldImpact, "lookups now resolve to the newer identifier"),
			logging.String(logging.FieldErrorHint, "rename one of the assets so their UIDs differ"))
	}
	c.entries[uid] = Entry{UID: uid, Original: originalID, Tags: tags}
	return uid
}

// Lookup normalizes key and returns the stored original identifier. The
// returned string is empty when nothing matches.
func (c *Catalog) Lookup(key string) (string, bool) {
	entry, ok := c.Get(key)
	return entry.Original, ok
}

// Get is Lookup returning the whole entry.
func (c *Catalog) Get(key string) (Entry, bool) {
	uid := unify.UID(c.normalizer.Normalize(key, nil))

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[uid]
	if !ok {
		return Entry{}, false
	}
	entry.Tags = append([]string(nil), entry.Tags...)
	return entry, true
}

// Tags returns the tags recorded for the entry matching key.
func (c *Catalog) Tags(key string) []string {
	entry, _ := c.Get(key)
	return entry.Tags
}

// Remove deletes the entry matching key and reports whether one existed.
func (c *Catalog) Remove(key string) bool {
	uid := unify.UID(c.normalizer.Normalize(key, nil))

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[uid]; !ok {
		return false
	}
	delete(c.entries, uid)
	return true
}

// Len returns the number of stored entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Replaced returns how many Add calls overwrote a different original.
func (c *Catalog) Replaced() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.replaced
}

// Entries returns a snapshot of all entries sorted by UID.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entry.Tags = append([]string(nil), entry.Tags...)
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UID < entries[j].UID
	})
	return entries
}

// Load adds every non-blank line of r as one identifier. Only a trailing
// carriage return is stripped; surrounding spaces stay part of the original.
// It returns the number of identifiers added.
func (c *Catalog) Load(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	added := 0
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.Add(line)
		added++
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("read manifest: %w", err)
	}

	c.logger.Debug("loaded manifest",
		logging.Int("entry_count", added),
		logging.Int("catalog_size", c.Len()))
	return added, nil
}
