package unify

import (
	"sort"
	"strings"
)

// Separator bytes accepted by WithSeparator.
const (
	SeparatorHyphen     byte = '-'
	SeparatorUnderscore byte = '_'
)

// maxSegments is the number of trailing path segments (folder + asset) kept.
const maxSegments = 2

// Normalizer produces UIDs. The zero value is not usable; construct one with
// New. A Normalizer is immutable and safe for concurrent use.
type Normalizer struct {
	foldDiacritics bool
	separator      byte
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithDiacritics toggles folding of accented Latin letters (enabled by default).
func WithDiacritics(enabled bool) Option {
	return func(n *Normalizer) {
		n.foldDiacritics = enabled
	}
}

// WithSeparator selects the byte used to join tokens in the returned UID.
// Only SeparatorHyphen and SeparatorUnderscore are honoured; other values are
// ignored.
func WithSeparator(sep byte) Option {
	return func(n *Normalizer) {
		if sep == SeparatorHyphen || sep == SeparatorUnderscore {
			n.separator = sep
		}
	}
}

// New returns a Normalizer with diacritic folding enabled and hyphen
// separators, adjusted by opts.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{foldDiacritics: true, separator: SeparatorHyphen}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

var defaultNormalizer = New()

// Default returns the shared Normalizer used by the package-level Normalize.
func Default() *Normalizer {
	return defaultNormalizer
}

// Normalize converts identifier to a UID using the default Normalizer. When
// tags is non-nil, extracted tags are appended to it.
func Normalize(identifier string, tags *[]string) string {
	return defaultNormalizer.Normalize(identifier, tags)
}

// Separator reports the byte used between UID tokens.
func (n *Normalizer) Separator() byte {
	return n.separator
}

// FoldsDiacritics reports whether accented Latin letters are folded.
func (n *Normalizer) FoldsDiacritics() bool {
	return n.foldDiacritics
}

// Profile describes the options that influence the produced UIDs. Two
// normalizers with the same profile map every input to the same UID.
func (n *Normalizer) Profile() string {
	diacritics := "off"
	if n.foldDiacritics {
		diacritics = "on"
	}
	return "sep=" + string(n.separator) + ";diacritics=" + diacritics
}

// Normalize converts identifier to a UID. When tags is non-nil, extracted
// tags are appended to it in scan order; existing contents are kept.
func (n *Normalizer) Normalize(identifier string, tags *[]string) string {
	t := loadTables()

	s := identifier
	if n.foldDiacritics {
		s = foldDiacritics(t, s)
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	s = lowerASCII(s)
	s = extractTags(s, tags)

	segments := splitSegments(s)
	if len(segments) > maxSegments {
		segments = segments[len(segments)-maxSegments:]
	}

	var joined strings.Builder
	joined.Grow(len(s) + len(segments))
	for _, segment := range segments {
		if i := strings.IndexByte(segment, '.'); i >= 0 {
			segment = segment[:i]
		}
		joined.WriteByte('-')
		for i := 0; i < len(segment); i++ {
			joined.WriteByte(t.punct[segment[i]])
		}
	}

	tokens := strings.FieldsFunc(joined.String(), func(r rune) bool { return r == '-' })
	sort.Strings(tokens)

	stems := tokens[:0]
	for _, token := range tokens {
		token = strings.TrimSuffix(token, "s")
		if token == "" {
			continue
		}
		stems = append(stems, token)
	}
	return strings.Join(stems, string(n.separator))
}

func lowerASCII(s string) string {
	upper := false
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			upper = true
			break
		}
	}
	if !upper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// splitSegments splits s on runs of '/' and '\', dropping empty segments.
func splitSegments(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '\\' })
}
