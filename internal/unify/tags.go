package unify

import "strings"

const tagMarker = '#'

func isTagByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '=':
		return true
	}
	return false
}

// extractTags removes every "#tag" run from s and returns the remainder. The
// scan reads s with one cursor while a second cursor walks each tag body; the
// output is written to a separate buffer. A tag ends at the first byte outside
// [a-z0-9-_=] or at end of input; the terminator is kept in the output. Tags
// are appended to dst (marker included) when dst is non-nil; a bare marker
// with no body is dropped without being recorded.
func extractTags(s string, dst *[]string) string {
	first := strings.IndexByte(s, tagMarker)
	if first < 0 {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))
	out.WriteString(s[:first])

	for i := first; i < len(s); {
		if s[i] != tagMarker {
			out.WriteByte(s[i])
			i++
			continue
		}
		end := i + 1
		for end < len(s) && isTagByte(s[end]) {
			end++
		}
		if dst != nil && end > i+1 {
			*dst = append(*dst, s[i:end])
		}
		i = end
	}
	return out.String()
}
