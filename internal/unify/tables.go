package unify

import (
	"sync"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// tables holds the process-wide substitution maps. Every [256]byte table is
// total: bytes without an explicit entry map to themselves.
type tables struct {
	punct  [256]byte
	latin1 [256]byte
	runes  map[rune]byte
}

// punctuation lists the bytes that separate tokens inside a segment.
const punctuation = " \t\r\n\v\f_,|;:()[]"

// accents maps accented Latin letters to their unaccented ASCII base letter.
var accents = map[rune]byte{
	'ä': 'a', 'Ä': 'A',
	'â': 'a', 'Â': 'A',
	'á': 'a', 'Á': 'A',
	'à': 'a', 'À': 'A',
	'ã': 'a', 'Ã': 'A',
	'ë': 'e', 'Ë': 'E',
	'ê': 'e', 'Ê': 'E',
	'é': 'e', 'É': 'E',
	'è': 'e', 'È': 'E',
	'ï': 'i', 'Ï': 'I',
	'î': 'i', 'Î': 'I',
	'í': 'i', 'Í': 'I',
	'ì': 'i', 'Ì': 'I',
	'ö': 'o', 'Ö': 'O',
	'ô': 'o', 'Ô': 'O',
	'ó': 'o', 'Ó': 'O',
	'ò': 'o', 'Ò': 'O',
	'õ': 'o', 'Õ': 'O',
	'ü': 'u', 'Ü': 'U',
	'û': 'u', 'Û': 'U',
	'ú': 'u', 'Ú': 'U',
	'ù': 'u', 'Ù': 'U',
	'ñ': 'n', 'Ñ': 'N',
	'ç': 'c', 'Ç': 'C',
}

var loadTables = sync.OnceValue(func() *tables {
	t := &tables{runes: make(map[rune]byte, len(accents))}
	for i := 0; i < 256; i++ {
		t.punct[i] = byte(i)
		t.latin1[i] = byte(i)
	}
	for i := 0; i < len(punctuation); i++ {
		t.punct[punctuation[i]] = '-'
	}
	for r, base := range accents {
		t.runes[r] = base
		// Every table letter lives in U+00C0..U+00FF, so its Latin-1 byte is the
		// code point itself.
		t.latin1[byte(r)] = base
	}
	return t
})

// diacriticFolder is a transform.Transformer that replaces accented letters
// with their ASCII base. At each position the longest interpretation wins: a
// valid multi-byte UTF-8 sequence is matched as a whole before its lead byte is
// considered as a raw Latin-1 character. Unmapped bytes are copied unchanged.
type diacriticFolder struct {
	transform.NopResetter
	t *tables
}

func (f diacriticFolder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		if c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}

		r, size := utf8.DecodeRune(src[nSrc:])
		var (
			out    byte
			mapped bool
		)
		if r == utf8.RuneError && size <= 1 {
			size = 1
			out = f.t.latin1[c]
			mapped = out != c
		} else {
			out, mapped = f.t.runes[r]
		}

		if mapped {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = out
			nDst++
		} else {
			if nDst+size > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		}
		nSrc += size
	}
	return nDst, nSrc, nil
}

// foldDiacritics applies the diacritic table to s. The folder never reports
// an error other than buffer shortage, which transform.String handles, so a
// failure leaves the input untouched.
func foldDiacritics(t *tables, s string) string {
	if !hasNonASCII(s) {
		return s
	}
	out, _, err := transform.String(diacriticFolder{t: t}, s)
	if err != nil {
		return s
	}
	return out
}

func hasNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return true
		}
	}
	return false
}
