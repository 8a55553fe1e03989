package unify

// UID is a normalized identifier. Values are only produced by FromText (or by
// converting a string already known to be normalized); comparisons against raw
// text go through Equal and Less, which normalize the other side explicitly.
type UID string

// FromText normalizes text with the default Normalizer.
func FromText(text string) UID {
	return UID(Normalize(text, nil))
}

// FromTextWith normalizes text with n.
func FromTextWith(n *Normalizer, text string) UID {
	if n == nil {
		n = defaultNormalizer
	}
	return UID(n.Normalize(text, nil))
}

// String returns the canonical text of the UID.
func (u UID) String() string {
	return string(u)
}

// IsZero reports whether the UID is empty, which happens for degenerate input
// such as "" or "///".
func (u UID) IsZero() bool {
	return u == ""
}

// Equal reports whether text names the same resource as u.
func (u UID) Equal(text string) bool {
	return u == FromText(text)
}

// Less orders u against the normalized form of text.
func (u UID) Less(text string) bool {
	return u < FromText(text)
}
