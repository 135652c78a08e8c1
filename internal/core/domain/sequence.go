package domain

import "strings"

// SequenceHit is a record returned by an external sequence search.
// Document is shaped like a catalog dataset so clients render it the same way.
type SequenceHit struct {
	BRC        string         `json:"brc"`
	Identifier string         `json:"identifier"`
	Document   map[string]any `json:"document"`
}

// NormalizeSequence strips whitespace and upper-cases a nucleotide or
// protein sequence. ok is false when anything but letters, '-' or '*' remains.
func NormalizeSequence(seq string) (string, bool) {
	var b strings.Builder
	b.Grow(len(seq))
	for _, r := range seq {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			continue
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r == '-', r == '*':
			b.WriteRune(r)
		default:
			return "", false
		}
	}
	return b.String(), b.Len() > 0
}
