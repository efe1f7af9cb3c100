package textnorm

import "strings"

// Placeholder replaces every non-printable character.
const Placeholder = '?'

// IsPrintable reports whether r belongs to the printable ASCII set: letters,
// digits, punctuation, space and the whitespace controls \t \n \r \v \f.
func IsPrintable(r rune) bool {
	switch r {
	case '\t', '\n', '\r', '\v', '\f':
		return true
	}

	return r >= 0x20 && r <= 0x7e
}

// Sanitize replaces every rune that is not printable with Placeholder. The
// result has the same number of runes as text and Sanitize(Sanitize(x)) equals
// Sanitize(x).
func Sanitize(text string) string {
	return strings.Map(func(r rune) rune {
		if IsPrintable(r) {
			return r
		}

		return Placeholder
	}, text)
}
