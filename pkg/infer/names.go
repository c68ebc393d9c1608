package infer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent folds accented letters onto their base form (NFD decompose,
// strip combining marks, recompose) so "prénom" normalizes to "prenom"
// rather than losing the letter entirely.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeFieldName converts an arbitrary header or layout name into a
// safe, lowercase identifier.
func normalizeFieldName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(deaccent, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))

	lastUnderscore := false
	for _, r := range s {
		if r == ' ' || r == '-' || r == '.' || r == '/' || r == '\\' || r == ':' || r == ';' {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}

		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
			lastUnderscore = (r == '_')
			continue
		}

		// Drop everything else.
	}

	return strings.Trim(b.String(), "_")
}

// truncateFieldName enforces identifier length limits while preserving
// UTF-8 validity.
func truncateFieldName(s string) string {
	const maxLen = 63
	if len(s) <= maxLen {
		return s
	}
	b := []byte(s)
	cut := maxLen
	for cut > 0 && !utf8.Valid(b[:cut]) {
		cut--
	}
	if cut <= 0 {
		return s[:maxLen]
	}
	return string(b[:cut])
}
