package ingest

import (
	"strings"
	"unicode/utf8"
)

// normalizeSpace collapses multiple spaces into one and trims the string.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanText normalizes whitespace and drops invalid UTF-8 sequences.
func cleanText(s string) string {
	return normalizeSpace(sanitizeUTF8(s))
}

func normalizeCategory(s string) string {
	return strings.ToLower(cleanText(s))
}

func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}
