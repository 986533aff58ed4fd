// Package canon maps free-text room names to the key used to join rooms
// from independent sources.
package canon

import (
	"strings"
	"unicode"
)

// Name strips all whitespace from name and lower-cases the rest.
// Two room names refer to the same room iff their canonical names are equal.
func Name(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// CleanName collapses runs of whitespace to a single space and trims the result.
// Extractors apply it to every scraped name.
func CleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
