package textutil

import (
	"strings"
	"unicode"
)

// Fold lowercases s and drops whitespace and punctuation, "United States"
// and "united-states" both become "unitedstates".
func Fold(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(unicode.ToLower(r))
		}
	}
	return out.String()
}
