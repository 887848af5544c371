// Package textnorm normalises shopper input typed on Japanese keyboards.
package textnorm

import (
	"strings"

	"golang.org/x/text/width"
)

// Fold maps full-width ASCII variants (digits, latin letters, the ideographic
// space) to their narrow forms.
func Fold(s string) string {
	return width.Fold.String(s)
}

// Strip folds s and removes every rune in cutset.
func Strip(s string, cutset string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(cutset, r) {
			return -1
		}
		return r
	}, Fold(s))
}

// IsDigits reports whether s is non-empty and only ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
