package classifier

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKC normalization and lowercasing before pattern
// matching. NFKC folds fullwidth and other stylistic Unicode variants into
// their canonical forms so that disguised text still hits the phrase lists.
func Normalize(text string) string {
	return strings.ToLower(norm.NFKC.String(text))
}
