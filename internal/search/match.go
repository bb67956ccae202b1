package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// containsFold reports whether needle occurs in haystack under Unicode case
// folding. A Caser is stateful, so each call builds its own.
func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(haystack), fold.String(needle))
}
