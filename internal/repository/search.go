package repository

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold case-folds s for comparisons. A Caser keeps state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// containsFolded reports whether any field contains the already-folded query.
func containsFolded(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(fold(f), query) {
			return true
		}
	}
	return false
}
