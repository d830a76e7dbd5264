// Package text provides utilities for text processing and display formatting.
// This package includes reusable functions for deriving human-readable labels
// from SQL column identifiers, shared by report configuration and rendering.
package text

import (
	"strings"
	"unicode"
)

// Labelize converts a column identifier into a display label.
// Qualified identifiers keep only the final segment, underscores become
// spaces, and the first letter of every word is capitalized. This is the
// default used whenever a report column is configured without an explicit
// label.
//
// Examples:
//
//	Labelize("name")        // returns "Name"
//	Labelize("created_at")  // returns "Created At"
//	Labelize("e.salary")    // returns "Salary"
//	Labelize("")            // returns ""
func Labelize(key string) string {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
