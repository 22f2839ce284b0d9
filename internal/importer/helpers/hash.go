// Package helpers provides pure helper functions for statement imports.
package helpers

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Sha256String calculates the SHA256 hash of a given string and returns its
// string representation. It is used as a one-way identifier for raw bank
// account numbers in duplicate detection, the raw number is never stored.
func Sha256String(input string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(input)))
}

// MaskAccountID masks a bank account identifier for display, revealing only
// the last four characters. Identifiers of four characters or less are
// masked completely.
func MaskAccountID(input string) string {
	if len(input) <= 4 {
		return strings.Repeat("*", len(input))
	}

	return strings.Repeat("*", len(input)-4) + input[len(input)-4:]
}
