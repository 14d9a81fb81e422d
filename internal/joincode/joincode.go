// Package joincode handles the 6-character human-enterable codes that grant a
// role on a class or organization. The alphabet excludes the ambiguous glyphs
// I, O, 0 and 1.
package joincode

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	Length   = 6
)

// Normalize upper-cases and trims a raw user-supplied code.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Valid reports whether code is exactly Length characters of the allowed
// alphabet. Callers must check this before any database access.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}

// Generate returns a random code drawn from the alphabet.
func Generate() (string, error) {
	bytes := make([]byte, Length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	var b strings.Builder
	for _, v := range bytes {
		b.WriteByte(Alphabet[int(v)%len(Alphabet)])
	}
	return b.String(), nil
}
