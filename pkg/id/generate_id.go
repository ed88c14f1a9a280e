package id

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewLoanID returns a human-readable loan identifier: "LN-" + 10 uppercase
// hex characters. Short enough to read to an agent over the phone; the
// bounded insert-retry covers the residual collision risk.
func NewLoanID() string {
	b := make([]byte, 5)
	_, _ = rand.Read(b)
	return "LN-" + strings.ToUpper(hex.EncodeToString(b))
}
