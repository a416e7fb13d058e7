package validate

import (
	"regexp"
	"strings"
)

// Simplified RFC 5322 check: one @, no whitespace, a dot in the domain.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lowercases a raw email input.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Email returns an error message for an invalid address, or "" when the
// (already normalized) address passes.
func Email(email string) string {
	if email == "" {
		return "Email is required"
	}
	if !emailRegex.MatchString(email) {
		return "Please enter a valid email address"
	}
	return ""
}
