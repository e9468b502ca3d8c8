// Package validation holds the pure form validators. Errors are
// translation keys; callers resolve them through the translation store
// before showing them to the user.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
	upperRegex    = regexp.MustCompile(`[A-Z]`)
	lowerRegex    = regexp.MustCompile(`[a-z]`)
	digitRegex    = regexp.MustCompile(`[0-9]`)
)

// Result is the outcome of a single validation. Error is set only when
// Valid is false, and holds the first failing rule's message key.
type Result struct {
	Valid bool
	Error string
}

func ok() Result             { return Result{Valid: true} }
func fail(key string) Result { return Result{Valid: false, Error: key} }

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) Result {
	if strings.TrimSpace(email) == "" {
		return fail("validation.email_required")
	}
	if !emailRegex.MatchString(email) {
		return fail("validation.email_invalid")
	}
	return ok()
}

// ValidatePassword checks password strength. Rules are checked in order;
// the first failure wins.
func ValidatePassword(password string) Result {
	if password == "" {
		return fail("validation.password_required")
	}
	if utf8.RuneCountInString(password) < 8 {
		return fail("validation.password_too_short")
	}
	if !upperRegex.MatchString(password) {
		return fail("validation.password_needs_uppercase")
	}
	if !lowerRegex.MatchString(password) {
		return fail("validation.password_needs_lowercase")
	}
	if !digitRegex.MatchString(password) {
		return fail("validation.password_needs_digit")
	}
	return ok()
}

// ValidateUsername checks username shape: 3-20 characters from
// [a-zA-Z0-9_-].
func ValidateUsername(username string) Result {
	if strings.TrimSpace(username) == "" {
		return fail("validation.username_required")
	}
	if !usernameRegex.MatchString(username) {
		return fail("validation.username_invalid")
	}
	return ok()
}
