package security

import (
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters. Fixed so the same (password, salt) pair always
// yields the same digest; credentials hashed with these settings stay
// verifiable.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// GenerateSalt returns a fresh random salt, one per registered credential.
func GenerateSalt() string {
	return uuid.NewString()
}

// HashPassword derives a 64-character hex digest from password and salt
// using argon2id. Deterministic for identical inputs.
func HashPassword(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}

// VerifyPassword recomputes the digest and compares it to hash in
// constant time.
func VerifyPassword(password, salt, hash string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

var sanitizer = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// SanitizeInput escapes markup-significant characters in user-supplied
// free text before it is persisted and potentially rendered.
func SanitizeInput(input string) string {
	return sanitizer.Replace(input)
}
