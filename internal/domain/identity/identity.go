package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// UserIdentity is an authenticated staff member. It is produced only by
// an AuthGateway and never carries the password or its digest.
type UserIdentity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthGateway verifies credentials against the user store.
type AuthGateway interface {
	// Authenticate returns the identity whose stored digest matches, or
	// (nil, nil) when no user matches.
	Authenticate(ctx context.Context, normalizedEmail, passwordHash string) (*UserIdentity, error)
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword returns the lowercase hex SHA-256 digest stored for a password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
