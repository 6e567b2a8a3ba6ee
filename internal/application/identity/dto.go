package identity

import (
	"time"

	"github.com/pos/backend/internal/domain/identity"
)

// LoginInput is the login form. Password is never logged or stored.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned after successful login
type LoginResult struct {
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expires_at"`
	TokenType string                `json:"token_type"`
	User      identity.UserIdentity `json:"user"`
}

// LogoutInput identifies the token to revoke
type LogoutInput struct {
	TokenID   string
	UserID    int64
	ExpiresIn time.Duration
}
