package identity

import (
	"context"
	"strings"

	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for any email/password mismatch
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// AuthService signs staff in and out
type AuthService struct {
	gateway    identity.AuthGateway
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. blacklist may be nil,
// in which case Logout only logs.
func NewAuthService(
	gateway identity.AuthGateway,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		gateway:    gateway,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger.Named("auth"),
	}
}

// Login verifies credentials through the gateway and issues an access token.
// The email is normalized and only the password digest leaves this method.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := identity.NormalizeEmail(input.Email)
	if email == "" || strings.TrimSpace(input.Password) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Email and password are required")
	}

	user, err := s.gateway.Authenticate(ctx, email, identity.HashPassword(input.Password))
	if err != nil {
		s.logger.Error("Credential lookup failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if user == nil {
		s.logger.Warn("Invalid login attempt", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role))

	return &LoginResult{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		TokenType: token.TokenType,
		User:      *user,
	}, nil
}

// Logout revokes the token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout", zap.Int64("user_id", input.UserID))
	if s.blacklist == nil || input.TokenID == "" {
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, input.TokenID, input.ExpiresIn)
}
