package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthGateway struct {
	mock.Mock
}

func (m *MockAuthGateway) Authenticate(ctx context.Context, normalizedEmail, passwordHash string) (*identity.UserIdentity, error) {
	args := m.Called(ctx, normalizedEmail, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserIdentity), args.Error(1)
}

func newTestAuthService(gateway identity.AuthGateway, blacklist auth.TokenBlacklist) (*AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "pos-test",
	})
	return NewAuthService(gateway, jwtService, blacklist, nil), jwtService
}

func TestLogin_Success(t *testing.T) {
	gateway := new(MockAuthGateway)
	svc, jwtService := newTestAuthService(gateway, nil)

	user := &identity.UserIdentity{ID: 3, Name: "Ana", Email: "ana@example.com", Role: "admin"}
	gateway.On("Authenticate", mock.Anything, "ana@example.com", identity.HashPassword("s3cret")).Return(user, nil)

	result, err := svc.Login(context.Background(), LoginInput{Email: "  Ana@Example.COM ", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, *user, result.User)
	assert.Equal(t, "Bearer", result.TokenType)

	claims, err := jwtService.ValidateAccessToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "Ana", claims.Name)
	gateway.AssertExpectations(t)
}

func TestLogin_Mismatch(t *testing.T) {
	gateway := new(MockAuthGateway)
	svc, _ := newTestAuthService(gateway, nil)

	gateway.On("Authenticate", mock.Anything, "ana@example.com", mock.Anything).Return(nil, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_NeverSendsRawPassword(t *testing.T) {
	gateway := new(MockAuthGateway)
	svc, _ := newTestAuthService(gateway, nil)

	gateway.On("Authenticate", mock.Anything, mock.Anything, mock.MatchedBy(func(hash string) bool {
		return hash != "plain-password" && len(hash) == 64
	})).Return(nil, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "plain-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	gateway.AssertExpectations(t)
}

func TestLogin_MissingFields(t *testing.T) {
	gateway := new(MockAuthGateway)
	svc, _ := newTestAuthService(gateway, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: " ", Password: "x"})
	require.Error(t, err)
	_, err = svc.Login(context.Background(), LoginInput{Email: "a@b.c", Password: ""})
	require.Error(t, err)
	gateway.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_GatewayError(t *testing.T) {
	gateway := new(MockAuthGateway)
	svc, _ := newTestAuthService(gateway, nil)

	storeErr := errors.New("connection refused")
	gateway.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).Return(nil, storeErr)

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, storeErr)
}

func TestLogout_RevokesToken(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc, _ := newTestAuthService(new(MockAuthGateway), blacklist)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, LogoutInput{TokenID: "jti-1", UserID: 3, ExpiresIn: time.Hour}))
	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogout_WithoutBlacklist(t *testing.T) {
	svc, _ := newTestAuthService(new(MockAuthGateway), nil)
	assert.NoError(t, svc.Logout(context.Background(), LogoutInput{TokenID: "jti-1"}))
}
