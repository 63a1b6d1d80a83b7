package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-banking/internal/models"
	"digital-banking/internal/repository"
	"digital-banking/internal/repository/memory"
	"digital-banking/internal/services"
)

func newAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	auth := services.NewAuthService(memory.NewStore().Users(), "test-secret", time.Hour)
	require.NoError(t, auth.EnsureUser(context.Background(), "admin", "admin123", services.RoleUser, services.RoleAdmin))
	require.NoError(t, auth.EnsureUser(context.Background(), "user", "user123", services.RoleUser))
	return auth
}

func TestLoginIssuesScopedToken(t *testing.T) {
	auth := newAuthService(t)

	token, err := auth.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(3600), token.ExpiresIn)
	assert.Equal(t, "ROLE_USER ROLE_ADMIN", token.Scope)

	claims, err := auth.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.True(t, claims.HasScope(services.RoleAdmin))
	assert.True(t, claims.HasScope(services.RoleUser))
}

func TestUserTokenLacksAdminScope(t *testing.T) {
	auth := newAuthService(t)

	token, err := auth.Login(context.Background(), "user", "user123")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.HasScope(services.RoleUser))
	assert.False(t, claims.HasScope(services.RoleAdmin))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := newAuthService(t)

	_, err := auth.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = auth.Login(context.Background(), "nobody", "admin123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestEnsureUserKeepsExistingPassword(t *testing.T) {
	auth := newAuthService(t)

	require.NoError(t, auth.EnsureUser(context.Background(), "admin", "other", services.RoleUser))

	_, err := auth.Login(context.Background(), "admin", "admin123")
	assert.NoError(t, err)
}

func TestValidateTokenRejectsForeignAndExpiredTokens(t *testing.T) {
	auth := newAuthService(t)
	users := memory.NewStore().Users()

	foreign, err := services.NewAuthService(users, "other-secret", time.Hour).GenerateToken("admin", []string{services.RoleAdmin})
	require.NoError(t, err)
	_, err = auth.ValidateToken(foreign)
	assert.Error(t, err)

	expired, err := services.NewAuthService(users, "test-secret", -time.Minute).GenerateToken("admin", []string{services.RoleAdmin})
	require.NoError(t, err)
	_, err = auth.ValidateToken(expired)
	assert.Error(t, err)

	_, err = auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}

type userRepoStub struct {
	createErr error
}

func (s userRepoStub) Create(context.Context, *models.User) error { return s.createErr }

func (s userRepoStub) GetByName(context.Context, string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func TestEnsureUserWrapsStoreFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	auth := services.NewAuthService(userRepoStub{createErr: storeErr}, "secret", time.Hour)

	err := auth.EnsureUser(context.Background(), "admin", "admin123", services.RoleAdmin)
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "create user admin")

	auth = services.NewAuthService(userRepoStub{createErr: repository.ErrConflict}, "secret", time.Hour)
	assert.NoError(t, auth.EnsureUser(context.Background(), "admin", "admin123", services.RoleAdmin))
}
