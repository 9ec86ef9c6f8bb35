package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/simple_shop/internal/domain"
	"github.com/Skotchmaster/simple_shop/internal/events"
	"github.com/Skotchmaster/simple_shop/internal/models"
	"github.com/Skotchmaster/simple_shop/internal/tokens"
)

func TestAuthService_Register_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "secret"},
		{name: "blank username", username: "   ", password: "secret"},
		{name: "empty password", username: "user", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := env.auth.Register(ctx, tt.username, tt.password)
			require.Error(t, err)
			assert.Nil(t, u)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAuthService_Register_SuccessAndConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.auth.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "Secret123", u.PasswordHash)
	assert.Equal(t, RoleUser, u.Role)

	_, err = env.auth.Register(ctx, "alice", "Other")
	assert.ErrorIs(t, err, domain.ErrConflict)

	var count int64
	require.NoError(t, env.repo.DB.Model(&models.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	assert.Equal(t, []string{events.UserRegistered}, env.events.Types())
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)

	res, err := env.auth.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)
	assert.False(t, res.IsAdmin)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, env.auth.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, claims.Role)
	assert.True(t, claims.ExpiresAt.Time.After(time.Now()))

	stored, err := env.repo.FindRefreshByJTI(ctx, res.RefreshJTI)
	require.NoError(t, err)
	assert.Equal(t, tokens.Sha256Hex(res.RefreshToken), stored.Token)
	assert.False(t, stored.Revoked)
}

func TestAuthService_Login_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, "nobody", "Secret123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, "", "Secret123")
	assert.ErrorIs(t, err, domain.ErrValidation)

	var count int64
	require.NoError(t, env.repo.DB.Model(&models.RefreshToken{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)
	login, err := env.auth.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	refreshed, err := env.auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	old, err := env.repo.FindRefreshByJTI(ctx, login.RefreshJTI)
	require.NoError(t, err)
	assert.True(t, old.Revoked)

	_, err = env.auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.auth.Refresh(context.Background(), "not-a-valid-jwt")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestAuthService_LogOut_RevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)
	login, err := env.auth.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	require.NoError(t, env.auth.LogOut(ctx, login.UserID, login.RefreshToken))

	stored, err := env.repo.FindRefreshByJTI(ctx, login.RefreshJTI)
	require.NoError(t, err)
	assert.True(t, stored.Revoked)

	_, err = env.auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	require.NoError(t, env.auth.LogOut(ctx, login.UserID, ""))
}

func TestAuthService_SessionActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)
	login, err := env.auth.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	claims, err := tokens.AccessClaimsFromToken(login.AccessToken, env.auth.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, login.RefreshJTI, claims.SessionID)

	active, err := env.auth.SessionActive(ctx, claims.SessionID)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, env.auth.LogOut(ctx, login.UserID, login.RefreshToken))

	active, err = env.auth.SessionActive(ctx, claims.SessionID)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = env.auth.SessionActive(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = env.auth.SessionActive(ctx, "")
	require.NoError(t, err)
	assert.False(t, active)
}
