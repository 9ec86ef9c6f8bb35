package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/simple_shop/internal/domain"
	"github.com/Skotchmaster/simple_shop/internal/events"
	"github.com/Skotchmaster/simple_shop/internal/hash"
	"github.com/Skotchmaster/simple_shop/internal/logging"
	"github.com/Skotchmaster/simple_shop/internal/models"
	"github.com/Skotchmaster/simple_shop/internal/tokens"
)

const RoleUser = "user"

type AuthService struct {
	Repo          UserRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Events        events.Publisher
}

type LoginResult struct {
	UserID       uint
	AccessToken  string
	RefreshToken string
	RefreshJTI   string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", domain.ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         RoleUser,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
		} else {
			l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		}
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicUsers, events.Event{
		Type:     events.UserRegistered,
		UserID:   user.ID,
		Username: user.Username,
	})
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", domain.ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	res, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, refreshModel(user.ID, res)); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicUsers, events.Event{
		Type:     events.UserLoggedIn,
		UserID:   user.ID,
		Username: user.Username,
	})
	return res, nil
}

// Refresh exchanges a valid refresh token for a new token pair; the old
// refresh token is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidRefreshToken)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidRefreshToken)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("user %d gone: %w", userID, domain.ErrInvalidRefreshToken)
		}
		return nil, err
	}

	res, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, refreshModel(user.ID, res)); err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return nil, err
	}
	return res, nil
}

// LogOut revokes the session's refresh token. An empty token is a no-op.
func (s *AuthService) LogOut(ctx context.Context, userID uint, refreshToken string) error {
	if refreshToken != "" {
		if err := s.Repo.RevokeRefreshToken(ctx, tokens.Sha256Hex(refreshToken)); err != nil {
			return err
		}
	}

	events.Emit(ctx, s.Events, events.TopicUsers, events.Event{
		Type:   events.UserLoggedOut,
		UserID: userID,
	})
	return nil
}

// SessionActive reports whether the refresh token with jti sessionID is still
// stored, unrevoked and unexpired.
func (s *AuthService) SessionActive(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	stored, err := s.Repo.FindRefreshByJTI(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return !stored.Revoked && stored.ExpiresAt > time.Now().Unix(), nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*LoginResult, error) {
	now := time.Now()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)

	refreshToken, jti, err := tokens.SignRefreshToken(user.ID, refreshExp, s.RefreshSecret)
	if err != nil {
		logging.FromContext(ctx).Error("sign_refresh_failed", "error", err)
		return nil, err
	}
	accessToken, err := tokens.SignAccessToken(user.ID, user.Role, jti, accessExp, s.JWTSecret)
	if err != nil {
		logging.FromContext(ctx).Error("sign_access_failed", "error", err)
		return nil, err
	}

	return &LoginResult{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RefreshJTI:   jti,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      user.Role == "admin",
	}, nil
}

func refreshModel(userID uint, res *LoginResult) *models.RefreshToken {
	return &models.RefreshToken{
		UserID:    userID,
		JTI:       res.RefreshJTI,
		Token:     tokens.Sha256Hex(res.RefreshToken),
		ExpiresAt: res.RefreshExp.Unix(),
	}
}
