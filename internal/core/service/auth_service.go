package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/diwanhq/diwan/internal/api/metrics"
	"github.com/diwanhq/diwan/internal/core/domain"
	"github.com/diwanhq/diwan/internal/core/ports"
)

// AuthService implements login, logout and session rehydration. Tokens are
// HS256 JWTs carrying a server-side session id, so logout revokes them.
type AuthService struct {
	users     ports.UserRepository
	sessions  ports.SessionStore
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		// Do not reveal whether the username exists.
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	sid := newID("sess")
	if err := s.sessions.Put(ctx, sid, user.ID, s.tokenTTL); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user, sid)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Status validates the session and re-resolves the user, so a deleted account
// or revoked session both surface as not-found.
func (s *AuthService) Status(ctx context.Context, sessionID, userID string) (*domain.User, error) {
	boundUser, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if boundUser != userID {
		return nil, ports.ErrSessionNotFound
	}
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) generateToken(user *domain.User, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sid":      sessionID,
		"sub":      user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
