package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbonduro/homestash/internal/domain"
	"github.com/vbonduro/homestash/internal/store"
)

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// resetTokenTTL bounds how long a password reset token stays usable.
const resetTokenTTL = time.Hour

// userRepository is the subset of store.UserStore that Service requires.
type userRepository interface {
	Create(ctx context.Context, email, passwordHash, displayName string) (*store.UserRecord, error)
	GetByID(ctx context.Context, id string) (*store.UserRecord, error)
	GetByEmail(ctx context.Context, email string) (*store.UserRecord, error)
	GetByResetToken(ctx context.Context, token string) (*store.UserRecord, error)
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// Service issues and verifies the owner tags the inventory layer scopes rows
// by. It never hands password material past the store boundary.
type Service struct {
	users    userRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewService(users userRepository, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{users: users, secret: secret, tokenTTL: tokenTTL}
}

func (s *Service) Register(ctx context.Context, email, password, displayName string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	rec, err := s.users.Create(ctx, email, string(hash), strings.TrimSpace(displayName))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.signToken(rec.ID)
	if err != nil {
		return nil, "", err
	}
	return &rec.User, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	rec, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if rec == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.signToken(rec.ID)
	if err != nil {
		return nil, "", err
	}
	return &rec.User, token, nil
}

// VerifyToken returns the user id a valid token was issued for.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// CurrentUser resolves a token to its user, or nil if the user no longer
// exists.
func (s *Service) CurrentUser(ctx context.Context, tokenString string) (*domain.User, error) {
	userID, err := s.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	rec, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return &rec.User, nil
}

// User returns the account for an owner tag, or nil if it no longer exists.
func (s *Service) User(ctx context.Context, id string) (*domain.User, error) {
	rec, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return &rec.User, nil
}

// RequestPasswordReset issues a reset token for the account. An unknown
// email yields an empty token and no error, so callers cannot probe for
// registered addresses. Token delivery is the transport layer's concern.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	rec, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if rec == nil {
		return "", nil
	}

	token := uuid.NewString()
	if err := s.users.SetResetToken(ctx, rec.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return token, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	rec, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if rec == nil || rec.ResetExpires == nil || time.Now().After(*rec.ResetExpires) {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, rec.ID, string(hash))
}

func (s *Service) signToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
