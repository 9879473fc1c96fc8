package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/homestash/internal/domain"
)

// UserRecord is a user row including credential fields that never leave the
// store/auth boundary.
type UserRecord struct {
	domain.User
	PasswordHash string
	ResetToken   *string
	ResetExpires *time.Time
}

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, email, passwordHash, displayName string) (*UserRecord, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, created_at) VALUES (?, ?, ?, ?, ?)
	`, id, email, passwordHash, displayName, time.Now().UTC().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*UserRecord, error) {
	return s.getOne(ctx, `WHERE id = ?`, id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	return s.getOne(ctx, `WHERE email = ?`, email)
}

func (s *UserStore) GetByResetToken(ctx context.Context, token string) (*UserRecord, error) {
	return s.getOne(ctx, `WHERE reset_token = ?`, token)
}

func (s *UserStore) getOne(ctx context.Context, where string, args ...any) (*UserRecord, error) {
	u := &UserRecord{}
	var created int64
	var resetExpires *int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, display_name, reset_token, reset_expires, created_at
		FROM users `+where,
		args...,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.ResetToken, &resetExpires, &created)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u.CreatedAt = time.Unix(0, created).UTC()
	if resetExpires != nil {
		t := time.Unix(0, *resetExpires).UTC()
		u.ResetExpires = &t
	}
	return u, nil
}

// SetResetToken stores a password reset token and its expiry for the user.
func (s *UserStore) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET reset_token = ?, reset_expires = ? WHERE id = ?
	`, token, expires.UTC().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %w", domain.ErrNotFound)
	}

	return nil
}

// UpdatePassword replaces the password hash and clears any reset token.
func (s *UserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, reset_token = NULL, reset_expires = NULL WHERE id = ?
	`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %w", domain.ErrNotFound)
	}

	return nil
}
