package domain

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// User represents an account holder. The ID is an opaque string assigned
// by the repository on Create; it is empty on a freshly constructed value.
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// NewUser validates and normalizes the email and returns a User ready for
// persistence. The stored email is always trimmed and lowercased.
func NewUser(email string) (*User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return &User{Email: normalized}, nil
}

// NormalizeEmail trims, validates, and lowercases an email address.
func NormalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", fmt.Errorf("%w: invalid email %q", ErrInvalidInput, email)
	}
	return strings.ToLower(trimmed), nil
}

// Validate reports whether a persisted User record is well-formed. It is
// used when reconstructing rows from storage.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("%w: user id is empty", ErrInvalidInput)
	}
	if _, err := NormalizeEmail(u.Email); err != nil {
		return err
	}
	if u.CreatedAt.IsZero() {
		return fmt.Errorf("%w: user created_at is zero", ErrInvalidInput)
	}
	return nil
}

// UserRepository defines persistence operations for users.
// Create assigns the final ID.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
