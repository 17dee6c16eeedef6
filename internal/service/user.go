package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcairns/taskdeck/internal/domain"
)

// UserService handles user provisioning and identity lookups.
type UserService struct {
	users domain.UserRepository
	idp   domain.IdentityProvider
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, idp domain.IdentityProvider) *UserService {
	return &UserService{users: users, idp: idp}
}

// Provision finds or creates the user record for an email, reconciles it
// with the identity provider, and issues a fresh credential. The returned
// bool reports whether a new user record was created. The optional
// password is only used when a new identity account has to be created.
func (s *UserService) Provision(ctx context.Context, email, password string) (string, bool, error) {
	candidate, err := domain.NewUser(email)
	if err != nil {
		return "", false, err
	}

	created := false
	user, err := s.users.GetByEmail(ctx, candidate.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return "", false, fmt.Errorf("get user by email: %w", err)
		}
		if err := s.users.Create(ctx, candidate); err != nil {
			return "", false, fmt.Errorf("create user: %w", err)
		}
		user = candidate
		created = true
	}

	account, err := s.idp.LookupByEmail(ctx, user.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return "", false, fmt.Errorf("lookup identity account: %w", err)
		}
		// Pin the account id to the persisted user id so a verified
		// credential resolves directly to the application user.
		account, err = s.idp.CreateAccount(ctx, user.ID, user.Email, password)
		if err != nil {
			return "", false, fmt.Errorf("create identity account: %w", err)
		}
	}

	if account.ID != user.ID {
		slog.Warn("identity account id does not match user id",
			"email", user.Email, "account_id", account.ID, "user_id", user.ID)
	}

	token, err := s.idp.IssueCredential(ctx, account.ID)
	if err != nil {
		return "", false, fmt.Errorf("issue credential: %w", err)
	}
	return token, created, nil
}

// Exists reports whether a user with the given email is registered.
func (s *UserService) Exists(ctx context.Context, email string) (bool, error) {
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		return false, err
	}

	_, err = s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get user by email: %w", err)
	}
	return true, nil
}

// Login verifies an email/password pair against the identity provider and
// issues a fresh credential.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		return "", err
	}

	account, err := s.idp.VerifyPassword(ctx, normalized, password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("verify password: %w", err)
	}

	token, err := s.idp.IssueCredential(ctx, account.ID)
	if err != nil {
		return "", fmt.Errorf("issue credential: %w", err)
	}
	return token, nil
}

// GetByID retrieves a user by id.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
