package domain

import (
	"context"
	"time"
)

// Account is a record held by the identity provider. Its ID is kept equal
// to the owning User's ID when the account is created through provisioning,
// which is what ties a verified credential back to an application user.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// IdentityProvider authenticates callers and issues/verifies credentials,
// independent of the application's own user records.
type IdentityProvider interface {
	LookupByEmail(ctx context.Context, email string) (*Account, error)

	// CreateAccount registers an account under the given id. An empty
	// password leaves the account without password login.
	CreateAccount(ctx context.Context, id, email, password string) (*Account, error)

	// IssueCredential mints a fresh opaque signed token for the account.
	IssueCredential(ctx context.Context, accountID string) (string, error)

	// VerifyCredential resolves a token back to the account id it was
	// issued for, or ErrUnauthorized.
	VerifyCredential(ctx context.Context, token string) (string, error)

	// VerifyPassword checks an email/password pair and returns the
	// matching account, or ErrUnauthorized.
	VerifyPassword(ctx context.Context, email, password string) (*Account, error)
}

// AccountRepository defines persistence operations for identity accounts.
// Unlike the user and task repositories, Create honors a caller-provided
// ID so the account id can be forced to match the application user id.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
}
