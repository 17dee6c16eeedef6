// Package identity provides identity-provider adapters. The local provider
// keeps accounts in the application's own store and signs credentials with
// HMAC-SHA256; a managed-service adapter would implement the same
// domain.IdentityProvider contract.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcairns/taskdeck/internal/domain"
)

// LocalProvider implements domain.IdentityProvider against a local
// account repository. Suitable for development and single-node deployments.
type LocalProvider struct {
	accounts   domain.AccountRepository
	jwtSecret  []byte
	bcryptCost int
	tokenTTL   time.Duration
}

// NewLocalProvider creates a LocalProvider signing credentials with the
// given secret.
func NewLocalProvider(accounts domain.AccountRepository, jwtSecret string, bcryptCost int) *LocalProvider {
	return &LocalProvider{
		accounts:   accounts,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
		tokenTTL:   24 * time.Hour,
	}
}

func (p *LocalProvider) LookupByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return p.accounts.GetByEmail(ctx, email)
}

// CreateAccount registers an account under the given id. An empty password
// leaves the account without password login.
func (p *LocalProvider) CreateAccount(ctx context.Context, id, email, password string) (*domain.Account, error) {
	account := &domain.Account{ID: id, Email: email}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = string(hash)
	}

	if err := p.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

// IssueCredential mints a fresh signed token for the account. Every call
// returns a new token.
func (p *LocalProvider) IssueCredential(ctx context.Context, accountID string) (string, error) {
	account, err := p.accounts.GetByID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("get account: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(p.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return signed, nil
}

// VerifyCredential parses and validates a token, returning the account id
// from the sub claim.
func (p *LocalProvider) VerifyCredential(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.jwtSecret, nil
	})
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", domain.ErrUnauthorized
	}

	return sub, nil
}

// VerifyPassword checks an email/password pair against the stored hash.
// Accounts provisioned without a password never match.
func (p *LocalProvider) VerifyPassword(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	if account.PasswordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return account, nil
}
