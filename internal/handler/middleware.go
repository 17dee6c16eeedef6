package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcairns/taskdeck/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// RequireAuth is middleware that protects routes requiring authentication.
// It reads the Bearer token from the Authorization header, verifies the
// credential with the identity provider, loads the matching user, and
// injects it into the request context. Returns 401 for unauthenticated
// requests.
func RequireAuth(idp domain.IdentityProvider, users domain.UserRepository, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticateRequest(r, idp, users)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized.")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authenticateRequest(r *http.Request, idp domain.IdentityProvider, users domain.UserRepository) (*domain.User, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}

	// The provisioning flow pins account ids to user ids, so the verified
	// account id doubles as the user lookup key.
	accountID, err := idp.VerifyCredential(r.Context(), token)
	if err != nil {
		return nil, err
	}

	user, err := users.GetByID(r.Context(), accountID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", domain.ErrUnauthorized
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", domain.ErrUnauthorized
	}
	return token, nil
}

// SecurityHeaders sets baseline security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
