package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopworks/storefront-backend/api/responses"
	pkgauth "github.com/shopworks/storefront-backend/pkg/auth"
	"github.com/shopworks/storefront-backend/pkg/config"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
	"github.com/shopworks/storefront-backend/pkg/logger"
)

// SessionChecker reports whether a server-side session exists for a token's
// access ID. Tokens without a live session are rejected even when the
// signature is valid.
type SessionChecker interface {
	Has(ctx context.Context, accessID string) (bool, error)
}

// Auth rejects requests without a valid bearer token and seeds the request
// context with the authenticated user.
func Auth(cfg config.JWTConfig, sessions SessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r, cfg, sessions)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			if userID, ok := UserIDFromContext(ctx); ok && logg != nil {
				ctx = logg.WithUserID(ctx, userID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth seeds the context when a valid bearer token is present and
// lets the request through anonymously otherwise.
func OptionalAuth(cfg config.JWTConfig, sessions SessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r, cfg, sessions)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if userID, ok := UserIDFromContext(ctx); ok && logg != nil {
				ctx = logg.WithUserID(ctx, userID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, cfg config.JWTConfig, sessions SessionChecker) (context.Context, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}

	claims, err := pkgauth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token missing session id")
	}

	if sessions != nil {
		alive, err := sessions.Has(r.Context(), claims.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session lookup failed")
		}
		if !alive {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
		}
	}

	ctx := WithUserID(r.Context(), claims.UserID)
	ctx = WithAccessID(ctx, claims.ID)
	return ctx, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authorization header")
	}

	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "malformed authorization header")
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "empty bearer token")
	}
	return token, nil
}
