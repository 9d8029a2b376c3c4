package jwtverify

import (
	"context"
	"net/http"
	"strings"

	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
	commonhttp "github.com/AlibekovAA/user-profile/internal/common/http"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
)

type TokenVerifier interface {
	Verify(token string) (Claims, error)
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

const bearerPrefix = "Bearer "

// bearerToken extracts the token from an Authorization header. The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// Middleware rejects requests without a valid bearer token and stores the
// verified claims in the request context.
func Middleware(verifier TokenVerifier, log *logger.Logger) func(next http.Handler) http.Handler {
	errorHandler := commonhttp.NewErrorHandler(log)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				log.WithFields(r.Context(), logger.Fields{
					"action": "profile_auth_missing",
					"method": r.Method,
				}).Warn("profile request without bearer token")
				errorHandler.HandleError(w, r, commonerrors.ErrMissingAuthorization)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"action": "profile_auth_rejected",
					"method": r.Method,
				}).Warnf("bearer token rejected: %v", err)
				errorHandler.HandleError(w, r, err)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}
