package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"mappamentis/pkg/auth"
	"mappamentis/pkg/common"
	pkgerrors "mappamentis/pkg/errors"
)

// Authenticate requires a valid bearer token and puts the caller into the request context
func Authenticate(validator *auth.JWTValidator, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("missing authentication token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Debug("Rejected token",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError(unauthorizedMessage(err)))
				return
			}

			ctx := common.WithUserID(r.Context(), claims.UserID())
			ctx = common.WithUserRoles(ctx, claims.Roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "token has expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "invalid token signature"
	default:
		return "invalid token"
	}
}

// extractToken reads the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
