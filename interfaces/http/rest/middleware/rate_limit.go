package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"

	"mappamentis/pkg/auth"
	"mappamentis/pkg/common"
	pkgerrors "mappamentis/pkg/errors"
)

// RateLimit rejects callers over requestsPerMinute with 429.
// Authenticated callers are limited per user, others per client IP.
func RateLimit(requestsPerMinute int, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	ipLimiter := auth.NewIPRateLimiter(requestsPerMinute)
	userLimiter := auth.NewUserRateLimiter(requestsPerMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var limiter auth.RateLimiter = ipLimiter
			key := clientIP(r)
			if userID, ok := common.GetUserID(r.Context()); ok {
				limiter, key = userLimiter, userID
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Error("Rate limiter error", zap.Error(err))
				errs.Handle(w, r, pkgerrors.NewInternalError("rate limiter unavailable").WithCause(err))
				return
			}
			if !allowed {
				errs.Handle(w, r, pkgerrors.NewRateLimitError(requestsPerMinute, "minute"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns RemoteAddr without its port; chi's RealIP middleware has already applied forwarding headers
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
