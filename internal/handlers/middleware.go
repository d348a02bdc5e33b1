package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"glossify/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	verifier *security.TokenVerifier
	limiter  *security.RateLimiter
	logger   *zap.Logger
}

// NewMiddleware creates a new middleware instance. A nil limiter disables
// rate limiting.
func NewMiddleware(verifier *security.TokenVerifier, limiter *security.RateLimiter, logger *zap.Logger) *Middleware {
	return &Middleware{verifier: verifier, limiter: limiter, logger: logger}
}

// RequireUser resolves the calling user from the bearer token
func (m *Middleware) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.verifier.UserFromRequest(r)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="glossify"`)
			respondWithError(w, m.logger, http.StatusUnauthorized, CodeUnauthorized, ErrUnauthorized, "Rejected token", err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit limits requests per user, or per client IP before a user is known
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next(w, r)
			return
		}

		key := GetUserIDFromContext(r.Context())
		if key == "" {
			key = security.GetClientIP(r)
		}
		if !m.limiter.Allow(key) {
			m.logger.Warn("Rate limit exceeded", zap.String("key", key), zap.String("path", r.URL.Path))
			respondWithError(w, m.logger, http.StatusTooManyRequests, CodeTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs every request with its status and duration
func Logging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// Recover turns a panic in a handler into a 500 response
func Recover(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Handler panicked", zap.Any("panic", p), zap.String("path", r.URL.Path), zap.Stack("stack"))
				respondWithError(w, logger, http.StatusInternalServerError, CodeInternal, ErrInternalServerError, "", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// GetUserIDFromContext retrieves the user ID from the request context
func GetUserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserContextKey).(string)
	return userID
}
