package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/worklens-io/worklens/pkg/metrics"
	"github.com/worklens-io/worklens/pkg/usecase"
)

// Middleware provides auth-aware HTTP middleware
type Middleware struct {
	authUC usecase.AuthUseCase
}

// NewMiddleware creates a middleware instance
func NewMiddleware(authUC usecase.AuthUseCase) *Middleware {
	return &Middleware{authUC: authUC}
}

// RequireAuth checks the session cookie pair before passing the request on
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idCookie, err := r.Cookie(cookieSessionID)
		if err != nil {
			http.Error(w, "Unauthorized: missing session", http.StatusUnauthorized)
			return
		}
		secretCookie, err := r.Cookie(cookieSessionSecret)
		if err != nil {
			http.Error(w, "Unauthorized: missing session", http.StatusUnauthorized)
			return
		}

		session, err := m.authUC.ValidateSession(r.Context(), idCookie.Value, secretCookie.Value)
		if err != nil {
			ctxlog.From(r.Context()).Debug("Session validation failed",
				"error", err,
				"sessionID", idCookie.Value,
			)
			http.Error(w, "Unauthorized: invalid session", http.StatusUnauthorized)
			return
		}

		r = r.WithContext(withSession(r.Context(), session))
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware embeds the server logger into each request context and
// logs the request outcome
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(ctxlog.With(r.Context(), ctxlog.From(ctx)))

			logger := ctxlog.From(r.Context())
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		})
	}
}

// MetricsMiddleware records request counters and latency by route pattern
func MetricsMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// The route pattern keeps label cardinality bounded
			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			metrics.RecordHTTPRequest(pattern, r.Method, strconv.Itoa(ww.Status()))
			metrics.RecordHTTPRequestDuration(pattern, r.Method, time.Since(start).Seconds())
		})
	}
}
