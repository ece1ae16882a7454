package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/worklens-io/worklens/frontend"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/metrics"
	"github.com/worklens-io/worklens/pkg/usecase"
)

// ErrTagBadRequest marks errors caused by a malformed request
var ErrTagBadRequest = goerr.NewTag("bad_request")

// Server is the HTTP server for the dashboard API and embedded frontend
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates the HTTP server and wires all routes
func NewServer(
	ctx context.Context,
	addr string,
	boardUC usecase.BoardUseCase,
	chatUC usecase.ChatUseCase,
	authUC usecase.AuthUseCase,
	exportOpts ...BoardHandlerOption,
) (*Server, error) {
	router := chi.NewRouter()
	authMiddleware := NewMiddleware(authUC)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(MetricsMiddleware())
	router.Use(middleware.Recoverer)

	boardHandler := NewBoardHandler(boardUC, exportOpts...)
	chatHandler := NewChatHandler(chatUC)
	authHandler := NewAuthHandler(authUC)

	router.Get("/health", handleHealth)
	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	router.Get("/report", boardHandler.HandleReport)

	router.Route("/api", func(r chi.Router) {
		r.Route("/board", func(r chi.Router) {
			r.Get("/", boardHandler.HandleBoard)
			r.Get("/dates", boardHandler.HandleDates)
			r.Get("/stats", boardHandler.HandleStats)
			r.Get("/utilization", boardHandler.HandleUtilization)
			r.Get("/export", boardHandler.HandleExport)
			r.Post("/refresh", boardHandler.HandleRefresh)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/{provider}", chatHandler.HandleSend)
			r.Get("/{provider}/{conversationID}", chatHandler.HandleHistory)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Get("/me", authHandler.HandleUserMe)
		})

		r.Get("/dashboard", handleDashboard)
	})

	// Embedded frontend; plain fallback page if no build is bundled
	if fs, err := frontend.GetHTTPFS(); err != nil {
		ctxlog.From(ctx).Warn("No embedded frontend build, serving fallback page",
			"error", err,
		)
		router.Get("/*", handleFallbackHome)
	} else {
		spa, err := NewSPAHandler(fs)
		if err != nil {
			return nil, err
		}
		router.Handle("/*", spa)
	}

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "worklens",
	})
}

// handleDashboard serves the static dashboard mockup data
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, model.DemoDashboard())
}

func handleFallbackHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>worklens</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #1a1a2e;
            color: #eee;
        }
        .container { text-align: center; }
        a { color: #7aa2f7; }
    </style>
</head>
<body>
    <div class="container">
        <h1>worklens</h1>
        <p>Work-hour dashboard</p>
        <p><a href="/report">Monthly report</a></p>
    </div>
</body>
</html>`)); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write fallback home page", "error", err)
	}
}

// writeJSON writes a JSON response body with the given status
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}

// writeError maps an error to an HTTP status and writes it as JSON
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case goerr.HasTag(err, ErrTagBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrSnapshotNotFound),
		errors.Is(err, model.ErrConversationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status >= http.StatusInternalServerError {
		ctxlog.From(ctx).Error("Request failed", "error", err)
	} else {
		ctxlog.From(ctx).Debug("Request rejected", "error", err, "status", status)
	}

	writeJSON(ctx, w, status, map[string]string{"error": err.Error()})
}
