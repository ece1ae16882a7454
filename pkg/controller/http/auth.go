package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/usecase"
)

const (
	cookieSessionID     = "session_id"
	cookieSessionSecret = "session_secret"
)

type sessionCtxKey struct{}

func withSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, session)
}

func sessionFrom(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionCtxKey{}).(*model.Session)
	return session
}

// AuthHandler serves the demo login endpoints
type AuthHandler struct {
	authUC usecase.AuthUseCase
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authUC usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

type loginRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin checks the demo credential and sets the session cookie pair
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	session, err := h.authUC.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	setSessionCookies(w, r, session)
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"user_name": session.UserName,
	})
}

// HandleLogout deletes the session and clears the cookies
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if idCookie, err := r.Cookie(cookieSessionID); err == nil {
		if err := h.authUC.Logout(r.Context(), idCookie.Value); err != nil {
			ctxlog.From(r.Context()).Debug("Failed to delete session", "error", err)
		}
	}

	clearSessionCookies(w)
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"message": "logged out",
	})
}

// HandleUserMe returns the session's user. RequireAuth runs first.
func (h *AuthHandler) HandleUserMe(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	if session == nil {
		writeJSON(r.Context(), w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"user_name": session.UserName,
	})
}

func setSessionCookies(w http.ResponseWriter, r *http.Request, session *model.Session) {
	secure := r.TLS != nil
	http.SetCookie(w, &http.Cookie{
		Name:     cookieSessionID,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     cookieSessionSecret,
		Value:    session.Secret,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})
}

func clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{cookieSessionID, cookieSessionSecret} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
	}
}
