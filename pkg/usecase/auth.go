package usecase

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/worklens-io/worklens/pkg/domain/interfaces"
	"github.com/worklens-io/worklens/pkg/domain/model"
)

// ErrInvalidCredentials covers both a wrong user name and a wrong password
var ErrInvalidCredentials = goerr.New("invalid credentials")

const sessionDuration = 24 * time.Hour

// Auth implements AuthUseCase against a single fixed demo credential.
// This is a demo login screen, not production authentication.
type Auth struct {
	repo     interfaces.Repository
	userName string
	password string
}

// NewAuth creates an Auth use case with the configured demo credential
func NewAuth(repo interfaces.Repository, userName, password string) *Auth {
	return &Auth{
		repo:     repo,
		userName: userName,
		password: password,
	}
}

var _ AuthUseCase = (*Auth)(nil)

// Login checks the demo credential and creates a session
func (a *Auth) Login(ctx context.Context, userName, password string) (*model.Session, error) {
	logger := ctxlog.From(ctx)

	userOK := subtle.ConstantTimeCompare([]byte(userName), []byte(a.userName))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	if userOK&passOK != 1 {
		return nil, goerr.Wrap(ErrInvalidCredentials, "login rejected")
	}

	session, err := model.NewSession(userName, sessionDuration)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create session")
	}
	if err := a.repo.SaveSession(ctx, session); err != nil {
		return nil, goerr.Wrap(err, "failed to save session")
	}

	logger.Info("Created session",
		"sessionID", session.ID,
		"userName", session.UserName,
		"expiresAt", session.ExpiresAt,
	)
	return session, nil
}

// ValidateSession validates a session by ID and secret
func (a *Auth) ValidateSession(ctx context.Context, sessionID, sessionSecret string) (*model.Session, error) {
	if sessionID == "" || sessionSecret == "" {
		return nil, goerr.New("session ID and secret are required")
	}

	session, err := a.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "session not found")
	}
	if subtle.ConstantTimeCompare([]byte(session.Secret), []byte(sessionSecret)) != 1 {
		return nil, goerr.New("session secret mismatch")
	}
	if session.IsExpired() {
		if err := a.repo.DeleteSession(ctx, sessionID); err != nil {
			ctxlog.From(ctx).Warn("Failed to delete expired session",
				"sessionID", sessionID,
				"error", err,
			)
		}
		return nil, goerr.New("session expired")
	}
	return session, nil
}

// Logout deletes a session
func (a *Auth) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return goerr.New("session ID is required")
	}
	if err := a.repo.DeleteSession(ctx, sessionID); err != nil {
		return goerr.Wrap(err, "failed to delete session")
	}
	return nil
}
