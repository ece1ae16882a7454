package model

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// Session is a logged-in demo session. The login screen is an explicit
// non-production demo: credentials are fixed at configuration time and the
// session is an opaque cookie pair, nothing more.
type Session struct {
	ID        string    `json:"id"`
	Secret    string    `json:"-"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSession creates a session with a time-ordered ID and random secret
func NewSession(userName string, duration time.Duration) (*Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	secret, err := randomSecret(24)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        id.String(),
		Secret:    secret,
		UserName:  userName,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}, nil
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsValid checks the session is complete and not expired
func (s *Session) IsValid() bool {
	return s.ID != "" && s.Secret != "" && s.UserName != "" && !s.IsExpired()
}

func randomSecret(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
