package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrSnapshotNotFound     = goerr.New("snapshot not found")
	ErrInvalidSnapshot      = goerr.New("snapshot is missing required fields")
	ErrConversationNotFound = goerr.New("conversation not found")
	ErrSessionNotFound      = goerr.New("session not found")
)
