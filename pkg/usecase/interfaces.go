package usecase

import (
	"context"

	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
)

// BoardUseCase defines board snapshot operations
type BoardUseCase interface {
	// Load serves today's snapshot, fetching and storing it on a miss
	Load(ctx context.Context) (*model.Snapshot, error)

	// LoadByDate serves a stored snapshot without ever refetching
	LoadByDate(ctx context.Context, date types.SnapshotDate) (*model.Snapshot, error)

	// Dates lists stored snapshot dates, newest first
	Dates(ctx context.Context) ([]types.SnapshotDate, error)

	// Refresh forces an upstream fetch and stores the result for today
	Refresh(ctx context.Context) (*model.Snapshot, error)
}

// ChatReply is the outcome of one chat turn
type ChatReply struct {
	ConversationID types.ConversationID `json:"conversation_id"`
	Message        *model.Message       `json:"message"`
	Demo           bool                 `json:"demo"`
}

// ChatUseCase defines chat panel operations
type ChatUseCase interface {
	// Send appends the user message, generates the assistant reply and
	// appends it. An empty conversation ID starts a new conversation.
	Send(ctx context.Context, provider types.Provider, convID types.ConversationID, content string) (*ChatReply, error)

	// History returns the conversation transcript in order
	History(ctx context.Context, provider types.Provider, convID types.ConversationID) ([]*model.Message, error)
}

// AuthUseCase defines the demo login operations
type AuthUseCase interface {
	// Login checks the fixed demo credential and creates a session
	Login(ctx context.Context, userName, password string) (*model.Session, error)

	// ValidateSession validates a session by ID and secret
	ValidateSession(ctx context.Context, sessionID, sessionSecret string) (*model.Session, error)

	// Logout deletes a session
	Logout(ctx context.Context, sessionID string) error
}
