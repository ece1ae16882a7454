package model

import (
	"time"

	"github.com/worklens-io/worklens/pkg/domain/types"
)

// Message is one entry in a chat panel's linear history
type Message struct {
	ID             types.MessageID      `json:"id"`
	ConversationID types.ConversationID `json:"conversation_id"`
	Provider       types.Provider       `json:"provider"`
	Role           types.Role           `json:"role"`
	Content        string               `json:"content"`
	// Greeting marks the synthetic assistant greeting shown when a panel
	// opens. Greetings are displayed but never sent upstream.
	Greeting  bool      `json:"greeting,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage creates a chat message with a fresh ID and timestamp
func NewMessage(convID types.ConversationID, provider types.Provider, role types.Role, content string) *Message {
	return &Message{
		ID:             types.NewMessageID(),
		ConversationID: convID,
		Provider:       provider,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now(),
	}
}
