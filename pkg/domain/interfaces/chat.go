package interfaces

import (
	"context"

	"github.com/worklens-io/worklens/pkg/domain/model"
)

// ChatClient completes a conversation against one chat provider. The full
// history is sent on every call; implementations skip synthetic greeting
// messages before calling upstream.
type ChatClient interface {
	// Complete returns the assistant reply for the given history. The last
	// element of history is the newest user message.
	Complete(ctx context.Context, history []*model.Message) (string, error)

	// IsDemo reports whether replies are canned fallbacks rather than
	// upstream completions.
	IsDemo() bool
}
