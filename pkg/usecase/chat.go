package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/worklens-io/worklens/pkg/domain/interfaces"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
	"github.com/worklens-io/worklens/pkg/metrics"
)

// claudeGreeting opens every new conversation on the claude panel. It is
// shown to the user but never sent upstream.
const claudeGreeting = "안녕하세요! 저는 당신의 AI 어시스턴트입니다. 궁금한 점이 있으시면 무엇이든 물어보세요. 😊"

// Chat implements ChatUseCase over one ChatClient per provider
type Chat struct {
	repo    interfaces.Repository
	clients map[types.Provider]interfaces.ChatClient
}

// NewChat creates a Chat use case. clients must hold an entry per enabled
// provider.
func NewChat(repo interfaces.Repository, clients map[types.Provider]interfaces.ChatClient) *Chat {
	return &Chat{
		repo:    repo,
		clients: clients,
	}
}

var _ ChatUseCase = (*Chat)(nil)

// Send runs one chat turn. The user message is persisted before the
// completion is attempted, so a failed turn never loses the input.
func (c *Chat) Send(ctx context.Context, provider types.Provider, convID types.ConversationID, content string) (*ChatReply, error) {
	logger := ctxlog.From(ctx)

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, goerr.New("empty chat message")
	}
	client, ok := c.clients[provider]
	if !ok {
		return nil, goerr.New("unknown chat provider", goerr.V("provider", provider))
	}

	if convID == "" {
		convID = types.NewConversationID()
		if provider == types.ProviderClaude {
			greeting := model.NewMessage(convID, provider, types.RoleAssistant, claudeGreeting)
			greeting.Greeting = true
			if err := c.repo.SaveMessage(ctx, greeting); err != nil {
				return nil, goerr.Wrap(err, "failed to save greeting")
			}
		}
	}

	userMsg := model.NewMessage(convID, provider, types.RoleUser, content)
	if err := c.repo.SaveMessage(ctx, userMsg); err != nil {
		return nil, goerr.Wrap(err, "failed to save user message")
	}

	history, err := c.repo.ListMessages(ctx, convID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load conversation",
			goerr.V("conversationID", convID))
	}

	reply, err := client.Complete(ctx, history)
	if err != nil {
		metrics.RecordChatError(string(provider))
		// The user message stays in history; the client may retry the turn
		return nil, goerr.Wrap(err, "chat completion failed",
			goerr.V("provider", provider),
			goerr.V("conversationID", convID))
	}

	assistantMsg := model.NewMessage(convID, provider, types.RoleAssistant, reply)
	if err := c.repo.SaveMessage(ctx, assistantMsg); err != nil {
		return nil, goerr.Wrap(err, "failed to save assistant message")
	}

	mode := "live"
	if client.IsDemo() {
		mode = "demo"
	}
	metrics.RecordChatCompletion(string(provider), mode)
	logger.Debug("Chat turn completed",
		"provider", provider,
		"conversationID", convID,
		"mode", mode,
	)

	return &ChatReply{
		ConversationID: convID,
		Message:        assistantMsg,
		Demo:           client.IsDemo(),
	}, nil
}

// History returns the transcript for one conversation
func (c *Chat) History(ctx context.Context, provider types.Provider, convID types.ConversationID) ([]*model.Message, error) {
	if _, ok := c.clients[provider]; !ok {
		return nil, goerr.New("unknown chat provider", goerr.V("provider", provider))
	}
	messages, err := c.repo.ListMessages(ctx, convID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load conversation",
			goerr.V("conversationID", convID))
	}
	return messages, nil
}
