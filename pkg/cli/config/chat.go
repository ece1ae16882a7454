package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
	"github.com/worklens-io/worklens/pkg/domain/interfaces"
	"github.com/worklens-io/worklens/pkg/domain/types"
	"github.com/worklens-io/worklens/pkg/service/chat"
)

// Chat holds LLM provider configuration for the chat panels. Providers
// without an API key fall back to canned demo responses.
type Chat struct {
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	ClaudeModel     string
}

// Flags returns CLI flags for Chat configuration
func (c *Chat) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key (empty enables demo responses)",
			Category:    "Chat",
			Sources:     cli.EnvVars("WORKLENS_OPENAI_API_KEY"),
			Destination: &c.OpenAIAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "OpenAI model name",
			Category:    "Chat",
			Value:       "gpt-4o-mini",
			Sources:     cli.EnvVars("WORKLENS_OPENAI_MODEL"),
			Destination: &c.OpenAIModel,
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key (empty enables demo responses)",
			Category:    "Chat",
			Sources:     cli.EnvVars("WORKLENS_ANTHROPIC_API_KEY"),
			Destination: &c.AnthropicAPIKey,
		},
		&cli.StringFlag{
			Name:        "claude-model",
			Usage:       "Claude model name",
			Category:    "Chat",
			Value:       "claude-sonnet-4-20250514",
			Sources:     cli.EnvVars("WORKLENS_CLAUDE_MODEL"),
			Destination: &c.ClaudeModel,
		},
	}
}

// Configure builds one chat service per provider. A provider without an
// API key gets a demo-mode service rather than an error, so the dashboard
// chat panels always work.
func (c *Chat) Configure(ctx context.Context) (map[types.Provider]interfaces.ChatClient, error) {
	clients := make(map[types.Provider]interfaces.ChatClient, 2)

	openaiClient, err := c.configureOpenAI(ctx)
	if err != nil {
		return nil, err
	}
	clients[types.ProviderOpenAI] = newService(types.ProviderOpenAI, openaiClient)

	claudeClient, err := c.configureClaude(ctx)
	if err != nil {
		return nil, err
	}
	clients[types.ProviderClaude] = newService(types.ProviderClaude, claudeClient)

	logger := ctxlog.From(ctx)
	logger.Info("Configured chat providers",
		slog.Bool("openai_demo", openaiClient == nil),
		slog.Bool("claude_demo", claudeClient == nil),
	)

	return clients, nil
}

func (c *Chat) configureOpenAI(ctx context.Context) (gollem.LLMClient, error) {
	if c.OpenAIAPIKey == "" {
		return nil, nil
	}
	return openai.New(ctx, c.OpenAIAPIKey, openai.WithModel(c.OpenAIModel))
}

func (c *Chat) configureClaude(ctx context.Context) (gollem.LLMClient, error) {
	if c.AnthropicAPIKey == "" {
		return nil, nil
	}
	return claude.New(ctx, c.AnthropicAPIKey, claude.WithModel(c.ClaudeModel))
}

func newService(provider types.Provider, client gollem.LLMClient) *chat.Service {
	if client == nil {
		return chat.NewService(provider)
	}
	return chat.NewService(provider, chat.WithClient(client))
}

// LogValue returns structured log value. API keys are never logged.
func (c Chat) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_openai_api_key", c.OpenAIAPIKey != ""),
		slog.String("openai_model", c.OpenAIModel),
		slog.Bool("has_anthropic_api_key", c.AnthropicAPIKey != ""),
		slog.String("claude_model", c.ClaudeModel),
	)
}
