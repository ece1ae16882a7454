package chat

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"math/rand"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
)

// Error tags for categorization
var (
	ErrTagEmptyResponse   = goerr.NewTag("empty_response")
	ErrTagTemplateFailure = goerr.NewTag("template_failure")
)

//go:embed templates/*.md
var templateFS embed.FS

// DefaultDemoDelay simulates upstream latency when no credential is set
const DefaultDemoDelay = time.Second

// demoResponses holds the canned fallback answers per provider. The first
// entry interpolates the user's message.
var demoResponses = map[types.Provider][2]string{
	types.ProviderOpenAI: {
		"\"%s\"에 대해 답변드리겠습니다.\n\n현재 데모 모드로 실행 중입니다.\n\n**API 키 설정 방법:**\n1. https://platform.openai.com/api-keys 에서 API 키 발급\n2. WORKLENS_OPENAI_API_KEY 환경 변수에 키 입력\n3. 서버 재시작",
		"좋은 질문이네요!\n\n실제 ChatGPT와 대화하려면 OpenAI API 키가 필요합니다.\n\nWORKLENS_OPENAI_API_KEY를 설정해주세요.",
	},
	types.ProviderClaude: {
		"\"%s\"에 대해 답변드리겠습니다.\n\n현재 데모 모드로 실행 중입니다.\n\n**API 키 설정 방법:**\n1. https://console.anthropic.com 에서 API 키 발급\n2. WORKLENS_ANTHROPIC_API_KEY 환경 변수에 키 입력\n3. 서버 재시작",
		"좋은 질문이네요!\n\n실제 Claude와 대화하려면 Anthropic API 키가 필요합니다.\n\nWORKLENS_ANTHROPIC_API_KEY를 설정해주세요.",
	},
}

// Service answers chat messages for one provider. A Service without an
// LLM client runs in demo mode and returns canned responses.
type Service struct {
	provider  types.Provider
	client    gollem.LLMClient
	demoDelay time.Duration
	pick      func(n int) int
}

// Option configures a Service
type Option func(*Service)

// WithClient attaches the upstream LLM client. A nil client keeps the
// service in demo mode.
func WithClient(client gollem.LLMClient) Option {
	return func(s *Service) {
		s.client = client
	}
}

// WithDemoDelay overrides the simulated latency of demo responses
func WithDemoDelay(d time.Duration) Option {
	return func(s *Service) {
		s.demoDelay = d
	}
}

// withPicker fixes demo response selection. Test use only.
func withPicker(pick func(n int) int) Option {
	return func(s *Service) {
		s.pick = pick
	}
}

// NewService creates a chat Service for the given provider
func NewService(provider types.Provider, opts ...Option) *Service {
	s := &Service{
		provider:  provider,
		demoDelay: DefaultDemoDelay,
		pick:      rand.Intn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider returns the provider this service answers for
func (s *Service) Provider() types.Provider {
	return s.provider
}

// IsDemo reports whether the service runs without an upstream credential
func (s *Service) IsDemo() bool {
	return s.client == nil
}

// Complete generates the assistant reply for the conversation so far.
// history must end with the user's latest message. Synthetic greeting
// messages are never forwarded upstream.
func (s *Service) Complete(ctx context.Context, history []*model.Message) (string, error) {
	if len(history) == 0 {
		return "", goerr.New("empty chat history")
	}
	last := history[len(history)-1]
	if last.Role != types.RoleUser {
		return "", goerr.New("chat history must end with a user message",
			goerr.V("role", last.Role))
	}

	if s.IsDemo() {
		return s.demoResponse(ctx, last.Content)
	}

	prompt, err := s.renderPrompt(history)
	if err != nil {
		return "", goerr.Wrap(err, "failed to render chat prompt",
			goerr.T(ErrTagTemplateFailure))
	}

	session, err := s.client.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session",
			goerr.V("provider", s.provider))
	}

	response, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate chat response",
			goerr.V("provider", s.provider))
	}
	if len(response.Texts) == 0 || response.Texts[0] == "" {
		return "", goerr.New("empty response from LLM",
			goerr.T(ErrTagEmptyResponse),
			goerr.V("provider", s.provider))
	}
	return response.Texts[0], nil
}

// demoResponse picks one of the two canned answers after a simulated delay
func (s *Service) demoResponse(ctx context.Context, userInput string) (string, error) {
	if s.demoDelay > 0 {
		timer := time.NewTimer(s.demoDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", goerr.Wrap(ctx.Err(), "chat canceled")
		case <-timer.C:
		}
	}

	responses := demoResponses[s.provider]
	if s.pick(len(responses)) == 0 {
		return fmt.Sprintf(responses[0], userInput), nil
	}
	return responses[1], nil
}

// promptMessage is one transcript line for template rendering
type promptMessage struct {
	Role    string
	Content string
}

func (s *Service) renderPrompt(history []*model.Message) (string, error) {
	messages := make([]promptMessage, 0, len(history))
	for _, msg := range history {
		if msg.Greeting || msg.Content == "" {
			continue
		}
		messages = append(messages, promptMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	templateContent, err := templateFS.ReadFile("templates/chat.md")
	if err != nil {
		return "", goerr.Wrap(err, "failed to read chat template")
	}

	tmpl, err := template.New("chat").Parse(string(templateContent))
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse chat template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Messages []promptMessage }{messages}); err != nil {
		return "", goerr.Wrap(err, "failed to execute chat template")
	}
	return buf.String(), nil
}
