package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
)

func userMsg(conv types.ConversationID, content string) *model.Message {
	return model.NewMessage(conv, types.ProviderOpenAI, types.RoleUser, content)
}

func assistantMsg(conv types.ConversationID, content string) *model.Message {
	return model.NewMessage(conv, types.ProviderOpenAI, types.RoleAssistant, content)
}

func TestCompleteWithClient(t *testing.T) {
	var captured string
	mockClient := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					text, ok := input[0].(gollem.Text)
					gt.True(t, ok)
					captured = string(text)
					return &gollem.Response{Texts: []string{"3월 가동율은 75%입니다."}}, nil
				},
			}, nil
		},
	}

	svc := NewService(types.ProviderOpenAI, WithClient(mockClient))
	gt.False(t, svc.IsDemo())

	conv := types.NewConversationID()
	history := []*model.Message{
		userMsg(conv, "3월 가동율 알려줘"),
		assistantMsg(conv, "조회해보겠습니다."),
		userMsg(conv, "정확한 수치로 부탁해"),
	}

	reply, err := svc.Complete(context.Background(), history)
	gt.NoError(t, err)
	gt.Equal(t, reply, "3월 가동율은 75%입니다.")

	// The full transcript is rendered into the prompt in order
	gt.True(t, strings.Contains(captured, "3월 가동율 알려줘"))
	gt.True(t, strings.Contains(captured, "조회해보겠습니다."))
	gt.True(t, strings.Contains(captured, "정확한 수치로 부탁해"))
	gt.True(t, strings.Index(captured, "3월 가동율 알려줘") < strings.Index(captured, "정확한 수치로 부탁해"))
}

func TestCompleteSkipsGreeting(t *testing.T) {
	var captured string
	mockClient := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					captured = string(input[0].(gollem.Text))
					return &gollem.Response{Texts: []string{"ok"}}, nil
				},
			}, nil
		},
	}

	svc := NewService(types.ProviderClaude, WithClient(mockClient))

	conv := types.NewConversationID()
	greeting := model.NewMessage(conv, types.ProviderClaude, types.RoleAssistant, "안녕하세요! 무엇을 도와드릴까요?")
	greeting.Greeting = true

	_, err := svc.Complete(context.Background(), []*model.Message{
		greeting,
		userMsg(conv, "hello"),
	})
	gt.NoError(t, err)
	gt.False(t, strings.Contains(captured, "무엇을 도와드릴까요"))
	gt.True(t, strings.Contains(captured, "hello"))
}

func TestCompleteEmptyResponse(t *testing.T) {
	mockClient := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{}, nil
				},
			}, nil
		},
	}

	svc := NewService(types.ProviderOpenAI, WithClient(mockClient))
	_, err := svc.Complete(context.Background(), []*model.Message{
		userMsg(types.NewConversationID(), "hi"),
	})
	gt.Error(t, err)
}

func TestCompleteRequiresUserTail(t *testing.T) {
	svc := NewService(types.ProviderOpenAI, WithDemoDelay(0))
	conv := types.NewConversationID()

	_, err := svc.Complete(context.Background(), nil)
	gt.Error(t, err)

	_, err = svc.Complete(context.Background(), []*model.Message{assistantMsg(conv, "hi")})
	gt.Error(t, err)
}

func TestDemoMode(t *testing.T) {
	conv := types.NewConversationID()

	t.Run("interpolates user input", func(t *testing.T) {
		svc := NewService(types.ProviderOpenAI,
			WithDemoDelay(0),
			withPicker(func(n int) int { return 0 }),
		)
		gt.True(t, svc.IsDemo())

		reply, err := svc.Complete(context.Background(), []*model.Message{userMsg(conv, "가동율?")})
		gt.NoError(t, err)
		gt.True(t, strings.Contains(reply, `"가동율?"`))
		gt.True(t, strings.Contains(reply, "데모 모드"))
	})

	t.Run("second canned answer", func(t *testing.T) {
		svc := NewService(types.ProviderClaude,
			WithDemoDelay(0),
			withPicker(func(n int) int { return 1 }),
		)

		reply, err := svc.Complete(context.Background(), []*model.Message{userMsg(conv, "anything")})
		gt.NoError(t, err)
		gt.True(t, strings.Contains(reply, "Anthropic API 키가 필요합니다"))
	})

	t.Run("delay honors cancellation", func(t *testing.T) {
		svc := NewService(types.ProviderOpenAI, WithDemoDelay(DefaultDemoDelay))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Complete(ctx, []*model.Message{userMsg(conv, "hi")})
		gt.Error(t, err)
	})
}
