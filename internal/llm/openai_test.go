package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// mockChatService implements ChatService for testing
type mockChatService struct {
	response *openai.ChatCompletion
	err      error
	// Track calls for verification
	callCount  int
	lastParams openai.ChatCompletionNewParams
}

func (m *mockChatService) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	m.callCount++
	m.lastParams = params
	return m.response, m.err
}

func chatResponse(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestComplete(t *testing.T) {
	mock := &mockChatService{response: chatResponse("Hello from the model")}
	o := &OpenAI{chat: mock, model: "gpt-4o"}

	got, err := o.Complete(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello from the model" {
		t.Errorf("Complete() = %q", got)
	}
	if mock.callCount != 1 {
		t.Errorf("expected 1 API call, got %d", mock.callCount)
	}
	if msgs := mock.lastParams.Messages.Value; len(msgs) != 2 {
		t.Errorf("expected system + user messages, got %d", len(msgs))
	}
	if mock.lastParams.ResponseFormat.Value != nil {
		t.Error("plain Complete must not set a response format")
	}
}

func TestCompleteNoSystemMessage(t *testing.T) {
	mock := &mockChatService{response: chatResponse("ok")}
	o := &OpenAI{chat: mock, model: "gpt-4o"}

	if _, err := o.Complete(context.Background(), "", "user text"); err != nil {
		t.Fatal(err)
	}
	if msgs := mock.lastParams.Messages.Value; len(msgs) != 1 {
		t.Errorf("expected only the user message, got %d", len(msgs))
	}
}

func TestCompleteJSONSetsResponseFormat(t *testing.T) {
	mock := &mockChatService{response: chatResponse(`{"ok": true}`)}
	o := &OpenAI{chat: mock, model: "gpt-4o"}

	got, err := o.CompleteJSON(context.Background(), "system", "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"ok": true}` {
		t.Errorf("CompleteJSON() = %q", got)
	}
	if mock.lastParams.ResponseFormat.Value == nil {
		t.Error("CompleteJSON must enforce the JSON response format")
	}
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name string
		mock *mockChatService
	}{
		{"api error", &mockChatService{err: errors.New("rate limited")}},
		{"no choices", &mockChatService{response: &openai.ChatCompletion{}}},
		{"empty content", &mockChatService{response: chatResponse("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &OpenAI{chat: tt.mock, model: "gpt-4o"}
			_, err := o.Complete(context.Background(), "s", "p")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "completion failed") {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestCompleteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := &OpenAI{chat: &mockChatService{response: chatResponse("never")}, model: "gpt-4o"}
	if _, err := o.Complete(ctx, "s", "p"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestModelName(t *testing.T) {
	o := &OpenAI{model: "gpt-4o-mini"}
	if o.ModelName() != "gpt-4o-mini" {
		t.Errorf("ModelName() = %q", o.ModelName())
	}
}
