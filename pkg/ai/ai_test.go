package ai

import (
	"context"
	"testing"
	"time"
)

// stubClient returns canned results, optionally after a delay.
type stubClient struct {
	text  string
	err   error
	delay time.Duration

	gotHistory []Message
	gotContext string
}

func (s *stubClient) Explain(ctx context.Context, code, language string) (string, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.text, s.err
}

func (s *stubClient) Chat(ctx context.Context, history []Message, projectContext string) (string, error) {
	s.gotHistory = history
	s.gotContext = projectContext
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.text, s.err
}

func TestNewService_ProviderDispatch(t *testing.T) {
	cfg := testConfig()

	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if _, ok := svc.client.(*AnthropicClient); !ok {
		t.Errorf("client type = %T, want *AnthropicClient", svc.client)
	}
}

func TestNewService_UnsupportedProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Provider = "openai"

	_, err := NewService(cfg)
	if err == nil {
		t.Fatal("NewService() expected error for unknown provider, got nil")
	}
	if got := KindOf(err); got != KindConfiguration {
		t.Errorf("KindOf = %q, want %q", got, KindConfiguration)
	}
}

func TestNewService_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ModelConfig)
	}{
		{"empty api key", func(c *ModelConfig) { c.APIKey = "" }},
		{"zero max tokens", func(c *ModelConfig) { c.MaxTokens = 0 }},
		{"negative max tokens", func(c *ModelConfig) { c.MaxTokens = -5 }},
		{"temperature too high", func(c *ModelConfig) { c.Temperature = 1.5 }},
		{"temperature negative", func(c *ModelConfig) { c.Temperature = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			_, err := NewService(cfg)
			if err == nil {
				t.Fatal("NewService() expected error, got nil")
			}
			if got := KindOf(err); got != KindConfiguration {
				t.Errorf("KindOf = %q, want %q", got, KindConfiguration)
			}
		})
	}
}

func TestServiceExplain_Success(t *testing.T) {
	svc, err := NewService(testConfig(), WithClient(&stubClient{text: "This is a test explanation"}))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	got, err := svc.Explain(context.Background(), "test code", "go")
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if got != "This is a test explanation" {
		t.Errorf("Explain() = %q, want %q", got, "This is a test explanation")
	}
}

func TestServiceExplain_Timeout(t *testing.T) {
	svc, err := NewService(testConfig(), WithClient(&stubClient{text: "too late", delay: 200 * time.Millisecond}))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	svc.explainBound = 20 * time.Millisecond

	start := time.Now()
	_, err = svc.Explain(context.Background(), "test code", "go")
	if err == nil {
		t.Fatal("Explain() expected timeout error, got nil")
	}
	if got := KindOf(err); got != KindTimeout {
		t.Errorf("KindOf = %q, want %q", got, KindTimeout)
	}
	// The caller must get the timeout at the bound, not after the slow
	// call eventually finishes.
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("Explain() returned after %s, should resolve at the bound", elapsed)
	}
}

func TestServiceChat_SlowResultDiscarded(t *testing.T) {
	stub := &stubClient{text: "valid payload, arrived late", delay: 100 * time.Millisecond}
	svc, err := NewService(testConfig(), WithClient(stub))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	svc.chatBound = 10 * time.Millisecond

	_, err = svc.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "")
	if got := KindOf(err); got != KindTimeout {
		t.Fatalf("KindOf = %q, want %q", got, KindTimeout)
	}

	// Let the abandoned call finish; its result must never surface.
	time.Sleep(150 * time.Millisecond)
}

func TestServiceChat_PassesHistoryAndContext(t *testing.T) {
	stub := &stubClient{text: "reply"}
	svc, err := NewService(testConfig(), WithClient(stub))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	history := []Message{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "second"},
	}
	got, err := svc.Chat(context.Background(), history, "Current directory: /work")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if got != "reply" {
		t.Errorf("Chat() = %q, want %q", got, "reply")
	}
	if len(stub.gotHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(stub.gotHistory))
	}
	if stub.gotContext != "Current directory: /work" {
		t.Errorf("projectContext = %q, want %q", stub.gotContext, "Current directory: /work")
	}
}

func TestServiceChat_PropagatesClientError(t *testing.T) {
	svc, err := NewService(testConfig(), WithClient(&stubClient{err: &Error{Kind: KindRateLimited}}))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	_, err = svc.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "")
	if got := KindOf(err); got != KindRateLimited {
		t.Errorf("KindOf = %q, want %q", got, KindRateLimited)
	}
}

func TestServiceChat_ContextCancelled(t *testing.T) {
	svc, err := NewService(testConfig(), WithClient(&stubClient{text: "x", delay: 200 * time.Millisecond}))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.Chat(ctx, []Message{{Role: RoleUser, Content: "hi"}}, "")
	if err == nil {
		t.Fatal("Chat() expected error for cancelled context, got nil")
	}
	if got := KindOf(err); got != KindRequestFailed {
		t.Errorf("KindOf = %q, want %q", got, KindRequestFailed)
	}
}

func TestServiceDefaults(t *testing.T) {
	svc, err := NewService(testConfig())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if svc.explainBound != 30*time.Second {
		t.Errorf("explainBound = %s, want 30s", svc.explainBound)
	}
	if svc.chatBound != 60*time.Second {
		t.Errorf("chatBound = %s, want 60s", svc.chatBound)
	}
}
