package ai

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Call bounds enforced by the Service. Chat gets the longer bound because
// multi-turn context is costlier for the provider to process. These are
// deliberately constants rather than config fields.
const (
	explainTimeout = 30 * time.Second
	chatTimeout    = 60 * time.Second
)

// Role values used in conversation history. Providers may extend these with
// their own vocabulary during translation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a conversation. The order of messages in a
// history slice is the turn order presented to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ModelConfig selects and parameterizes the LLM backend. It is immutable
// after construction and owned by the Service for the session lifetime.
type ModelConfig struct {
	Provider    string  `yaml:"provider"`
	ModelName   string  `yaml:"model_name"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	APIBaseURL  string  `yaml:"api_base_url"`
}

// validate checks the precondition invariants the Service relies on. The
// configuration layer enforces these too; a violation here is a caller bug,
// not something to clamp silently.
func (c ModelConfig) validate() error {
	if c.APIKey == "" {
		return &Error{Kind: KindConfiguration, Detail: "API key is required"}
	}
	if c.MaxTokens <= 0 {
		return &Error{Kind: KindConfiguration, Detail: "max_tokens must be greater than 0"}
	}
	if c.Temperature < 0.0 || c.Temperature > 1.0 {
		return &Error{Kind: KindConfiguration, Detail: "temperature must be between 0.0 and 1.0"}
	}
	return nil
}

// Client is the contract every provider backend satisfies. Implementations
// perform network I/O only; they never mutate the caller's history.
type Client interface {
	// Explain issues a single-turn request asking the model to explain the
	// given code in the given language.
	Explain(ctx context.Context, code, language string) (string, error)

	// Chat issues a multi-turn request seeded with an optional
	// project-context string followed by the full ordered history, and
	// returns only the newest assistant reply. An empty projectContext
	// means no context.
	Chat(ctx context.Context, history []Message, projectContext string) (string, error)
}

// Service is the single entry point for AI calls. It hides provider
// selection behind ModelConfig.Provider and wraps every call with a fixed
// wall-clock bound. Exactly one Client is bound to a Service for its
// lifetime.
type Service struct {
	client Client
	cfg    ModelConfig
	log    *slog.Logger

	explainBound time.Duration
	chatBound    time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for call-level diagnostics.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// WithClient overrides the provider client selected from the config.
// Intended for tests.
func WithClient(c Client) ServiceOption {
	return func(s *Service) { s.client = c }
}

// NewService validates cfg and selects a provider client by cfg.Provider.
// An unrecognized provider tag is a configuration error; there is no
// fallback provider.
func NewService(cfg ModelConfig, opts ...ServiceOption) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Service{
		cfg:          cfg,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		explainBound: explainTimeout,
		chatBound:    chatTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		switch cfg.Provider {
		case "anthropic":
			s.client = NewAnthropicClient(cfg)
		default:
			return nil, &Error{Kind: KindConfiguration, Detail: "unsupported AI provider: " + cfg.Provider}
		}
	}

	return s, nil
}

// Explain asks the model to explain code, bounded to 30 seconds.
func (s *Service) Explain(ctx context.Context, code, language string) (string, error) {
	s.log.Debug("explain request",
		"language", language,
		"model", s.cfg.ModelName,
		"max_tokens", s.cfg.MaxTokens,
	)
	return s.await(ctx, s.explainBound, func(ctx context.Context) (string, error) {
		return s.client.Explain(ctx, code, language)
	})
}

// Chat sends the full conversation history, bounded to 60 seconds.
func (s *Service) Chat(ctx context.Context, history []Message, projectContext string) (string, error) {
	s.log.Debug("chat request", "turns", len(history), "model", s.cfg.ModelName)
	return s.await(ctx, s.chatBound, func(ctx context.Context) (string, error) {
		return s.client.Chat(ctx, history, projectContext)
	})
}

// await races fn against the deadline. When the deadline wins the caller
// gets a timeout error immediately; the in-flight call keeps running but
// its result goes to a buffered channel nobody reads. Cancellation of the
// underlying network operation is best-effort only.
func (s *Service) await(ctx context.Context, bound time.Duration, fn func(context.Context) (string, error)) (string, error) {
	type outcome struct {
		text string
		err  error
	}

	done := make(chan outcome, 1)
	go func() {
		text, err := fn(ctx)
		done <- outcome{text, err}
	}()

	timer := time.NewTimer(bound)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.text, out.err
	case <-timer.C:
		s.log.Warn("AI request abandoned", "bound", bound)
		return "", &Error{Kind: KindTimeout, Bound: bound}
	case <-ctx.Done():
		return "", &Error{Kind: KindRequestFailed, Detail: "request cancelled", Err: ctx.Err()}
	}
}
