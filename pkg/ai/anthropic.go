package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/monk-manager/monk/pkg/prompt"
)

const (
	defaultAnthropicURL     = "https://api.anthropic.com/v1/messages"
	defaultAnthropicVersion = "2023-06-01"

	// Socket-level bound on a single HTTP exchange. Independent of the
	// Service's own call bounds so a hung socket cannot block forever even
	// when the outer timeout is misconfigured.
	anthropicHTTPTimeout = 60 * time.Second
)

// AnthropicOption configures an AnthropicClient.
type AnthropicOption func(*AnthropicClient)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) AnthropicOption {
	return func(a *AnthropicClient) { a.httpClient = c }
}

// WithBaseURL overrides the Anthropic messages endpoint URL.
func WithBaseURL(url string) AnthropicOption {
	return func(a *AnthropicClient) { a.baseURL = url }
}

// AnthropicClient implements Client for the Anthropic Messages API.
type AnthropicClient struct {
	cfg        ModelConfig
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicClient creates a client for the Anthropic Messages API. The
// config's APIBaseURL, when set, takes the place of the public endpoint.
func NewAnthropicClient(cfg ModelConfig, opts ...AnthropicOption) *AnthropicClient {
	a := &AnthropicClient{
		cfg:        cfg,
		baseURL:    defaultAnthropicURL,
		httpClient: &http.Client{Timeout: anthropicHTTPTimeout},
	}
	if cfg.APIBaseURL != "" {
		a.baseURL = cfg.APIBaseURL
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// anthropicRequest is the Anthropic Messages API request body.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse is the subset of the response body this client consumes.
// The first content block is authoritative.
type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

type anthropicContentBlock struct {
	Text string `json:"text"`
}

// Explain builds the instructional prompt and issues a single-turn request.
func (a *AnthropicClient) Explain(ctx context.Context, code, language string) (string, error) {
	p, err := prompt.Explain(code, language)
	if err != nil {
		return "", &Error{Kind: KindRequestFailed, Detail: err.Error(), Err: err}
	}

	return a.send(ctx, prompt.System(""), []anthropicMessage{
		{Role: RoleUser, Content: p},
	})
}

// Chat translates the conversation history into the Anthropic role
// vocabulary and issues a multi-turn request. The history itself is never
// modified.
func (a *AnthropicClient) Chat(ctx context.Context, history []Message, projectContext string) (string, error) {
	msgs := make([]anthropicMessage, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, anthropicMessage{Role: m.Role, Content: m.Content})
	}

	return a.send(ctx, prompt.System(projectContext), msgs)
}

// send performs one request/response exchange and returns the text of the
// first content block. Any non-success status is fatal for this call.
func (a *AnthropicClient) send(ctx context.Context, system string, msgs []anthropicMessage) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:       a.cfg.ModelName,
		MaxTokens:   a.cfg.MaxTokens,
		System:      system,
		Messages:    msgs,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return "", &Error{Kind: KindRequestFailed, Detail: "encoding request body: " + err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindRequestFailed, Detail: "creating HTTP request: " + err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", a.cfg.APIKey)
	req.Header.Set("Anthropic-Version", defaultAnthropicVersion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", errFromTransport(err, anthropicHTTPTimeout)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		detail := "unknown error"
		if err == nil && len(respBody) > 0 {
			detail = string(respBody)
		}
		return "", errFromStatus(resp.StatusCode, detail)
	}
	if err != nil {
		return "", &Error{Kind: KindRequestFailed, Detail: "reading response body: " + err.Error(), Err: err}
	}

	var ar anthropicResponse
	if err := json.Unmarshal(respBody, &ar); err != nil {
		return "", &Error{Kind: KindInvalidResponse, Detail: "parsing response: " + err.Error(), Err: err}
	}
	if len(ar.Content) == 0 {
		return "", &Error{Kind: KindInvalidResponse, Detail: "empty content in response"}
	}

	// Multi-part responses beyond the first block are discarded.
	return ar.Content[0].Text, nil
}
