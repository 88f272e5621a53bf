package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/randalmurphal/sculpt/provider"
)

// ErrMissingAPIKey is returned when a hosted endpoint is used without a key.
var ErrMissingAPIKey = errors.New("missing API key")

// Client implements provider.Client on the chat completions API.
type Client struct {
	name       string
	model      string
	apiKey     string
	requireKey bool
	c          *openai.Client
}

// Option configures a Client.
type Option func(*settings)

type settings struct {
	name       string
	model      string
	apiKey     string
	baseURL    string
	requireKey bool
	httpClient *http.Client
}

// WithName sets the provider name reported by the client.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithModel sets the model used when a request names none.
func WithModel(name string) Option {
	return func(s *settings) { s.model = name }
}

// WithAPIKey sets the bearer token.
func WithAPIKey(key string) Option {
	return func(s *settings) { s.apiKey = key }
}

// WithBaseURL points the client at a compatible server.
func WithBaseURL(url string) Option {
	return func(s *settings) { s.baseURL = url }
}

// WithRequireKey makes Stream fail before any network call when no key is
// set.
func WithRequireKey(require bool) Option {
	return func(s *settings) { s.requireKey = require }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

// NewClient creates a chat completions client.
func NewClient(opts ...Option) *Client {
	s := settings{name: OpenAIName}
	for _, opt := range opts {
		opt(&s)
	}

	cfg := openai.DefaultConfig(s.apiKey)
	if s.baseURL != "" {
		cfg.BaseURL = s.baseURL
	}
	if s.httpClient != nil {
		cfg.HTTPClient = s.httpClient
	}

	return &Client{
		name:       s.name,
		model:      s.model,
		apiKey:     s.apiKey,
		requireKey: s.requireKey,
		c:          openai.NewClientWithConfig(cfg),
	}
}

// Provider implements provider.Client.
func (c *Client) Provider() string { return c.name }

// Close implements provider.Client.
func (c *Client) Close() error { return nil }

// Stream implements provider.Client.
func (c *Client) Stream(ctx context.Context, req provider.Request) (<-chan provider.StreamChunk, error) {
	if c.requireKey && c.apiKey == "" {
		return nil, provider.NewError(c.name, "connect", provider.Classify(provider.ErrAuth, ErrMissingAPIKey), false)
	}

	stream, err := c.c.CreateChatCompletionStream(ctx, c.buildRequest(req))
	if err != nil {
		return nil, c.wrap("connect", err)
	}

	ch := make(chan provider.StreamChunk)
	go func() {
		defer close(ch)
		defer stream.Close()

		send := func(chunk provider.StreamChunk) bool {
			select {
			case ch <- chunk:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var tokens *int
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				send(provider.StreamChunk{Done: true, OutputTokens: tokens})
				return
			}
			if err != nil {
				send(provider.StreamChunk{Error: c.wrap("stream", err)})
				return
			}

			if resp.Usage != nil {
				tokens = provider.IntPtr(resp.Usage.CompletionTokens)
			}
			if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
				continue
			}
			if !send(provider.StreamChunk{Content: resp.Choices[0].Delta.Content, OutputTokens: tokens}) {
				return
			}
		}
	}()

	return ch, nil
}

func (c *Client) buildRequest(req provider.Request) openai.ChatCompletionRequest {
	name := req.Model
	if name == "" {
		name = c.model
	}

	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserContent(),
	})

	return openai.ChatCompletionRequest{
		Model:         name,
		Messages:      msgs,
		Stream:        true,
		StreamOptions: &openai.StreamOptions{IncludeUsage: true},
	}
}

// wrap classifies an SDK error into a provider.Error.
func (c *Client) wrap(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return provider.NewError(c.name, op, provider.Classify(provider.ErrTimeout, err), true)
	}
	if errors.Is(err, context.Canceled) {
		return provider.NewError(c.name, op, provider.Classify(provider.ErrStreamInterrupted, err), false)
	}

	code := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		code = reqErr.HTTPStatusCode
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return provider.NewError(c.name, op, provider.Classify(provider.ErrAuth, err), false)
	case code == http.StatusTooManyRequests:
		return provider.NewError(c.name, op, provider.Classify(provider.ErrRateLimited, err), true)
	case code >= 500:
		return provider.NewError(c.name, op, provider.Classify(provider.ErrStatus, err), true)
	case code >= 400:
		return provider.NewError(c.name, op, provider.Classify(provider.ErrStatus, fmt.Errorf("status %d: %w", code, err)), false)
	case op == "stream":
		return provider.NewError(c.name, op, provider.Classify(provider.ErrStreamInterrupted, err), false)
	default:
		return provider.NewError(c.name, op, provider.Classify(provider.ErrUnavailable, err), true)
	}
}
