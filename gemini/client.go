package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	generativelanguage "cloud.google.com/go/ai/generativelanguage/apiv1beta"
	"cloud.google.com/go/ai/generativelanguage/apiv1beta/generativelanguagepb"
	"google.golang.org/api/option"

	"github.com/randalmurphal/sculpt/model"
	"github.com/randalmurphal/sculpt/provider"
)

// Name is the registered provider name.
const Name = "gemini"

// ErrMissingAPIKey is returned when a stream is attempted without a key.
var ErrMissingAPIKey = errors.New("missing API key")

// contentStream is the receive side of a server-streaming call.
type contentStream interface {
	Recv() (*generativelanguagepb.GenerateContentResponse, error)
}

// generator opens content streams. The gRPC client satisfies it through
// grpcGenerator; tests substitute a fake.
type generator interface {
	open(ctx context.Context, req *generativelanguagepb.GenerateContentRequest) (contentStream, error)
	Close() error
}

type grpcGenerator struct {
	client *generativelanguage.GenerativeClient
}

func (g grpcGenerator) open(ctx context.Context, req *generativelanguagepb.GenerateContentRequest) (contentStream, error) {
	return g.client.StreamGenerateContent(ctx, req)
}

func (g grpcGenerator) Close() error {
	return g.client.Close()
}

// Client implements provider.Client for the Gemini API.
type Client struct {
	apiKey  string
	model   string
	options []option.ClientOption

	mu  sync.Mutex
	gen generator
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the key used to authenticate.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithModel sets the default model used when a request names none.
func WithModel(name string) Option {
	return func(c *Client) { c.model = name }
}

// WithClientOptions appends extra options for the underlying gRPC client,
// such as an endpoint override.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *Client) { c.options = append(c.options, opts...) }
}

// withGenerator replaces the gRPC client.
func withGenerator(g generator) Option {
	return func(c *Client) { c.gen = g }
}

// NewClient creates a Gemini client. No connection is made until Stream.
func NewClient(opts ...Option) *Client {
	c := &Client{model: model.Default(Name)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider implements provider.Client.
func (c *Client) Provider() string { return Name }

// Close releases the gRPC connection if one was opened.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen == nil {
		return nil
	}
	err := c.gen.Close()
	c.gen = nil
	return err
}

func (c *Client) connect(ctx context.Context) (generator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != nil {
		return c.gen, nil
	}
	if c.apiKey == "" {
		return nil, provider.NewError(Name, "connect", provider.Classify(provider.ErrAuth, ErrMissingAPIKey), false)
	}

	opts := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.options...)
	client, err := generativelanguage.NewGenerativeClient(ctx, opts...)
	if err != nil {
		return nil, provider.NewError(Name, "connect", provider.Classify(provider.ErrUnavailable, err), true)
	}
	c.gen = grpcGenerator{client: client}
	return c.gen, nil
}

// Stream implements provider.Client.
func (c *Client) Stream(ctx context.Context, req provider.Request) (<-chan provider.StreamChunk, error) {
	gen, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	stream, err := gen.open(ctx, c.buildRequest(req))
	if err != nil {
		return nil, wrap("connect", err)
	}

	ch := make(chan provider.StreamChunk)
	go func() {
		defer close(ch)

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
			if err == io.EOF {
				send(provider.StreamChunk{Done: true, OutputTokens: tokens})
				return
			}
			if err != nil {
				send(provider.StreamChunk{Error: wrap("stream", err)})
				return
			}

			if usage := resp.GetUsageMetadata(); usage != nil && usage.CandidatesTokenCount > 0 {
				tokens = provider.IntPtr(int(usage.CandidatesTokenCount))
			}

			text := responseText(resp)
			if text == "" && tokens == nil {
				continue
			}
			if !send(provider.StreamChunk{Content: text, OutputTokens: tokens}) {
				return
			}
		}
	}()

	return ch, nil
}

func (c *Client) buildRequest(req provider.Request) *generativelanguagepb.GenerateContentRequest {
	name := req.Model
	if name == "" {
		name = c.model
	}
	budget := model.ThinkingFor(name).Budget()

	pb := &generativelanguagepb.GenerateContentRequest{
		Model: modelResource(name),
		Contents: []*generativelanguagepb.Content{
			{
				Role: "user",
				Parts: []*generativelanguagepb.Part{
					{Data: &generativelanguagepb.Part_Text{Text: req.UserContent()}},
				},
			},
		},
		GenerationConfig: &generativelanguagepb.GenerationConfig{
			ThinkingConfig: &generativelanguagepb.ThinkingConfig{
				ThinkingBudget: &budget,
			},
		},
	}
	if req.SystemPrompt != "" {
		pb.SystemInstruction = &generativelanguagepb.Content{
			Parts: []*generativelanguagepb.Part{
				{Data: &generativelanguagepb.Part_Text{Text: req.SystemPrompt}},
			},
		}
	}
	return pb
}

// modelResource qualifies a bare model name as the API expects.
func modelResource(name string) string {
	if strings.HasPrefix(name, "models/") || strings.HasPrefix(name, "tunedModels/") {
		return name
	}
	return fmt.Sprintf("models/%s", name)
}

// responseText concatenates the answer text of the first candidate,
// skipping thought parts.
func responseText(resp *generativelanguagepb.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Thought {
			continue
		}
		if text, ok := part.Data.(*generativelanguagepb.Part_Text); ok {
			b.WriteString(text.Text)
		}
	}
	return b.String()
}
