package gemini

import (
	"context"
	"errors"
	"io"
	"testing"

	"cloud.google.com/go/ai/generativelanguage/apiv1beta/generativelanguagepb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/randalmurphal/sculpt/provider"
)

type fakeStream struct {
	responses []*generativelanguagepb.GenerateContentResponse
	err       error
	i         int
}

func (s *fakeStream) Recv() (*generativelanguagepb.GenerateContentResponse, error) {
	if s.i < len(s.responses) {
		resp := s.responses[s.i]
		s.i++
		return resp, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, io.EOF
}

type fakeGenerator struct {
	stream  *fakeStream
	openErr error
	reqs    []*generativelanguagepb.GenerateContentRequest
	closed  bool
}

func (g *fakeGenerator) open(_ context.Context, req *generativelanguagepb.GenerateContentRequest) (contentStream, error) {
	g.reqs = append(g.reqs, req)
	if g.openErr != nil {
		return nil, g.openErr
	}
	return g.stream, nil
}

func (g *fakeGenerator) Close() error {
	g.closed = true
	return nil
}

func textResponse(text string, tokens int32, thought bool) *generativelanguagepb.GenerateContentResponse {
	resp := &generativelanguagepb.GenerateContentResponse{
		Candidates: []*generativelanguagepb.Candidate{{
			Content: &generativelanguagepb.Content{
				Role: "model",
				Parts: []*generativelanguagepb.Part{{
					Data:    &generativelanguagepb.Part_Text{Text: text},
					Thought: thought,
				}},
			},
		}},
	}
	if tokens > 0 {
		resp.UsageMetadata = &generativelanguagepb.GenerateContentResponse_UsageMetadata{
			CandidatesTokenCount: tokens,
		}
	}
	return resp
}

func collect(t *testing.T, ch <-chan provider.StreamChunk) []provider.StreamChunk {
	t.Helper()
	var chunks []provider.StreamChunk
	for chunk := range ch {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestStream_TextAndTokens(t *testing.T) {
	gen := &fakeGenerator{stream: &fakeStream{responses: []*generativelanguagepb.GenerateContentResponse{
		textResponse("thinking...", 0, true),
		textResponse("Hel", 1, false),
		textResponse("lo", 2, false),
	}}}
	client := NewClient(withGenerator(gen))

	req := provider.NewSculptRequest(provider.Config{Provider: Name, Model: "gemini-2.5-flash"}, "x", "say hello")
	ch, err := client.Stream(context.Background(), req)
	require.NoError(t, err)

	chunks := collect(t, ch)
	require.Len(t, chunks, 3)
	assert.Equal(t, "Hel", chunks[0].Content)
	require.NotNil(t, chunks[0].OutputTokens)
	assert.Equal(t, 1, *chunks[0].OutputTokens)
	assert.Equal(t, "lo", chunks[1].Content)
	assert.True(t, chunks[2].Done)
	require.NotNil(t, chunks[2].OutputTokens)
	assert.Equal(t, 2, *chunks[2].OutputTokens)
}

func TestStream_RequestShape(t *testing.T) {
	gen := &fakeGenerator{stream: &fakeStream{}}
	client := NewClient(withGenerator(gen))

	req := provider.NewSculptRequest(provider.Config{Provider: Name, Model: "gemini-3-pro-preview"}, "a = 1", "double it")
	ch, err := client.Stream(context.Background(), req)
	require.NoError(t, err)
	collect(t, ch)

	require.Len(t, gen.reqs, 1)
	pb := gen.reqs[0]
	assert.Equal(t, "models/gemini-3-pro-preview", pb.Model)
	require.Len(t, pb.Contents, 1)
	text := pb.Contents[0].Parts[0].Data.(*generativelanguagepb.Part_Text).Text
	assert.Equal(t, "Current State:\na = 1\n\nInstruction: double it", text)
	sys := pb.SystemInstruction.Parts[0].Data.(*generativelanguagepb.Part_Text).Text
	assert.Equal(t, provider.SystemDirective, sys)
	require.NotNil(t, pb.GenerationConfig.ThinkingConfig.ThinkingBudget)
	assert.Equal(t, int32(1024), *pb.GenerationConfig.ThinkingConfig.ThinkingBudget)
}

func TestStream_DefaultModel(t *testing.T) {
	gen := &fakeGenerator{stream: &fakeStream{}}
	client := NewClient(withGenerator(gen), WithModel("gemini-2.5-flash-lite"))

	ch, err := client.Stream(context.Background(), provider.Request{State: "s", Instruction: "i"})
	require.NoError(t, err)
	collect(t, ch)

	assert.Equal(t, "models/gemini-2.5-flash-lite", gen.reqs[0].Model)
	assert.Nil(t, gen.reqs[0].SystemInstruction)
	assert.Equal(t, int32(0), *gen.reqs[0].GenerationConfig.ThinkingConfig.ThinkingBudget)
}

func TestStream_MissingAPIKey(t *testing.T) {
	client := NewClient()

	_, err := client.Stream(context.Background(), provider.Request{State: "s", Instruction: "i"})
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrAuth)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestStream_OpenError(t *testing.T) {
	gen := &fakeGenerator{openErr: status.Error(codes.Unauthenticated, "bad key")}
	client := NewClient(withGenerator(gen))

	_, err := client.Stream(context.Background(), provider.Request{State: "s", Instruction: "i"})
	require.Error(t, err)
	assert.True(t, provider.IsAuthError(err))

	var provErr *provider.Error
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, "connect", provErr.Op)
}

func TestStream_MidStreamError(t *testing.T) {
	gen := &fakeGenerator{stream: &fakeStream{
		responses: []*generativelanguagepb.GenerateContentResponse{textResponse("partial", 0, false)},
		err:       status.Error(codes.Unavailable, "connection reset"),
	}}
	client := NewClient(withGenerator(gen))

	ch, err := client.Stream(context.Background(), provider.Request{State: "s", Instruction: "i"})
	require.NoError(t, err)

	chunks := collect(t, ch)
	require.Len(t, chunks, 2)
	assert.Equal(t, "partial", chunks[0].Content)
	require.Error(t, chunks[1].Error)
	assert.ErrorIs(t, chunks[1].Error, provider.ErrUnavailable)
	assert.False(t, chunks[1].Done)
}

func TestClose(t *testing.T) {
	gen := &fakeGenerator{}
	client := NewClient(withGenerator(gen))

	require.NoError(t, client.Close())
	assert.True(t, gen.closed)
	require.NoError(t, client.Close())
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		sentinel  error
		retryable bool
	}{
		{"unauthenticated", status.Error(codes.Unauthenticated, "x"), provider.ErrAuth, false},
		{"permission denied", status.Error(codes.PermissionDenied, "x"), provider.ErrAuth, false},
		{"exhausted", status.Error(codes.ResourceExhausted, "x"), provider.ErrRateLimited, true},
		{"unavailable", status.Error(codes.Unavailable, "x"), provider.ErrUnavailable, true},
		{"deadline code", status.Error(codes.DeadlineExceeded, "x"), provider.ErrTimeout, true},
		{"invalid argument", status.Error(codes.InvalidArgument, "x"), provider.ErrInvalidRequest, false},
		{"internal", status.Error(codes.Internal, "x"), provider.ErrStatus, false},
		{"context deadline", context.DeadlineExceeded, provider.ErrTimeout, true},
		{"context canceled", context.Canceled, provider.ErrStreamInterrupted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrap("stream", tt.err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.retryable, provider.IsRetryable(err))
		})
	}
}

func TestModelResource(t *testing.T) {
	assert.Equal(t, "models/gemini-2.5-pro", modelResource("gemini-2.5-pro"))
	assert.Equal(t, "models/gemini-2.5-pro", modelResource("models/gemini-2.5-pro"))
	assert.Equal(t, "tunedModels/mine", modelResource("tunedModels/mine"))
}
