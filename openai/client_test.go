package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/sculpt/provider"
)

// sseServer replays events as a chat completions stream and records the
// decoded request body.
func sseServer(t *testing.T, events []string, got *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, ev := range events {
			fmt.Fprintf(w, "data: %s\n\n", ev)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func delta(text string) string {
	return fmt.Sprintf(`{"id":"1","object":"chat.completion.chunk","model":"m","choices":[{"index":0,"delta":{"content":%q}}]}`, text)
}

func usage(completion int) string {
	return fmt.Sprintf(`{"id":"1","object":"chat.completion.chunk","model":"m","choices":[],"usage":{"prompt_tokens":5,"completion_tokens":%d,"total_tokens":%d}}`, completion, completion+5)
}

func collect(ch <-chan provider.StreamChunk) []provider.StreamChunk {
	var chunks []provider.StreamChunk
	for chunk := range ch {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestStream_Deltas(t *testing.T) {
	var body map[string]any
	srv := sseServer(t, []string{delta("Hel"), delta("lo"), usage(2)}, &body)

	client := NewClient(WithBaseURL(srv.URL), WithModel("gpt-4o-mini"), WithAPIKey("k"))
	req := provider.NewSculptRequest(provider.Config{Provider: OpenAIName}, "x = 1", "rename x")

	ch, err := client.Stream(context.Background(), req)
	require.NoError(t, err)
	chunks := collect(ch)

	require.Len(t, chunks, 3)
	assert.Equal(t, "Hel", chunks[0].Content)
	assert.Nil(t, chunks[0].OutputTokens)
	assert.Equal(t, "lo", chunks[1].Content)
	assert.True(t, chunks[2].Done)
	require.NotNil(t, chunks[2].OutputTokens)
	assert.Equal(t, 2, *chunks[2].OutputTokens)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Equal(t, true, body["stream"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, provider.SystemDirective, msgs[0].(map[string]any)["content"])
	assert.Equal(t, "Current State:\nx = 1\n\nInstruction: rename x", msgs[1].(map[string]any)["content"])
	opts, ok := body["stream_options"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, opts["include_usage"])
}

func TestStream_RequestModelWins(t *testing.T) {
	var body map[string]any
	srv := sseServer(t, nil, &body)

	client := NewClient(WithBaseURL(srv.URL), WithModel("fallback"))
	ch, err := client.Stream(context.Background(), provider.Request{Model: "chosen", State: "s", Instruction: "i"})
	require.NoError(t, err)
	collect(ch)

	assert.Equal(t, "chosen", body["model"])
	msgs := body["messages"].([]any)
	assert.Len(t, msgs, 1)
}

func TestStream_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, provider.ErrAuth},
		{"forbidden", http.StatusForbidden, provider.ErrAuth},
		{"rate limited", http.StatusTooManyRequests, provider.ErrRateLimited},
		{"server error", http.StatusBadGateway, provider.ErrStatus},
		{"bad request", http.StatusBadRequest, provider.ErrStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"error":{"message":"nope","type":"x"}}`)
			}))
			defer srv.Close()

			client := NewClient(WithBaseURL(srv.URL), WithAPIKey("k"))
			_, err := client.Stream(context.Background(), provider.Request{State: "s", Instruction: "i"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestStream_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(WithBaseURL(url))
	_, err := client.Stream(context.Background(), provider.Request{State: "s", Instruction: "i"})
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrUnavailable)
}

func TestStream_MissingKey(t *testing.T) {
	client := NewClient(WithRequireKey(true))
	_, err := client.Stream(context.Background(), provider.Request{State: "s", Instruction: "i"})
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrAuth)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
