// Package mock provides a scripted provider for tests and offline demos.
//
// The client replays a fixed list of chunks, optionally annotated with
// cumulative token counts, and can be told to fail at setup or after a number
// of chunks. Without a script it echoes the request state with the
// instruction appended as a trailing comment, streamed word by word.
//
//	client := mock.New(
//	    mock.WithChunks("Hel", "lo, ", "world"),
//	    mock.WithFinalTokens(3),
//	)
//
// The package registers itself as the "mock" provider.
package mock

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/randalmurphal/sculpt/provider"
	"github.com/randalmurphal/sculpt/tokens"
)

// Name is the registered provider name.
const Name = "mock"

// NoCount marks a chunk without a token count in WithTokenCounts.
const NoCount = -1

// ErrTransport is the default mid-stream failure.
var ErrTransport = errors.New("mock transport failure")

func init() {
	provider.Register(Name, func(cfg provider.Config) (provider.Client, error) {
		return New(WithEstimatedTokens(), WithDelay(40*time.Millisecond)), nil
	})
}

// Client is a scripted provider.Client.
type Client struct {
	mu sync.Mutex

	chunks      []string
	scripted    bool
	counts      []int
	finalTokens int
	estimate    bool

	setupErr  error
	failAfter int
	failErr   error

	delay time.Duration
	gate  <-chan struct{}

	// Calls records every request passed to Stream.
	Calls []provider.Request
}

// Option configures a Client.
type Option func(*Client)

// WithChunks sets the text deltas to replay.
func WithChunks(chunks ...string) Option {
	return func(c *Client) {
		c.chunks = chunks
		c.scripted = true
	}
}

// WithTokenCounts attaches a cumulative output-token count to each chunk by
// position. Use NoCount for chunks that carry none.
func WithTokenCounts(counts ...int) Option {
	return func(c *Client) { c.counts = counts }
}

// WithFinalTokens attaches a cumulative count to the final Done chunk.
func WithFinalTokens(n int) Option {
	return func(c *Client) { c.finalTokens = n }
}

// WithEstimatedTokens makes every chunk carry an estimated cumulative count
// derived from the text streamed so far.
func WithEstimatedTokens() Option {
	return func(c *Client) { c.estimate = true }
}

// WithStreamError makes Stream fail before any chunk is produced.
func WithStreamError(err error) Option {
	return func(c *Client) { c.setupErr = err }
}

// WithFailAfter makes the stream fail with err after n chunks have been
// sent. A nil err uses ErrTransport.
func WithFailAfter(n int, err error) Option {
	return func(c *Client) {
		if err == nil {
			err = ErrTransport
		}
		c.failAfter = n
		c.failErr = err
	}
}

// WithDelay waits d before each chunk.
func WithDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

// WithGate blocks the stream before its first chunk until gate is closed or
// receives a value.
func WithGate(gate <-chan struct{}) Option {
	return func(c *Client) { c.gate = gate }
}

// New creates a scripted client.
func New(opts ...Option) *Client {
	c := &Client{failAfter: -1, finalTokens: NoCount}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider implements provider.Client.
func (c *Client) Provider() string { return Name }

// Close implements provider.Client.
func (c *Client) Close() error { return nil }

// CallCount returns the number of Stream calls.
func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}

// LastCall returns the most recent request, or nil.
func (c *Client) LastCall() *provider.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Calls) == 0 {
		return nil
	}
	req := c.Calls[len(c.Calls)-1]
	return &req
}

// Stream implements provider.Client.
func (c *Client) Stream(ctx context.Context, req provider.Request) (<-chan provider.StreamChunk, error) {
	c.mu.Lock()
	c.Calls = append(c.Calls, req)
	setupErr := c.setupErr
	chunks := c.chunks
	if !c.scripted {
		chunks = echoScript(req)
	}
	c.mu.Unlock()

	if setupErr != nil {
		return nil, provider.NewError(Name, "connect", setupErr, false)
	}

	ch := make(chan provider.StreamChunk)
	go c.run(ctx, chunks, ch)
	return ch, nil
}

func (c *Client) run(ctx context.Context, chunks []string, ch chan<- provider.StreamChunk) {
	defer close(ch)

	send := func(chunk provider.StreamChunk) bool {
		select {
		case ch <- chunk:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(err error) {
		send(provider.StreamChunk{Error: provider.NewError(Name, "stream", err, false)})
	}

	if c.gate != nil {
		select {
		case <-ctx.Done():
			fail(provider.Classify(provider.ErrStreamInterrupted, ctx.Err()))
			return
		case <-c.gate:
		}
	}

	var tally tokens.Tally
	for i, text := range chunks {
		if i == c.failAfter {
			fail(provider.Classify(provider.ErrStreamInterrupted, c.failErr))
			return
		}
		if c.delay > 0 {
			select {
			case <-ctx.Done():
				fail(provider.Classify(provider.ErrStreamInterrupted, ctx.Err()))
				return
			case <-time.After(c.delay):
			}
		}

		chunk := provider.StreamChunk{Content: text}
		total := tally.Add(text)
		switch {
		case i < len(c.counts) && c.counts[i] != NoCount:
			chunk.OutputTokens = provider.IntPtr(c.counts[i])
		case c.estimate:
			chunk.OutputTokens = provider.IntPtr(total)
		}
		if !send(chunk) {
			return
		}
	}

	if c.failAfter >= len(chunks) {
		fail(provider.Classify(provider.ErrStreamInterrupted, c.failErr))
		return
	}

	done := provider.StreamChunk{Done: true}
	switch {
	case c.finalTokens != NoCount:
		done.OutputTokens = provider.IntPtr(c.finalTokens)
	case c.estimate:
		done.OutputTokens = provider.IntPtr(tally.Total())
	}
	send(done)
}

// echoScript is the unscripted reply: the state followed by the instruction
// as a comment, split after each space.
func echoScript(req provider.Request) []string {
	reply := req.State
	if reply != "" && !strings.HasSuffix(reply, "\n") {
		reply += "\n"
	}
	reply += "// " + req.Instruction

	return strings.SplitAfter(reply, " ")
}
