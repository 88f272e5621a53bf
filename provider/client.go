// Package provider defines the streaming contract every generative-text backend
// implements for sculpting.
//
// A sculpt is one round-trip: the current state buffer and a natural-language
// instruction go out in a single request, and the transformed state comes
// back as a stream of text deltas. Concrete backends (gemini, openai, mock)
// register themselves with the registry in this package so callers can pick
// one by name from a Config.
//
// # Usage
//
//	import (
//	    "github.com/randalmurphal/sculpt/provider"
//	    _ "github.com/randalmurphal/sculpt/providers" // register all backends
//	)
//
//	cfg := provider.Config{Provider: "gemini", APIKey: key}
//	client, err := provider.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	chunks, err := client.Stream(ctx, provider.NewSculptRequest(cfg, state, instruction))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for chunk := range chunks {
//	    if chunk.Error != nil {
//	        log.Fatal(chunk.Error)
//	    }
//	    fmt.Print(chunk.Content)
//	}
//
// # Errors
//
// Setup failures are returned by Stream directly. Failures after the stream
// has started arrive as a final chunk with Error set. Both are *Error values
// wrapping one of the sentinel errors, so errors.Is works across backends.
// Nothing in this package retries.
package provider

import "context"

// Client is the contract for a streaming sculpt backend.
// Implementations must be safe for concurrent use.
type Client interface {
	// Stream sends exactly one request and returns a channel of chunks.
	// The channel is forward-only and is closed after a chunk with Done or
	// Error set. Cancelling ctx aborts the underlying transfer.
	Stream(ctx context.Context, req Request) (<-chan StreamChunk, error)

	// Provider returns the registered provider name (e.g., "gemini").
	Provider() string

	// Close releases any resources held by the client.
	Close() error
}
