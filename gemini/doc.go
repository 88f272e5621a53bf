// Package gemini streams sculpt requests to the Gemini API over gRPC.
//
// The client uses the generativelanguage v1beta service with API-key
// authentication. The gRPC connection is opened lazily on the first Stream
// call and reused afterwards, so a client built from settings with no key
// only fails when a sculpt is attempted.
//
// # Provider Registry Usage
//
//	import (
//	    "github.com/randalmurphal/sculpt/provider"
//	    _ "github.com/randalmurphal/sculpt/gemini" // Register provider
//	)
//
//	client, err := provider.New(provider.Config{
//	    Provider: "gemini",
//	    Model:    "gemini-2.5-flash",
//	    APIKey:   os.Getenv("GEMINI_API_KEY"),
//	})
//
// # Thinking
//
// Every request carries a thinking budget chosen from the model name with
// model.ThinkingFor. Thought parts in the reply are dropped; only answer
// text reaches the stream.
//
// # Token Counts
//
// Usage metadata arrives on stream responses as a running total. Each chunk
// carries the latest candidates token count when the response included one.
package gemini
