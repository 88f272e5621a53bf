// Package openai streams sculpt requests to OpenAI-compatible chat
// completion endpoints.
//
// Two providers are registered: "openai" for the hosted API and "ollama" for
// a local Ollama server speaking the same protocol. Any other compatible
// server (vLLM, LocalAI, Groq) works through provider.Config.BaseURL.
//
//	client, err := provider.New(provider.Config{
//	    Provider: "ollama",
//	    Model:    "qwen2.5-coder",
//	})
//
// Streams request usage reporting, so the final chunk carries the completion
// token count when the server supports it.
package openai
