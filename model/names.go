package model

import "slices"

// DefaultProvider is the provider used when no settings have been saved.
const DefaultProvider = "gemini"

// catalog lists known models per provider. The first entry of each list is
// not necessarily the default; see defaults.
var catalog = map[string][]string{
	"gemini": {
		"gemini-3-pro-preview",
		"gemini-3-flash-preview",
		"gemini-2.5-pro",
		"gemini-2.5-flash",
		"gemini-2.5-flash-lite",
	},
	"openai": {
		"gpt-4o-mini",
		"gpt-4o",
		"gpt-4.1",
		"gpt-4.1-mini",
	},
	"ollama": {
		"llama3.2",
		"qwen2.5-coder",
	},
	"mock": {
		"mock-sculptor",
	},
}

var defaults = map[string]string{
	"gemini": "gemini-2.5-flash",
	"openai": "gpt-4o-mini",
	"ollama": "llama3.2",
	"mock":   "mock-sculptor",
}

// Default returns the default model for provider, or "" if the provider is
// not in the catalog.
func Default(provider string) string {
	return defaults[provider]
}

// Known returns the catalogued models for provider. The returned slice is a
// copy and may be modified by the caller.
func Known(provider string) []string {
	return slices.Clone(catalog[provider])
}

// IsKnown reports whether name is catalogued for provider.
func IsKnown(provider, name string) bool {
	return slices.Contains(catalog[provider], name)
}

// Providers returns the catalogued provider names in sorted order.
func Providers() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
