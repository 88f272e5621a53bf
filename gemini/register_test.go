package gemini_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import gemini package to trigger init() registration
	_ "github.com/randalmurphal/sculpt/gemini"
	"github.com/randalmurphal/sculpt/provider"
)

func TestGeminiProviderRegistration(t *testing.T) {
	assert.True(t, provider.IsRegistered("gemini"), "gemini provider should be registered")
	assert.Contains(t, provider.Available(), "gemini")
}

func TestGeminiProviderNew(t *testing.T) {
	cfg := provider.Config{
		Provider: "gemini",
		Model:    "gemini-2.5-pro",
		APIKey:   "test-key",
	}

	client, err := provider.New(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	assert.Equal(t, "gemini", client.Provider())
}

func TestGeminiProviderWithoutKeyBuilds(t *testing.T) {
	client, err := provider.New(provider.Config{Provider: "gemini"})
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}
