package openai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/randalmurphal/sculpt/openai"
	"github.com/randalmurphal/sculpt/provider"
)

func TestRegistration(t *testing.T) {
	for _, name := range []string{"openai", "ollama"} {
		t.Run(name, func(t *testing.T) {
			require.True(t, provider.IsRegistered(name))

			client, err := provider.New(provider.Config{Provider: name})
			require.NoError(t, err)
			defer client.Close()
			assert.Equal(t, name, client.Provider())
		})
	}
}
