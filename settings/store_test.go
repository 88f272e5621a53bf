package settings

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/sculpt/provider"
)

func TestMemoryStore_Default(t *testing.T) {
	s := NewMemoryStore()
	assert.Equal(t, provider.DefaultConfig(), s.Get())
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	configs := []provider.Config{
		{Provider: "gemini", Model: "gemini-2.5-pro", APIKey: "k1"},
		{Provider: "openai", Model: "", APIKey: ""},
		{Provider: "ollama", Model: "llama3.2", BaseURL: "http://localhost:11434/v1"},
	}

	s := NewMemoryStore()
	for _, cfg := range configs {
		require.NoError(t, s.Set(cfg))
		assert.Equal(t, cfg, s.Get())
	}
}

func TestMemoryStore_GetIsSnapshot(t *testing.T) {
	s := NewMemoryStoreWith(provider.Config{Provider: "mock", Model: "a"})

	snap := s.Get()
	require.NoError(t, s.Set(provider.Config{Provider: "mock", Model: "b"}))

	assert.Equal(t, "a", snap.Model, "earlier Get result must not change")
	assert.Equal(t, "b", s.Get().Model)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set(provider.Config{Provider: "mock"})
		}()
		go func() {
			defer wg.Done()
			_ = s.Get()
		}()
	}
	wg.Wait()
	assert.Equal(t, "mock", s.Get().Provider)
}

func TestLayered(t *testing.T) {
	base := NewMemoryStoreWith(provider.Config{Provider: "gemini", Model: "gemini-2.5-flash"})
	s := Layered{Base: base, Apply: func(c provider.Config) provider.Config {
		c.APIKey = "from-env"
		return c
	}}

	assert.Equal(t, "from-env", s.Get().APIKey)
	assert.Empty(t, s.Saved().APIKey)
	assert.Empty(t, Saved(s).APIKey)

	require.NoError(t, s.Set(provider.Config{Provider: "openai"}))
	assert.Equal(t, provider.Config{Provider: "openai"}, base.Get())
	assert.Equal(t, provider.Config{Provider: "openai", APIKey: "from-env"}, s.Get())
}

func TestLayered_NilApply(t *testing.T) {
	base := NewMemoryStoreWith(provider.Config{Provider: "mock"})
	s := Layered{Base: base}

	assert.Equal(t, base.Get(), s.Get())
	assert.Equal(t, base.Get(), Saved(base))
}
