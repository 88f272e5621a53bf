package providers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/sculpt/model"
	"github.com/randalmurphal/sculpt/provider"
	_ "github.com/randalmurphal/sculpt/providers"
)

func TestAllCataloguedProvidersRegistered(t *testing.T) {
	for _, name := range model.Providers() {
		assert.True(t, provider.IsRegistered(name), "provider %q not registered", name)
	}
	assert.Equal(t, model.Providers(), provider.Available())
}
