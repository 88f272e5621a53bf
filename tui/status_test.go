package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	assert.Equal(t, "-", formatElapsed(time.Second, false))
	assert.Equal(t, "250ms", formatElapsed(250*time.Millisecond, true))
	assert.Equal(t, "2.00s", formatElapsed(2*time.Second, true))

	n := 50
	assert.Equal(t, "- tok", formatTokens(nil))
	assert.Equal(t, "50 tok", formatTokens(&n))

	r := 25.0
	assert.Equal(t, "- tok/s", formatRate(nil))
	assert.Equal(t, "25.0 tok/s", formatRate(&r))
}
