package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := MustNew(reg)
	second := MustNew(reg)

	first.Dropped(DropBusy)
	second.Dropped(DropBusy)

	assert.Equal(t, 2.0, testutil.ToFloat64(first.dropped.WithLabelValues(DropBusy)))
}

func TestSucceeded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNew(reg)

	tokens := 50
	rate := 25.0
	m.Started()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))

	m.Succeeded("mock", 2*time.Second, &tokens, &rate)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sculpts.WithLabelValues("mock", OutcomeSuccess)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.outputTokens))
	assert.Equal(t, 1, testutil.CollectAndCount(m.throughput))
}

func TestSucceeded_WithoutTokens(t *testing.T) {
	m := MustNew(prometheus.NewRegistry())

	m.Started()
	m.Succeeded("gemini", time.Second, nil, nil)

	assert.Equal(t, 0, testutil.CollectAndCount(m.outputTokens))
	assert.Equal(t, 0, testutil.CollectAndCount(m.throughput))
}

func TestFailed(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNew(reg)

	m.Started()
	m.Failed("openai")

	expected := `
# HELP sculpt_requests_total Sculpt calls that reached a provider, by outcome.
# TYPE sculpt_requests_total counter
sculpt_requests_total{outcome="failure",provider="openai"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "sculpt_requests_total"))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Started()
		m.Succeeded("p", time.Second, nil, nil)
		m.Failed("p")
		m.Dropped(DropBlank)
	})
}
