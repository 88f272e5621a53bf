// Package metrics exposes Prometheus collectors that report sculpt activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Sculpt outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Reasons a sculpt trigger is dropped without running.
const (
	DropBusy  = "busy"
	DropBlank = "blank"
)

// Metrics holds the sculpt collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	sculpts      *prometheus.CounterVec
	dropped      *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	outputTokens *prometheus.HistogramVec
	throughput   *prometheus.HistogramVec
	inFlight     prometheus.Gauge
}

// MustNew constructs Metrics on reg. Collectors already registered on reg
// are reused; any other registration error panics.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	sculpts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sculpt",
			Name:      "requests_total",
			Help:      "Sculpt calls that reached a provider, by outcome.",
		},
		[]string{"provider", "outcome"},
	)
	dropped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sculpt",
			Name:      "dropped_total",
			Help:      "Sculpt triggers ignored before any network activity.",
		},
		[]string{"reason"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sculpt",
			Name:      "duration_seconds",
			Help:      "Wall time of successful sculpt streams.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	outputTokens := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sculpt",
			Name:      "output_tokens",
			Help:      "Output tokens reported for successful sculpts.",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 10),
		},
		[]string{"provider"},
	)
	throughput := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sculpt",
			Name:      "tokens_per_second",
			Help:      "Output throughput of successful sculpts.",
			Buckets:   prometheus.LinearBuckets(10, 20, 10),
		},
		[]string{"provider"},
	)
	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sculpt",
			Name:      "in_flight",
			Help:      "Sculpt calls currently streaming.",
		},
	)

	collectors := []prometheus.Collector{sculpts, dropped, duration, outputTokens, throughput, inFlight}
	for _, collector := range collectors {
		err := reg.Register(collector)
		if err == nil {
			continue
		}
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(err)
		}
		switch collector {
		case sculpts:
			sculpts = already.ExistingCollector.(*prometheus.CounterVec)
		case dropped:
			dropped = already.ExistingCollector.(*prometheus.CounterVec)
		case duration:
			duration = already.ExistingCollector.(*prometheus.HistogramVec)
		case outputTokens:
			outputTokens = already.ExistingCollector.(*prometheus.HistogramVec)
		case throughput:
			throughput = already.ExistingCollector.(*prometheus.HistogramVec)
		case inFlight:
			inFlight = already.ExistingCollector.(prometheus.Gauge)
		}
	}

	return &Metrics{
		sculpts:      sculpts,
		dropped:      dropped,
		duration:     duration,
		outputTokens: outputTokens,
		throughput:   throughput,
		inFlight:     inFlight,
	}
}

// Started marks a sculpt as in flight.
func (m *Metrics) Started() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

// Succeeded records a completed sculpt. tokens and rate may be nil.
func (m *Metrics) Succeeded(provider string, elapsed time.Duration, tokens *int, rate *float64) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.sculpts.WithLabelValues(provider, OutcomeSuccess).Inc()
	m.duration.WithLabelValues(provider).Observe(elapsed.Seconds())
	if tokens != nil {
		m.outputTokens.WithLabelValues(provider).Observe(float64(*tokens))
	}
	if rate != nil {
		m.throughput.WithLabelValues(provider).Observe(*rate)
	}
}

// Failed records a sculpt that ended with an error.
func (m *Metrics) Failed(provider string) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.sculpts.WithLabelValues(provider, OutcomeFailure).Inc()
}

// Dropped records a trigger that was ignored.
func (m *Metrics) Dropped(reason string) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(reason).Inc()
}
