package generation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Build outcomes recorded in metrics.
const (
	OutcomeCard   = "card"
	OutcomeNoCard = "no_card"
	OutcomeError  = "error"
)

// Metrics records card build statistics. A nil *Metrics records nothing.
type Metrics struct {
	builds   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	aiCalls  *prometheus.CounterVec
}

// NewMetrics creates the build metrics and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wrapped",
			Name:      "card_builds_total",
			Help:      "Card builds by generator kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wrapped",
			Name:      "card_build_duration_seconds",
			Help:      "Card build duration by generator kind.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"kind"}),
		aiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wrapped",
			Name:      "ai_calls_total",
			Help:      "Structured AI calls by build phase and result.",
		}, []string{"phase", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.builds, m.duration, m.aiCalls)
	}
	return m
}

func (m *Metrics) observeBuild(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.builds.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) observeAICall(phase Phase, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.aiCalls.WithLabelValues(string(phase), result).Inc()
}
