package fishsynth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "fishsynth"

// SynthMetrics counts synthesizer activity. A nil *SynthMetrics records
// nothing.
type SynthMetrics struct {
	EncodingsTotal *prometheus.CounterVec
	PathLength     prometheus.Histogram
	ExploredNodes  prometheus.Histogram
	VerifyTotal    *prometheus.CounterVec
}

// NewSynthMetrics registers the collectors with reg. A nil reg creates
// unregistered collectors.
func NewSynthMetrics(reg prometheus.Registerer) *SynthMetrics {
	factory := promauto.With(reg)
	return &SynthMetrics{
		EncodingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "synth",
			Name:      "encodings_total",
			Help:      "Encodings produced, by strategy and how they were found.",
		}, []string{"strategy", "result"}),
		PathLength: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "synth",
			Name:      "path_length",
			Help:      "Length of synthesized programs in instructions.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		ExploredNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "synth",
			Name:      "bfs_explored_nodes",
			Help:      "Nodes discovered by each breadth first search.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}),
		VerifyTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "verify",
			Name:      "results_total",
			Help:      "Verification outcomes.",
		}, []string{"outcome"}),
	}
}

func (m *SynthMetrics) ObserveEncoding(strategy Strategy, result string, length uint) {
	if m == nil {
		return
	}
	m.EncodingsTotal.WithLabelValues(string(strategy), result).Inc()
	m.PathLength.Observe(float64(length))
}

func (m *SynthMetrics) ObserveSearch(explored int) {
	if m == nil {
		return
	}
	m.ExploredNodes.Observe(float64(explored))
}

func (m *SynthMetrics) ObserveVerification(reason VerifyFailReason) {
	if m == nil {
		return
	}
	m.VerifyTotal.WithLabelValues(reason.String()).Inc()
}

// WriteMetrics dumps every metric gathered by g in the text exposition
// format.
func WriteMetrics(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
