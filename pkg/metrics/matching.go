package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MatchingMetrics records product resolution outcomes.
type MatchingMetrics struct {
	exactLookups *prometheus.CounterVec
	suggestions  *prometheus.HistogramVec
	learned      prometheus.Counter
}

// NewMatchingMetrics registers the matching metrics on the provided registerer.
func NewMatchingMetrics(reg prometheus.Registerer) *MatchingMetrics {
	if reg == nil {
		return &MatchingMetrics{}
	}
	exactLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matching_exact_lookups",
		Help: "Exact product lookups by outcome (hit, synonym_hit, miss).",
	}, []string{"outcome"})
	suggestions := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "matching_suggestion_results",
		Help:    "Number of suggestions returned per fuzzy query.",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
	}, []string{"kind"})
	learned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matching_synonyms_learned",
		Help: "Synonyms created or reinforced by the learning feedback loop.",
	})
	reg.MustRegister(exactLookups, suggestions, learned)
	return &MatchingMetrics{
		exactLookups: exactLookups,
		suggestions:  suggestions,
		learned:      learned,
	}
}

// IncExactLookup counts one exact lookup with the given outcome.
func (m *MatchingMetrics) IncExactLookup(outcome string) {
	if m == nil || m.exactLookups == nil {
		return
	}
	m.exactLookups.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveSuggestions records how many suggestions a query produced.
func (m *MatchingMetrics) ObserveSuggestions(kind string, count int) {
	if m == nil || m.suggestions == nil {
		return
	}
	m.suggestions.WithLabelValues(normalizeLabel(kind)).Observe(float64(count))
}

// IncLearned counts one learning feedback event.
func (m *MatchingMetrics) IncLearned() {
	if m == nil || m.learned == nil {
		return
	}
	m.learned.Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
