package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMatchingMetricsExport(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMatchingMetrics(reg)

	metrics.IncExactLookup("hit")
	metrics.IncExactLookup("")
	metrics.ObserveSuggestions("fuzzy", 4)
	metrics.IncLearned()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	byName := indexFamilies(families)

	lookups, ok := byName["matching_exact_lookups"]
	if !ok {
		t.Fatal("expected matching_exact_lookups family")
	}
	if got := len(lookups.Metric); got != 2 {
		t.Fatalf("expected hit and unknown labels, got %d series", got)
	}
	if _, ok := byName["matching_suggestion_results"]; !ok {
		t.Fatal("expected suggestion histogram family")
	}
	if _, ok := byName["matching_synonyms_learned"]; !ok {
		t.Fatal("expected learned counter family")
	}
}

func TestConversionMetricsExport(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewConversionMetrics(reg)

	metrics.IncAttempt()
	metrics.IncRetry()
	metrics.IncFailure("STATE_CONFLICT")
	metrics.ObserveDuration("success", 120*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	byName := indexFamilies(families)

	for _, name := range []string{
		"conversion_attempts",
		"conversion_retries",
		"conversion_failures",
		"conversion_duration_seconds",
	} {
		if _, ok := byName[name]; !ok {
			t.Fatalf("expected %s family", name)
		}
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	m := NewMatchingMetrics(nil)
	m.IncExactLookup("hit")
	m.ObserveSuggestions("fuzzy", 1)
	m.IncLearned()

	c := NewConversionMetrics(nil)
	c.IncAttempt()
	c.IncRetry()
	c.IncFailure("x")
	c.ObserveDuration("success", time.Second)
}

func indexFamilies(families []*dto.MetricFamily) map[string]*dto.MetricFamily {
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}
	return byName
}
