package metrics

import (
	"strings"
	"testing"
)

func TestHistogramRendersCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var buf strings.Builder
	snap := h.Snapshot()
	var cumulative uint64
	for i := range snap.buckets {
		cumulative += snap.counts[i]
		buf.WriteString(formatFloat(snap.buckets[i]))
		buf.WriteString("=")
		buf.WriteString(formatFloat(float64(cumulative)))
		buf.WriteString(" ")
	}
	if got := buf.String(); got != "10=1 100=2 " {
		t.Fatalf("unexpected cumulative buckets %q", got)
	}
	if snap.count != 3 || snap.sum != 555 {
		t.Fatalf("unexpected count/sum %d/%v", snap.count, snap.sum)
	}
}

func TestRenderIncludesSuggestionOutcomes(t *testing.T) {
	IncSuggestionOutcome("timeout")
	IncSuggestionOutcome("ok")
	IncExtractionFailed()

	out := Render()
	for _, want := range []string{
		`suggestion_outcome_total{outcome="ok"}`,
		`suggestion_outcome_total{outcome="timeout"}`,
		"# TYPE extraction_failed_total counter",
		`analysis_duration_ms_bucket{le="+Inf"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, `outcome="ok"`) > strings.Index(out, `outcome="timeout"`) {
		t.Fatal("labels not sorted")
	}
}
