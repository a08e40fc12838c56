package orchestration

import (
	"testing"
)

func TestNewProgressAggregator(t *testing.T) {
	t.Parallel()
	if agg := NewProgressAggregator(nil); agg != nil {
		t.Error("expected nil aggregator without strategies")
	}
	agg := NewProgressAggregator([]string{"toom"})
	if agg == nil {
		t.Fatal("expected an aggregator")
	}
	if agg.NumStrategies() != 1 || agg.IsMultiStrategy() {
		t.Errorf("one strategy: NumStrategies=%d IsMultiStrategy=%v", agg.NumStrategies(), agg.IsMultiStrategy())
	}
	if !NewProgressAggregator([]string{"a", "b"}).IsMultiStrategy() {
		t.Error("expected IsMultiStrategy for two strategies")
	}
}

func TestProgressAggregatorUpdate(t *testing.T) {
	t.Parallel()
	agg := NewProgressAggregator([]string{"toom", "mathbig"})

	ap := agg.Update(ProgressUpdate{Index: 0, Value: 0.5})
	if ap.Name != "toom" || ap.Value != 0.5 {
		t.Errorf("update = %+v", ap)
	}
	if ap.AverageProgress != 0.25 {
		t.Errorf("AverageProgress = %f, want 0.25", ap.AverageProgress)
	}

	ap = agg.Update(ProgressUpdate{Index: 1, Value: 0.5})
	if ap.Name != "mathbig" || ap.AverageProgress != 0.5 {
		t.Errorf("update = %+v", ap)
	}
	if got := agg.CalculateAverage(); got != 0.5 {
		t.Errorf("CalculateAverage = %f, want 0.5", got)
	}

	// Unknown indices are ignored.
	ap = agg.Update(ProgressUpdate{Index: 7, Value: 1})
	if ap.Name != "" || ap.AverageProgress != 0.5 {
		t.Errorf("out-of-range update = %+v", ap)
	}
}

func TestProgressAggregatorETA(t *testing.T) {
	t.Parallel()
	agg := NewProgressAggregator([]string{"toom"})
	if eta := agg.GetETA(); eta != 0 {
		t.Errorf("initial ETA = %v, want 0", eta)
	}
	if agg.Elapsed() < 0 {
		t.Error("negative elapsed time")
	}
}

func TestDrainChannel(t *testing.T) {
	t.Parallel()
	ch := make(chan ProgressUpdate, 3)
	ch <- ProgressUpdate{Value: 0.1}
	ch <- ProgressUpdate{Value: 0.2}
	close(ch)
	DrainChannel(ch)
	if _, ok := <-ch; ok {
		t.Error("channel not drained")
	}
}
