package orchestration

import (
	"time"

	"github.com/agbru/limbcalc/internal/format"
)

// ProgressAggregator folds per-strategy progress into an average with an
// ETA. The CLI spinner and the TUI both consume it.
type ProgressAggregator struct {
	state *format.ProgressWithETA
	names []string
}

// NewProgressAggregator returns an aggregator for the named strategies, or
// nil when names is empty.
func NewProgressAggregator(names []string) *ProgressAggregator {
	if len(names) == 0 {
		return nil
	}
	return &ProgressAggregator{state: format.NewProgressWithETA(len(names)), names: names}
}

// AggregatedProgress is the state after one update.
type AggregatedProgress struct {
	Index           int
	Name            string
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// Update records one update.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.Index, update.Value)
	ap := AggregatedProgress{Index: update.Index, Value: update.Value, AverageProgress: avg, ETA: eta}
	if update.Index >= 0 && update.Index < len(a.names) {
		ap.Name = a.names[update.Index]
	}
	return ap
}

// CalculateAverage returns the current average without updating.
func (a *ProgressAggregator) CalculateAverage() float64 { return a.state.CalculateAverage() }

// GetETA returns the current estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration { return a.state.GetETA() }

// Elapsed is the time since the aggregator was created.
func (a *ProgressAggregator) Elapsed() time.Duration { return a.state.Elapsed() }

// NumStrategies returns the number of tracked strategies.
func (a *ProgressAggregator) NumStrategies() int { return len(a.names) }

// IsMultiStrategy reports whether more than one strategy is tracked.
func (a *ProgressAggregator) IsMultiStrategy() bool { return len(a.names) > 1 }

// DrainChannel discards every update until the channel is closed.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
