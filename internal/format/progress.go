package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// maxETA caps estimates made from a nearly flat progress rate.
const maxETA = 24 * time.Hour

// rateSmoothing is the weight of the newest sample in the moving average
// of the progress rate.
const rateSmoothing = 0.3

// ProgressState tracks the progress of several concurrent strategies, one
// value in [0, 1] each.
type ProgressState struct {
	progresses     []float64
	numCalculators int
}

// NewProgressState returns a state for numCalculators strategies.
func NewProgressState(numCalculators int) *ProgressState {
	return &ProgressState{
		progresses:     make([]float64, max(numCalculators, 0)),
		numCalculators: numCalculators,
	}
}

// Update records value for the strategy at index, clamped to [0, 1].
// Out-of-range indices are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = min(max(value, 0), 1)
	}
}

// CalculateAverage returns the mean progress, 0 when nothing is tracked.
func (ps *ProgressState) CalculateAverage() float64 {
	if ps.numCalculators <= 0 {
		return 0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(ps.numCalculators)
}

// ProgressWithETA adds a smoothed rate estimate to ProgressState. It is
// safe for concurrent use.
type ProgressWithETA struct {
	*ProgressState
	mu             sync.Mutex
	numCalculators int
	startTime      time.Time
	lastUpdate     time.Time
	lastProgress   float64
	progressRate   float64 // progress per second
}

// NewProgressWithETA returns a tracker whose clock starts now.
func NewProgressWithETA(numCalculators int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState:  NewProgressState(numCalculators),
		numCalculators: numCalculators,
		startTime:      now,
		lastUpdate:     now,
	}
}

// UpdateWithETA records value for index and returns the new average and
// the estimated time to completion.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / dt
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = rateSmoothing*rate + (1-rateSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.etaLocked(avg)
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration { return time.Since(p.startTime) }

// GetETA returns the current estimate without recording an update.
func (p *ProgressWithETA) GetETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.etaLocked(p.CalculateAverage())
}

func (p *ProgressWithETA) etaLocked(avg float64) time.Duration {
	if p.progressRate <= 0 || avg >= 1 {
		return 0
	}
	secs := (1 - avg) / p.progressRate
	if secs > maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(secs * float64(time.Second))
}

// ProgressBar renders progress in [0, 1] as length block characters.
func ProgressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	count := int(progress * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := range length {
		if i < count {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// FormatProgressBarWithETA renders "[bar] pct% ETA: eta".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), min(max(progress, 0), 1)*100, FormatETA(eta))
}
