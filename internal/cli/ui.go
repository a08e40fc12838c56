//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/limbcalc/internal/format"
	"github.com/agbru/limbcalc/internal/orchestration"
)

const (
	// ProgressRefreshRate is the spinner redraw period.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width of the bar in characters.
	ProgressBarWidth = 40
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the animation.
	Start()
	// Stop halts the animation and clears the line.
	Stop()
	// UpdateSuffix sets the text drawn after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(out io.Writer, options ...spinner.Option) Spinner {
	options = append([]spinner.Option{spinner.WithWriter(out)}, options...)
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// progressSuffix renders the text after the spinner.
func progressSuffix(label string, avg float64, eta time.Duration) string {
	return fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth))
}

// DisplayProgress shows a spinner with the average progress of the named
// strategies until progressChan is closed. It calls wg.Done on return.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, names []string, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(names)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	label := names[0]
	if agg.IsMultiStrategy() {
		label = fmt.Sprintf("%d strategies", agg.NumStrategies())
	}

	s := newSpinner(out)
	s.UpdateSuffix(progressSuffix(label, 0, 0))
	s.Start()
	defer func() {
		s.Stop()
		fmt.Fprintf(out, "%s\n", progressSuffix(label, agg.CalculateAverage(), 0)[1:])
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				return
			}
			agg.Update(update)
		case <-ticker.C:
			s.UpdateSuffix(progressSuffix(label, agg.CalculateAverage(), agg.GetETA()))
		}
	}
}
