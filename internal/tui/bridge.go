package tui

import (
	"io"
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/orchestration"
)

// programRef survives the model copies bubbletea makes on every Update, so
// session goroutines can keep sending messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program, if one is set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter forwards progress updates as messages.
type TUIProgressReporter struct {
	ref *programRef
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains progressChan into ProgressMsg values.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, names []string, _ io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(names)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	t.ref.Send(StartMsg{Names: slices.Clone(names)})
	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			Index:           ap.Index,
			Value:           ap.Value,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
		})
	}
}

// TUIResultPresenter forwards results as messages instead of writing them.
type TUIResultPresenter struct {
	ref *programRef
}

var (
	_ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler    = (*TUIResultPresenter)(nil)
)

// PresentComparisonTable sends a copy of results.
func (t *TUIResultPresenter) PresentComparisonTable(op orchestration.Operation, results []orchestration.Result, _ io.Writer) {
	t.ref.Send(ResultsMsg{Op: op.String(), Results: slices.Clone(results)})
}

// PresentResult is a no-op; the verdict carries the outcome.
func (t *TUIResultPresenter) PresentResult(orchestration.Operation, orchestration.Result, io.Writer) {}

// HandleError returns the exit code for err. The verdict reports it.
func (t *TUIResultPresenter) HandleError(_ orchestration.Operation, err error, _ io.Writer) int {
	return apperrors.ExitCodeFor(err)
}

// Bridge connects a verify session to the dashboard.
type Bridge struct {
	Reporter  *TUIProgressReporter
	Presenter *TUIResultPresenter
	ref       *programRef
}

func newBridge(ref *programRef) *Bridge {
	return &Bridge{
		Reporter:  &TUIProgressReporter{ref: ref},
		Presenter: &TUIResultPresenter{ref: ref},
		ref:       ref,
	}
}

// StartRound announces round r, counted from 1.
func (b *Bridge) StartRound(r int) {
	b.ref.Send(RoundMsg{Round: r})
}

// OperationDone reports the exit code of op.
func (b *Bridge) OperationDone(op orchestration.Operation, code int) {
	b.ref.Send(VerdictMsg{Op: op.String(), Code: code})
}
