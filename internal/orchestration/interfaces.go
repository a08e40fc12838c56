package orchestration

import (
	"io"
	"sync"

	apperrors "github.com/agbru/limbcalc/internal/errors"
)

// ProgressUpdate reports that the strategy at Index has completed the
// fraction Value of its repeated runs.
type ProgressUpdate struct {
	Index int
	Value float64
}

// ProgressReporter displays progress updates. DisplayProgress runs on its
// own goroutine until progressChan is closed and then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, names []string, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, names []string, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, names []string, out io.Writer) {
	f(wg, progressChan, names, out)
}

// NullProgressReporter drains the channel without output.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ []string, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter writes the outcome of one operation.
type ResultPresenter interface {
	// PresentComparisonTable lists every strategy with its time and status.
	PresentComparisonTable(op Operation, results []Result, out io.Writer)
	// PresentResult shows the agreed value.
	PresentResult(op Operation, result Result, out io.Writer)
}

// ErrorHandler reports a failed operation and returns its exit code.
type ErrorHandler interface {
	HandleError(op Operation, err error, out io.Writer) int
}

// NullPresenter discards everything and maps errors to exit codes.
type NullPresenter struct{}

func (NullPresenter) PresentComparisonTable(Operation, []Result, io.Writer) {}
func (NullPresenter) PresentResult(Operation, Result, io.Writer)            {}

func (NullPresenter) HandleError(_ Operation, err error, _ io.Writer) int {
	return apperrors.ExitCodeFor(err)
}
