package cli

import (
	"fmt"
	"io"
	"sync"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/format"
	"github.com/agbru/limbcalc/internal/metrics"
	"github.com/agbru/limbcalc/internal/orchestration"
	"github.com/agbru/limbcalc/internal/ui"
)

// CLIProgressReporter draws a spinner while strategies run.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress implements orchestration.ProgressReporter.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, names []string, out io.Writer) {
	DisplayProgress(wg, progressChan, names, out)
}

// CLIResultPresenter writes colorized tables and results.
type CLIResultPresenter struct {
	// Verbose prints values in full instead of truncating them.
	Verbose bool
}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

func durationLabel(res orchestration.Result) string {
	if res.Err != nil && res.Duration == 0 {
		return "-"
	}
	if res.Duration == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(res.Duration)
}

// PresentComparisonTable lists every strategy with its fastest time and
// status. Padding is computed on the plain text so color codes do not
// shift the columns.
func (CLIResultPresenter) PresentComparisonTable(op orchestration.Operation, results []orchestration.Result, out io.Writer) {
	fmt.Fprintf(out, "\n--- %s ---\n", op)

	nameWidth, durWidth := len("Strategy"), len("Duration")
	for _, res := range results {
		nameWidth = max(nameWidth, len(res.Name))
		durWidth = max(durWidth, len([]rune(durationLabel(res))))
	}
	fmt.Fprintf(out, "%sStrategy%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", nameWidth-len("Strategy")),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", durWidth-len("Duration")),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		status := ui.Paint(ui.ColorGreen(), "ok")
		if res.Err != nil {
			status = ui.Paint(ui.ColorRed(), fmt.Sprintf("failed (%v)", res.Err))
		}
		d := durationLabel(res)
		fmt.Fprintf(out, "%s%s   %s%s   %s\n",
			ui.Paint(ui.ColorBlue(), res.Name), padRight("", nameWidth-len(res.Name)),
			ui.Paint(ui.ColorYellow(), d), padRight("", durWidth-len([]rune(d))),
			status)
	}
}

func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult writes the agreed value of the operation.
func (p CLIResultPresenter) PresentResult(op orchestration.Operation, res orchestration.Result, out io.Writer) {
	DisplayResult(op, res, p.Verbose, out)
}

// HandleError reports the failure and returns its exit code.
func (CLIResultPresenter) HandleError(op orchestration.Operation, err error, out io.Writer) int {
	code := apperrors.ExitCodeFor(err)
	switch code {
	case apperrors.ExitErrorTimeout:
		fmt.Fprintf(out, "%sTimeout:%s %s did not finish before the deadline.\n", ui.ColorRed(), ui.ColorReset(), op)
	case apperrors.ExitErrorCanceled:
		fmt.Fprintf(out, "%sCanceled:%s %s was interrupted.\n", ui.ColorYellow(), ui.ColorReset(), op)
	default:
		fmt.Fprintf(out, "%sError:%s %v\n", ui.ColorRed(), ui.ColorReset(), err)
	}
	return code
}

// DisplayMemoryStats writes the allocation activity of a run.
func DisplayMemoryStats(d metrics.MemoryDelta, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Peak heap:       %s\n", format.FormatBytes(d.PeakHeap))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(d.Allocated))
	fmt.Fprintf(out, "  GC cycles:       %d\n", d.GCCycles)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(d.PauseTotalNs)/1e6)
}
