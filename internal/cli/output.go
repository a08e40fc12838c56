// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a string without performing I/O.
//     Examples: [FormatQuietResult].
//
//   - Write* functions serialize a report.
//     Examples: [WriteJSON].

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/format"
	"github.com/agbru/limbcalc/internal/orchestration"
	"github.com/agbru/limbcalc/internal/sysmon"
	"github.com/agbru/limbcalc/internal/ui"
)

// DisplayResult writes the value of an operation. Values are truncated
// unless verbose is set.
func DisplayResult(op orchestration.Operation, res orchestration.Result, verbose bool, out io.Writer) {
	fmt.Fprintf(out, "Fastest: %s%s%s in %s%s%s\n",
		ui.ColorGreen(), res.Name, ui.ColorReset(),
		ui.ColorYellow(), durationLabel(res), ui.ColorReset())
	fmt.Fprintf(out, "Result size: %s\n", format.FormatLimbs(res.Value))
	switch op.Kind {
	case orchestration.KindSquare:
		fmt.Fprintf(out, "X  = %s\n", format.FormatHex(op.X, verbose))
		fmt.Fprintf(out, "X² = %s\n", format.FormatHex(res.Value, verbose))
	case orchestration.KindDivExact:
		fmt.Fprintf(out, "N     = %s\n", format.FormatHex(op.X, verbose))
		fmt.Fprintf(out, "D     = %s\n", format.FormatHex(op.D, verbose))
		fmt.Fprintf(out, "N / D = %s\n", format.FormatHex(res.Value, verbose))
	case orchestration.KindInvert:
		fmt.Fprintf(out, "D          = %s\n", format.FormatHex(op.D, verbose))
		fmt.Fprintf(out, "D⁻¹ mod B^%d = %s\n", op.Limbs, format.FormatHex(res.Value, verbose))
	}
}

// FormatQuietResult is the one-line form for scripts: the kind, the
// strategy and the full hexadecimal value.
func FormatQuietResult(op orchestration.Operation, res orchestration.Result) string {
	return fmt.Sprintf("%s %s %s", op.Kind, res.Name, format.FormatHex(res.Value, true))
}

// DisplayQuietResult writes FormatQuietResult and a newline.
func DisplayQuietResult(op orchestration.Operation, res orchestration.Result, out io.Writer) {
	fmt.Fprintln(out, FormatQuietResult(op, res))
}

// QuietPresenter prints only the value, or the error. With Out set, it
// writes there instead of the writer it is handed, so the summary lines of
// the orchestrator can be discarded.
type QuietPresenter struct {
	Out io.Writer
}

func (q QuietPresenter) writer(out io.Writer) io.Writer {
	if q.Out != nil {
		return q.Out
	}
	return out
}

func (QuietPresenter) PresentComparisonTable(orchestration.Operation, []orchestration.Result, io.Writer) {}

func (q QuietPresenter) PresentResult(op orchestration.Operation, res orchestration.Result, out io.Writer) {
	DisplayQuietResult(op, res, q.writer(out))
}

func (q QuietPresenter) HandleError(op orchestration.Operation, err error, out io.Writer) int {
	fmt.Fprintf(q.writer(out), "%s error %v\n", op.Kind, err)
	return apperrors.ExitCodeFor(err)
}

// ─────────────────────────────────────────────────────────────────────────────
// JSON output
// ─────────────────────────────────────────────────────────────────────────────

// JSONStrategy is the outcome of one strategy.
type JSONStrategy struct {
	Name       string `json:"name"`
	DurationNs int64  `json:"duration_ns"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

// JSONOperation is one operation with its strategies.
type JSONOperation struct {
	Kind       string         `json:"kind"`
	Limbs      int            `json:"limbs"`
	Strategies []JSONStrategy `json:"strategies"`
	Fastest    string         `json:"fastest,omitempty"`
	ResultBits int            `json:"result_bits,omitempty"`
	Value      string         `json:"value,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// JSONReport is the document written with -json.
type JSONReport struct {
	Command    string          `json:"command"`
	Seed       int64           `json:"seed"`
	Operations []JSONOperation `json:"operations"`
	ExitCode   int             `json:"exit_code"`
	Host       *sysmon.Stats   `json:"host,omitempty"`
}

// JSONPresenter collects operations into a report. Values are included
// only with IncludeValues.
type JSONPresenter struct {
	IncludeValues bool

	mu     sync.Mutex
	report JSONReport
}

// NewJSONPresenter returns a presenter for one command run.
func NewJSONPresenter(command string, seed int64, includeValues bool) *JSONPresenter {
	return &JSONPresenter{IncludeValues: includeValues, report: JSONReport{Command: command, Seed: seed}}
}

func (p *JSONPresenter) PresentComparisonTable(op orchestration.Operation, results []orchestration.Result, _ io.Writer) {
	entry := JSONOperation{Kind: string(op.Kind), Limbs: op.Size()}
	for _, r := range results {
		s := JSONStrategy{Name: r.Name, DurationNs: r.Duration.Nanoseconds(), Status: "ok"}
		if r.Err != nil {
			s.Status, s.Error = "error", r.Err.Error()
		}
		entry.Strategies = append(entry.Strategies, s)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.report.Operations = append(p.report.Operations, entry)
}

// last returns the entry of the operation being presented.
func (p *JSONPresenter) last() *JSONOperation {
	if len(p.report.Operations) == 0 {
		p.report.Operations = append(p.report.Operations, JSONOperation{})
	}
	return &p.report.Operations[len(p.report.Operations)-1]
}

func (p *JSONPresenter) PresentResult(_ orchestration.Operation, res orchestration.Result, _ io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e := p.last()
	e.Fastest = res.Name
	e.ResultBits = res.Value.BitLen()
	if p.IncludeValues {
		e.Value = format.FormatHex(res.Value, true)
	}
}

func (p *JSONPresenter) HandleError(_ orchestration.Operation, err error, _ io.Writer) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last().Error = err.Error()
	return apperrors.ExitCodeFor(err)
}

// Report returns the collected report with the exit code and host load
// filled in.
func (p *JSONPresenter) Report(exitCode int, host *sysmon.Stats) JSONReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	r := p.report
	r.ExitCode, r.Host = exitCode, host
	return r
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
