package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/format"
	"github.com/agbru/limbcalc/internal/metrics"
	"github.com/agbru/limbcalc/internal/orchestration"
)

// ─────────────────────────────────────────────────────────────────────────────
// Strategies
// ─────────────────────────────────────────────────────────────────────────────

type strategyRow struct {
	name     string
	progress float64
	duration time.Duration
	err      error
	finished bool
}

// StrategiesModel shows the strategies of the current operation.
type StrategiesModel struct {
	rows    []strategyRow
	average float64
	eta     time.Duration
	width   int
}

// NewStrategiesModel creates an empty strategies panel.
func NewStrategiesModel() StrategiesModel { return StrategiesModel{} }

// Start replaces the rows with names, all at zero progress.
func (s *StrategiesModel) Start(names []string) {
	s.rows = s.rows[:0]
	for _, n := range names {
		s.rows = append(s.rows, strategyRow{name: n})
	}
	s.average, s.eta = 0, 0
}

// Progress applies one update. Out-of-range indexes are ignored.
func (s *StrategiesModel) Progress(msg ProgressMsg) {
	if msg.Index < 0 || msg.Index >= len(s.rows) {
		return
	}
	s.rows[msg.Index].progress = msg.Value
	s.average, s.eta = msg.AverageProgress, msg.ETA
}

// Results fills in durations and errors by strategy name.
func (s *StrategiesModel) Results(results []orchestration.Result) {
	for _, r := range results {
		for i := range s.rows {
			if s.rows[i].name == r.Name {
				s.rows[i] = strategyRow{name: r.Name, progress: 1, duration: r.Duration, err: r.Err, finished: true}
			}
		}
	}
	s.average, s.eta = 1, 0
}

// SetWidth updates the available width.
func (s *StrategiesModel) SetWidth(w int) { s.width = w }

// Height is the rendered height including the border.
func (s StrategiesModel) Height() int { return max(len(s.rows), 1) + 3 }

// View renders the panel.
func (s StrategiesModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Strategies") + dimStyle.Render("  "+format.FormatProgressBarWithETA(s.average, s.eta, 20)))
	if len(s.rows) == 0 {
		b.WriteString("\n" + dimStyle.Render("  waiting for the first operation"))
	}
	for _, r := range s.rows {
		status := accentStyle.Render("running")
		switch {
		case r.err != nil:
			status = errorStyle.Render("failed: " + r.err.Error())
		case r.finished:
			status = successStyle.Render("ok " + format.FormatExecutionDuration(r.duration))
		}
		fmt.Fprintf(&b, "\n  %-12s %s %s", r.name, format.ProgressBar(r.progress, 20), status)
	}
	return panelStyle.Width(max(s.width-2, 0)).Render(b.String())
}

// ─────────────────────────────────────────────────────────────────────────────
// Log
// ─────────────────────────────────────────────────────────────────────────────

// LogModel lists the verdict of every operation, newest last.
type LogModel struct {
	lines    []string
	capacity int
	offset   int
	passed   int
	failed   int
	width    int
	height   int
}

// NewLogModel creates a log keeping at most capacity lines.
func NewLogModel(capacity int) LogModel {
	return LogModel{capacity: max(capacity, 1)}
}

// AddLine appends a line, dropping the oldest beyond capacity.
func (l *LogModel) AddLine(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > l.capacity {
		l.lines = l.lines[len(l.lines)-l.capacity:]
	}
}

// AddVerdict logs the outcome of an operation and counts it.
func (l *LogModel) AddVerdict(v VerdictMsg) {
	stamp := dimStyle.Render(time.Now().Format("15:04:05"))
	if v.Code == apperrors.ExitSuccess {
		l.passed++
		l.AddLine(stamp + " " + successStyle.Render("ok ") + " " + v.Op)
		return
	}
	l.failed++
	l.AddLine(stamp + " " + errorStyle.Render(verdictLabel(v.Code)) + " " + v.Op)
}

func verdictLabel(code int) string {
	switch code {
	case apperrors.ExitErrorMismatch:
		return "MISMATCH"
	case apperrors.ExitErrorTimeout:
		return "TIMEOUT"
	case apperrors.ExitErrorCanceled:
		return "CANCELED"
	default:
		return "FAILED"
	}
}

func completionLine(code int) string {
	if code == apperrors.ExitSuccess {
		return successStyle.Render("verify finished, all operations agree")
	}
	return errorStyle.Render(fmt.Sprintf("verify finished with exit code %d", code))
}

// Counts returns the number of passed and failed operations.
func (l LogModel) Counts() (passed, failed int) { return l.passed, l.failed }

// Scroll moves the view by delta lines towards older entries.
func (l *LogModel) Scroll(delta int) {
	l.offset = min(max(l.offset+delta, 0), max(len(l.lines)-l.visible(), 0))
}

// SetSize updates dimensions.
func (l *LogModel) SetSize(w, h int) { l.width, l.height = w, h }

func (l LogModel) visible() int { return max(l.height-3, 1) }

// View renders the panel.
func (l LogModel) View() string {
	end := len(l.lines) - l.offset
	start := max(end-l.visible(), 0)
	title := titleStyle.Render("Operations") +
		dimStyle.Render(fmt.Sprintf("  %d passed, %d failed", l.passed, l.failed))
	body := append([]string{title}, l.lines[start:end]...)
	return panelStyle.Width(max(l.width-2, 0)).Height(max(l.height-2, 0)).Render(strings.Join(body, "\n"))
}

// ─────────────────────────────────────────────────────────────────────────────
// System
// ─────────────────────────────────────────────────────────────────────────────

// SystemModel shows host load and the Go heap.
type SystemModel struct {
	cpu    *RingBuffer
	mem    *RingBuffer
	heap   metrics.MemorySnapshot
	width  int
	height int
}

// NewSystemModel keeps capacity samples per series.
func NewSystemModel(capacity int) SystemModel {
	return SystemModel{cpu: NewRingBuffer(capacity), mem: NewRingBuffer(capacity)}
}

// UpdateSys records a host sample.
func (s *SystemModel) UpdateSys(msg SysStatsMsg) {
	s.cpu.Push(msg.CPUPercent)
	s.mem.Push(msg.MemPercent)
}

// UpdateMem records a runtime sample.
func (s *SystemModel) UpdateMem(snap metrics.MemorySnapshot) { s.heap = snap }

// SetSize updates dimensions.
func (s *SystemModel) SetSize(w, h int) { s.width, s.height = w, h }

func (s SystemModel) series(label string, r *RingBuffer) string {
	values := r.Slice()
	if n := s.width - 16; n > 0 && len(values) > n {
		values = values[len(values)-n:]
	}
	return fmt.Sprintf("%s %5.1f%% %s", dimStyle.Render(label), r.Last(), accentStyle.Render(RenderSparkline(values, 100)))
}

// View renders the panel.
func (s SystemModel) View() string {
	lines := []string{
		titleStyle.Render("System"),
		s.series("CPU", s.cpu),
		s.series("MEM", s.mem),
		fmt.Sprintf("%s %s / %s", dimStyle.Render("Heap"), format.FormatBytes(s.heap.HeapAlloc), format.FormatBytes(s.heap.HeapSys)),
		fmt.Sprintf("%s %d (%.1fms)", dimStyle.Render("GC  "), s.heap.NumGC, float64(s.heap.PauseTotalNs)/1e6),
	}
	return panelStyle.Width(max(s.width-2, 0)).Height(max(s.height-2, 0)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
