package tui

import (
	"time"

	"github.com/agbru/limbcalc/internal/metrics"
	"github.com/agbru/limbcalc/internal/orchestration"
)

// StartMsg announces the strategies of the operation starting now.
type StartMsg struct {
	Names []string
}

// ProgressMsg carries one aggregated progress update.
type ProgressMsg struct {
	Index           int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ResultsMsg carries the per-strategy outcome of an operation.
type ResultsMsg struct {
	Op      string
	Results []orchestration.Result
}

// VerdictMsg is the exit code of a finished operation.
type VerdictMsg struct {
	Op   string
	Code int
}

// RoundMsg marks the start of a verify round, counted from 1.
type RoundMsg struct {
	Round int
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// SysStatsMsg is a host CPU and memory sample in percent.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// MemStatsMsg is a runtime memory sample.
type MemStatsMsg metrics.MemorySnapshot

// CompleteMsg reports that the session returned.
type CompleteMsg struct {
	ExitCode int
}

// ContextCancelledMsg reports that the session context ended.
type ContextCancelledMsg struct {
	Err error
}
