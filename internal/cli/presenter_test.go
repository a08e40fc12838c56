package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/metrics"
	"github.com/agbru/limbcalc/internal/orchestration"
)

// ─────────────────────────────────────────────────────────────────────────────
// Comparison table
// ─────────────────────────────────────────────────────────────────────────────

func TestPresentComparisonTable(t *testing.T) {
	t.Parallel()
	op := orchestration.Operation{Kind: orchestration.KindSquare, X: big.NewInt(7)}
	results := []orchestration.Result{
		{Name: "toom", Value: big.NewInt(49), Duration: 2 * time.Millisecond},
		{Name: "mathbig", Value: big.NewInt(49)},
		{Name: "faulty", Err: errors.New("boom")},
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(op, results, &buf)
	out := buf.String()

	assert.Contains(t, out, "--- square 1 limbs ---")
	for _, h := range []string{"Strategy", "Duration", "Status"} {
		assert.Contains(t, out, h)
	}
	assert.Contains(t, out, "< 1µs")
	assert.Contains(t, out, "failed (boom)")
	assert.Equal(t, 2, strings.Count(out, "ok"))
}

func TestDurationLabel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		res  orchestration.Result
		want string
	}{
		{"failed without timing", orchestration.Result{Err: errors.New("x")}, "-"},
		{"below resolution", orchestration.Result{}, "< 1µs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, durationLabel(tt.res))
		})
	}
	assert.NotEqual(t, "-", durationLabel(orchestration.Result{Err: errors.New("x"), Duration: time.Second}))
}

func TestPadRight(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ab   ", padRight("ab", 3))
	assert.Equal(t, "ab", padRight("ab", 0))
	assert.Equal(t, "ab", padRight("ab", -2))
}

// ─────────────────────────────────────────────────────────────────────────────
// Errors
// ─────────────────────────────────────────────────────────────────────────────

func TestHandleError(t *testing.T) {
	t.Parallel()
	op := orchestration.Operation{Kind: orchestration.KindInvert, D: big.NewInt(3), Limbs: 4}
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantText string
	}{
		{"deadline", fmt.Errorf("run: %w", context.DeadlineExceeded), apperrors.ExitErrorTimeout, "Timeout:"},
		{"timeout error", apperrors.TimeoutError{Operation: "invert", Limit: time.Second}, apperrors.ExitErrorTimeout, "Timeout:"},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled, "Canceled:"},
		{"config", apperrors.ConfigError{Message: "bad"}, apperrors.ExitErrorConfig, "Error:"},
		{"generic", errors.New("kaboom"), apperrors.ExitErrorGeneric, "kaboom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := CLIResultPresenter{}.HandleError(op, tt.err, &buf)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, buf.String(), tt.wantText)
		})
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayMemoryStats(metrics.MemoryDelta{Allocated: 2048, PeakHeap: 1024, GCCycles: 3, PauseTotalNs: 1_500_000}, &buf)
	out := buf.String()
	assert.Contains(t, out, "Memory Stats")
	assert.Contains(t, out, "GC cycles:       3")
	assert.Contains(t, out, "1.50ms")
}
