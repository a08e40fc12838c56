package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/limbcalc/internal/cli"
	"github.com/agbru/limbcalc/internal/config"
	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/logging"
	"github.com/agbru/limbcalc/internal/orchestration"
	"github.com/agbru/limbcalc/internal/orchestration/mocks"
)

// args prefixes the program name and points the profile at an empty
// directory so a profile in the home directory never leaks into tests.
func args(t *testing.T, a ...string) []string {
	t.Helper()
	return append([]string{"limbcalc"}, append(a, "-calibration-profile", filepath.Join(t.TempDir(), "profile.json"))...)
}

func newApp(t *testing.T, a []string, opts ...AppOption) *Application {
	t.Helper()
	opts = append([]AppOption{WithLogger(logging.Nop())}, opts...)
	application, err := New(a, io.Discard, opts...)
	require.NoError(t, err)
	return application
}

// ─────────────────────────────────────────────────────────────────────────────
// Construction
// ─────────────────────────────────────────────────────────────────────────────

func TestNew(t *testing.T) {
	t.Parallel()
	a := newApp(t, args(t, "square", "-limbs", "8", "-sqr-toom2", "12"))
	assert.Equal(t, config.CmdSquare, a.Config.Command)
	assert.Equal(t, 8, a.Config.Limbs)
	assert.Equal(t, 12, a.Config.SqrToom2)
	assert.False(t, a.ProfileLoaded)
	assert.NotZero(t, a.Config.FFTThreshold, "adaptive thresholds fill the gaps")
	assert.Contains(t, a.Factory.List(), "mathbig")
}

func TestNewErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		args     []string
		help     bool
		wantCode int
	}{
		{"help", []string{"-h"}, true, apperrors.ExitSuccess},
		{"unknown command", []string{"cube"}, false, apperrors.ExitErrorConfig},
		{"bad flag", []string{"square", "-limbs", "x"}, false, apperrors.ExitErrorConfig},
		{"rejected squaring table", []string{"square", "-sqr-toom2", "1"}, false, apperrors.ExitErrorConfig},
		{"rejected division table", []string{"divexact", "-dc-bdiv-qr", "1"}, false, apperrors.ExitErrorConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(append([]string{"limbcalc"}, tt.args...), io.Discard, WithLogger(logging.Nop()))
			require.Error(t, err)
			assert.Equal(t, tt.help, IsHelpError(err))
			if !tt.help {
				assert.Equal(t, tt.wantCode, apperrors.ExitCodeFor(err))
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Commands
// ─────────────────────────────────────────────────────────────────────────────

func TestRunSingleCommandsQuiet(t *testing.T) {
	t.Parallel()
	tests := []struct {
		command string
		extra   []string
	}{
		{"square", []string{"-limbs", "9"}},
		{"divexact", []string{"-limbs", "7", "-divisor-limbs", "3"}},
		{"invert", []string{"-limbs", "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()
			a := newApp(t, args(t, append([]string{tt.command, "-q", "-seed", "3", "-no-color"}, tt.extra...)...))
			var out bytes.Buffer
			code := a.Run(context.Background(), &out)
			require.Equal(t, apperrors.ExitSuccess, code, out.String())
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			require.Len(t, lines, 1)
			assert.True(t, strings.HasPrefix(lines[0], tt.command+" "), lines[0])
			assert.Contains(t, lines[0], " 0x")
		})
	}
}

func TestRunSquareText(t *testing.T) {
	t.Parallel()
	a := newApp(t, args(t, "square", "-limbs", "12", "-seed", "5", "-no-color", "-v"))
	var out bytes.Buffer
	require.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
	s := out.String()
	assert.Contains(t, s, "Execution Configuration")
	assert.Contains(t, s, "parallel comparison of")
	assert.Contains(t, s, "Global Status: Success")
	assert.Contains(t, s, "Memory Stats")
}

func TestRunVerifyJSON(t *testing.T) {
	t.Parallel()
	a := newApp(t, args(t, "verify", "-limbs", "6", "-divisor-limbs", "3", "-rounds", "2", "-seed", "11", "-json"))
	var out bytes.Buffer
	require.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))

	var report cli.JSONReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, config.CmdVerify, report.Command)
	assert.Equal(t, int64(11), report.Seed)
	require.Len(t, report.Operations, 2*len(orchestration.Kinds))
	for _, op := range report.Operations {
		assert.NotEmpty(t, op.Fastest)
		assert.Empty(t, op.Value, "verify omits values unless -v")
		for _, s := range op.Strategies {
			assert.Equal(t, "ok", s.Status, "%s/%s", op.Kind, s.Name)
		}
	}
	assert.Zero(t, report.ExitCode)
}

func TestRunVerifyReproducible(t *testing.T) {
	t.Parallel()
	run := func() string {
		a := newApp(t, args(t, "verify", "-limbs", "5", "-rounds", "1", "-seed", "99", "-json", "-v", "-strategy", "mathbig"))
		var out bytes.Buffer
		require.Equal(t, apperrors.ExitSuccess, a.Run(context.Background(), &out))
		var report cli.JSONReport
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		var values []string
		for _, op := range report.Operations {
			values = append(values, op.Value)
		}
		return strings.Join(values, ",")
	}
	assert.Equal(t, run(), run())
}

func TestRunDetectsMismatch(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	broken := mocks.NewMockStrategy(ctrl)
	broken.EXPECT().Name().Return("broken").AnyTimes()
	broken.EXPECT().Supports(gomock.Any()).DoAndReturn(func(k orchestration.Kind) bool {
		return k == orchestration.KindSquare
	}).AnyTimes()
	broken.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(big.NewInt(42), nil).AnyTimes()

	factory := orchestration.NewDefaultFactory()
	factory.Register(broken)

	a := newApp(t, args(t, "verify", "-limbs", "4", "-rounds", "1", "-seed", "2", "-no-color"), WithFactory(factory))
	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	assert.Equal(t, apperrors.ExitErrorMismatch, code)
	assert.Contains(t, out.String(), "CRITICAL ERROR")
}

func TestRunUnsupportedStrategy(t *testing.T) {
	t.Parallel()
	a := newApp(t, args(t, "invert", "-strategy", "bigfft", "-no-color"))
	var out bytes.Buffer
	assert.Equal(t, apperrors.ExitErrorConfig, a.Run(context.Background(), &out))
	assert.Contains(t, out.String(), "does not support")
}

func TestRunTimeout(t *testing.T) {
	t.Parallel()
	a := newApp(t, args(t, "verify", "-q", "-timeout", "1ns"))
	assert.Equal(t, apperrors.ExitErrorTimeout, a.Run(context.Background(), io.Discard))
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := newApp(t, args(t, "verify", "-q"))
	assert.Equal(t, apperrors.ExitErrorCanceled, a.Run(ctx, io.Discard))
}

func TestRunMetricsAddrBusy(t *testing.T) {
	t.Parallel()
	a := newApp(t, args(t, "square", "-metrics-addr", "256.0.0.1:0"))
	var errOut bytes.Buffer
	a.ErrWriter = &errOut
	assert.Equal(t, apperrors.ExitErrorConfig, a.Run(context.Background(), io.Discard))
	assert.Contains(t, errOut.String(), "metrics listener")
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func TestWorse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		current, next, want int
	}{
		{apperrors.ExitSuccess, apperrors.ExitSuccess, apperrors.ExitSuccess},
		{apperrors.ExitSuccess, apperrors.ExitErrorTimeout, apperrors.ExitErrorTimeout},
		{apperrors.ExitErrorTimeout, apperrors.ExitErrorGeneric, apperrors.ExitErrorTimeout},
		{apperrors.ExitErrorGeneric, apperrors.ExitErrorMismatch, apperrors.ExitErrorMismatch},
		{apperrors.ExitErrorMismatch, apperrors.ExitErrorGeneric, apperrors.ExitErrorMismatch},
		{apperrors.ExitErrorTimeout, apperrors.ExitSuccess, apperrors.ExitErrorTimeout},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, worse(tt.current, tt.next), "worse(%d, %d)", tt.current, tt.next)
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()
	assert.True(t, HasVersionFlag([]string{"square", "--version"}))
	assert.True(t, HasVersionFlag([]string{"-V"}))
	assert.False(t, HasVersionFlag([]string{"verify", "-v"}))

	var out bytes.Buffer
	PrintVersion(&out)
	assert.True(t, strings.HasPrefix(out.String(), "limbcalc "+Version))
}
