package config

import (
	"bytes"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/exact"
	"github.com/agbru/limbcalc/internal/toom"
)

var testStrategies = []string{"bigfft", "mathbig", "toom", "toom-parallel"}

// ─────────────────────────────────────────────────────────────────────────────
// Parsing
// ─────────────────────────────────────────────────────────────────────────────

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := ParseConfig("limbcalc", nil, io.Discard, testStrategies)
	require.NoError(t, err)
	assert.Equal(t, CmdVerify, cfg.Command)
	assert.Equal(t, defaultLimbs, cfg.Limbs)
	assert.Equal(t, defaultDivisorLimbs, cfg.DivisorLimbs)
	assert.Equal(t, defaultRounds, cfg.Rounds)
	assert.Equal(t, 1, cfg.Repeat)
	assert.Equal(t, StrategyAll, cfg.Strategy)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Equal(t, zerolog.WarnLevel, cfg.ZerologLevel())
	assert.Zero(t, cfg.Thresholds)
}

func TestParseConfigCommands(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg AppConfig)
	}{
		{"square", []string{"square", "-limbs", "64", "-strategy", "toom"}, func(t *testing.T, cfg AppConfig) {
			assert.Equal(t, CmdSquare, cfg.Command)
			assert.Equal(t, 64, cfg.Limbs)
			assert.Equal(t, "toom", cfg.Strategy)
		}},
		{"divexact", []string{"divexact", "-limbs", "10", "-divisor-limbs", "3", "-seed", "7"}, func(t *testing.T, cfg AppConfig) {
			assert.Equal(t, CmdDivExact, cfg.Command)
			assert.Equal(t, 3, cfg.DivisorLimbs)
			assert.Equal(t, int64(7), cfg.Seed)
		}},
		{"invert quiet", []string{"invert", "-q", "-json"}, func(t *testing.T, cfg AppConfig) {
			assert.True(t, cfg.Quiet)
			assert.True(t, cfg.JSON)
		}},
		{"verify flags without command", []string{"-rounds", "5", "-timeout", "3s", "-v"}, func(t *testing.T, cfg AppConfig) {
			assert.Equal(t, CmdVerify, cfg.Command)
			assert.Equal(t, 5, cfg.Rounds)
			assert.Equal(t, 3*time.Second, cfg.Timeout)
			assert.True(t, cfg.Verbose)
		}},
		{"thresholds", []string{"calibrate", "-sqr-toom3", "120", "-mu-bdiv-q", "2000", "-fft-threshold", "900"}, func(t *testing.T, cfg AppConfig) {
			assert.Equal(t, CmdCalibrate, cfg.Command)
			assert.Equal(t, 120, cfg.SqrToom3)
			assert.Equal(t, 2000, cfg.MuBdivQ)
			assert.Equal(t, 900, cfg.FFTThreshold)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := ParseConfig("limbcalc", tt.args, io.Discard, testStrategies)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"square", "-nope"}},
		{"zero limbs", []string{"square", "-limbs", "0"}},
		{"zero divisor", []string{"divexact", "-divisor-limbs", "0"}},
		{"zero rounds", []string{"-rounds", "0"}},
		{"zero repeat", []string{"-repeat", "0"}},
		{"zero timeout", []string{"-timeout", "0s"}},
		{"unknown strategy", []string{"square", "-strategy", "abacus"}},
		{"json and tui", []string{"-json", "-tui"}},
		{"bad log level", []string{"-log-level", "loud"}},
		{"negative threshold", []string{"square", "-sqr-toom2", "-1"}},
		{"stray argument", []string{"square", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseConfig("limbcalc", tt.args, io.Discard, testStrategies)
			require.Error(t, err)
			var cfgErr apperrors.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, apperrors.ExitErrorConfig, apperrors.ExitCodeFor(err))
		})
	}
}

func TestParseConfigHelp(t *testing.T) {
	t.Parallel()
	for _, args := range [][]string{{"-h"}, {"square", "--help"}, {"help"}} {
		var buf bytes.Buffer
		_, err := ParseConfig("limbcalc", args, &buf, testStrategies)
		assert.ErrorIs(t, err, flag.ErrHelp, "args %v", args)
		assert.Contains(t, buf.String(), "Usage: limbcalc")
		assert.Contains(t, buf.String(), CmdCalibrate)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Environment overrides (not parallel: t.Setenv)
// ─────────────────────────────────────────────────────────────────────────────

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"LIMBS", "321")
	t.Setenv(EnvPrefix+"TIMEOUT", "90s")
	t.Setenv(EnvPrefix+"QUIET", "yes")
	t.Setenv(EnvPrefix+"STRATEGY", "mathbig")
	t.Setenv(EnvPrefix+"SQR_TOOM4", "300")
	t.Setenv(EnvPrefix+"SEED", "99")

	cfg, err := ParseConfig("limbcalc", []string{"square"}, io.Discard, testStrategies)
	require.NoError(t, err)
	assert.Equal(t, 321, cfg.Limbs)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, "mathbig", cfg.Strategy)
	assert.Equal(t, 300, cfg.SqrToom4)
	assert.Equal(t, int64(99), cfg.Seed)
}

func TestEnvOverridesFlagWins(t *testing.T) {
	t.Setenv(EnvPrefix+"LIMBS", "321")
	t.Setenv(EnvPrefix+"QUIET", "true")

	cfg, err := ParseConfig("limbcalc", []string{"square", "-limbs", "12", "-q=false"}, io.Discard, testStrategies)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Limbs)
	assert.False(t, cfg.Quiet)
}

func TestEnvOverridesInvalid(t *testing.T) {
	for key, val := range map[string]string{"LIMBS": "many", "TUI": "perhaps", "TIMEOUT": "soon"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(EnvPrefix+key, val)
			_, err := ParseConfig("limbcalc", []string{"square"}, io.Discard, testStrategies)
			var cfgErr apperrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Message, EnvPrefix+key)
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]bool{"TRUE": true, "1": true, "yes": true, "False": false, "0": false, "NO": false} {
		got, err := parseBoolEnv(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseBoolEnv("maybe")
	assert.Error(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Thresholds
// ─────────────────────────────────────────────────────────────────────────────

func TestToThresholds(t *testing.T) {
	t.Parallel()
	e, s := AppConfig{}.ToThresholds()
	assert.Equal(t, exact.DefaultThresholds(), e)
	assert.Equal(t, toom.DefaultThresholds(), s)

	cfg := AppConfig{Thresholds: Thresholds{SqrToom2: 30, Parallel: 64, DCBdivQ: 110, MulmodBlock: 800, BinvNewton: 300}}
	e, s = cfg.ToThresholds()
	assert.Equal(t, 30, s.SqrToom2)
	assert.Equal(t, 64, s.Parallel)
	assert.Equal(t, toom.DefaultSqrToom3, s.SqrToom3)
	assert.Equal(t, 110, e.DCBdivQ)
	assert.Equal(t, 800, e.MulToMulmodBnm1For2NxN)
	assert.Equal(t, 300, e.BinvNewton)
	assert.NoError(t, e.Validate())
	assert.NoError(t, s.Validate())
}

func TestMultiplierOptions(t *testing.T) {
	t.Parallel()
	assert.Empty(t, AppConfig{}.MultiplierOptions())
	assert.Len(t, AppConfig{Thresholds: Thresholds{FFTThreshold: 10}}.MultiplierOptions(), 1)
}

func TestApplyAdaptiveThresholds(t *testing.T) {
	t.Parallel()
	cfg := ApplyAdaptiveThresholds(AppConfig{})
	assert.Equal(t, EstimateOptimalParallelThreshold(), cfg.Parallel)
	assert.Equal(t, EstimateOptimalFFTThreshold(), cfg.FFTThreshold)
	assert.GreaterOrEqual(t, cfg.Parallel, 2)

	kept := ApplyAdaptiveThresholds(AppConfig{Thresholds: Thresholds{Parallel: 77, FFTThreshold: 5}})
	assert.Equal(t, 77, kept.Parallel)
	assert.Equal(t, 5, kept.FFTThreshold)
}
