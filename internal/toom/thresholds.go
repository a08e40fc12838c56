package toom

import (
	apperrors "github.com/agbru/limbcalc/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Squaring crossover points
// ─────────────────────────────────────────────────────────────────────────────
//
// Operand lengths in limbs. The defaults were measured on 64-bit x86; the
// calibrate sub-command re-measures them for the host.

const (
	// DefaultSqrBasecase is the length from which the basecase uses the
	// diagonal square instead of a plain product loop.
	DefaultSqrBasecase = 0
	DefaultSqrToom2    = 28
	DefaultSqrToom3    = 93
	DefaultSqrToom4    = 250
	DefaultSqrToom6    = 351
	DefaultSqrToom8    = 454
	// DefaultSqrFFT is the length from which SquareToOut hands the square
	// to the multiplier.
	DefaultSqrFFT = 5760
	// DefaultParallel is the length from which SquareParallel fans out.
	DefaultParallel = 4096
)

// Minimum crossovers. Each kernel must only receive lengths it can split.
const (
	minSqrToom2 = 2
	minSqrToom3 = 5
	minSqrToom4 = 10
	minSqrToom6 = 32
	minSqrToom8 = 58
)

// Thresholds selects between the squaring kernels.
type Thresholds struct {
	SqrBasecase int `json:"sqr_basecase"`
	SqrToom2    int `json:"sqr_toom2"`
	SqrToom3    int `json:"sqr_toom3"`
	SqrToom4    int `json:"sqr_toom4"`
	SqrToom6    int `json:"sqr_toom6"`
	SqrToom8    int `json:"sqr_toom8"`
	SqrFFT      int `json:"sqr_fft"`
	Parallel    int `json:"parallel"`
}

// DefaultThresholds returns the built-in crossover table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SqrBasecase: DefaultSqrBasecase,
		SqrToom2:    DefaultSqrToom2,
		SqrToom3:    DefaultSqrToom3,
		SqrToom4:    DefaultSqrToom4,
		SqrToom6:    DefaultSqrToom6,
		SqrToom8:    DefaultSqrToom8,
		SqrFFT:      DefaultSqrFFT,
		Parallel:    DefaultParallel,
	}
}

// Validate reports the first entry that the kernels cannot run with.
func (t Thresholds) Validate() error {
	switch {
	case t.SqrBasecase < 0:
		return apperrors.ValidationError{Field: "SqrBasecase", Message: "must not be negative"}
	case t.SqrToom2 < minSqrToom2:
		return apperrors.ValidationError{Field: "SqrToom2", Message: "must be at least 2"}
	case t.SqrToom3 < max(minSqrToom3, t.SqrToom2):
		return apperrors.ValidationError{Field: "SqrToom3", Message: "must be at least 5 and not below SqrToom2"}
	case t.SqrToom4 < max(minSqrToom4, t.SqrToom3):
		return apperrors.ValidationError{Field: "SqrToom4", Message: "must be at least 10 and not below SqrToom3"}
	case t.SqrToom6 < max(minSqrToom6, t.SqrToom4):
		return apperrors.ValidationError{Field: "SqrToom6", Message: "must be at least 32 and not below SqrToom4"}
	case t.SqrToom8 < max(minSqrToom8, t.SqrToom6):
		return apperrors.ValidationError{Field: "SqrToom8", Message: "must be at least 58 and not below SqrToom6"}
	case t.SqrFFT < 1:
		return apperrors.ValidationError{Field: "SqrFFT", Message: "must be positive"}
	case t.Parallel < minSqrToom2:
		return apperrors.ValidationError{Field: "Parallel", Message: "must be at least 2"}
	}
	return nil
}
