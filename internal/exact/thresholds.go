package exact

import (
	apperrors "github.com/agbru/limbcalc/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Algorithm crossover points
// ─────────────────────────────────────────────────────────────────────────────
//
// All values are divisor or operand lengths in limbs, measured on 64-bit
// x86. The calibrate sub-command re-measures them for the host.

const (
	// DefaultDCBdivQR is the divisor length from which quotient+remainder
	// division recurses instead of running the schoolbook loop.
	DefaultDCBdivQR = 44
	// DefaultDCBdivQ is the divisor length from which quotient-only
	// division recurses.
	DefaultDCBdivQ = 104
	// DefaultMuBdivQR is the divisor length from which quotient+remainder
	// division switches to the Barrett form.
	DefaultMuBdivQR = 1442
	// DefaultMuBdivQ is the divisor length from which quotient-only
	// division switches to the Barrett form.
	DefaultMuBdivQ = 1334
	// DefaultBinvNewton is the length from which the sequence inverse uses
	// Newton doubling instead of a single binary division.
	DefaultBinvNewton = 224
	// DefaultMulToMulmodBnm1For2NxN is the block length from which Barrett
	// blocks multiply modulo B^m - 1 instead of computing the full product.
	DefaultMulToMulmodBnm1For2NxN = 760
)

// Thresholds selects between the division and inversion algorithms.
type Thresholds struct {
	DCBdivQR               int `json:"dc_bdiv_qr"`
	DCBdivQ                int `json:"dc_bdiv_q"`
	MuBdivQR               int `json:"mu_bdiv_qr"`
	MuBdivQ                int `json:"mu_bdiv_q"`
	BinvNewton             int `json:"binv_newton"`
	MulToMulmodBnm1For2NxN int `json:"mul_to_mulmod_bnm1_for_2nxn"`
}

// DefaultThresholds returns the built-in crossover table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DCBdivQR:               DefaultDCBdivQR,
		DCBdivQ:                DefaultDCBdivQ,
		MuBdivQR:               DefaultMuBdivQR,
		MuBdivQ:                DefaultMuBdivQ,
		BinvNewton:             DefaultBinvNewton,
		MulToMulmodBnm1For2NxN: DefaultMulToMulmodBnm1For2NxN,
	}
}

// Validate reports the first entry that the algorithms cannot run with.
// The recursive kernels split their divisor in halves, so the
// divide-and-conquer crossovers must leave at least one limb on each side.
func (t Thresholds) Validate() error {
	switch {
	case t.DCBdivQR < 2:
		return apperrors.ValidationError{Field: "DCBdivQR", Message: "must be at least 2"}
	case t.DCBdivQ < 4:
		return apperrors.ValidationError{Field: "DCBdivQ", Message: "must be at least 4"}
	case t.MuBdivQ <= t.DCBdivQ:
		return apperrors.ValidationError{Field: "MuBdivQ", Message: "must exceed DCBdivQ"}
	case t.MuBdivQR < t.DCBdivQR:
		return apperrors.ValidationError{Field: "MuBdivQR", Message: "must not be below DCBdivQR"}
	case t.BinvNewton < 2:
		return apperrors.ValidationError{Field: "BinvNewton", Message: "must be at least 2"}
	case t.MulToMulmodBnm1For2NxN < 1:
		return apperrors.ValidationError{Field: "MulToMulmodBnm1For2NxN", Message: "must be positive"}
	}
	return nil
}
