package exact

import (
	"math/big"

	"github.com/agbru/limbcalc/internal/limbs"
)

// ModularInverseScratchLen returns the scratch length ModularInverse needs
// for an n-limb operand.
func (e *Engine) ModularInverseScratchLen(n int) int {
	m := e.mul.MulmodBnm1NextSize(n)
	return m + e.mul.MulmodBnm1ScratchLen(m, n, (n+1)/2)
}

// ModularInverse sets is[:len(ds)] to the inverse of ds modulo B^len(ds).
// ds[0] must be odd and scratch must hold ModularInverseScratchLen(len(ds))
// limbs. is must not overlap ds or scratch.
func (e *Engine) ModularInverse(is, ds, scratch []big.Word) {
	n := len(ds)
	switch {
	case n == 0:
		panic(violation("ModularInverse", "empty operand"))
	case ds[0]&1 == 0:
		panic(violation("ModularInverse", "even operand"))
	case len(is) < n:
		panic(violation("ModularInverse", "output has %d limbs, need %d", len(is), n))
	case len(scratch) < e.ModularInverseScratchLen(n):
		panic(violation("ModularInverse", "scratch has %d limbs, need %d", len(scratch), e.ModularInverseScratchLen(n)))
	}
	e.modularInverse(is, ds, scratch)
}

// modularInverse computes the inverse at a base precision by dividing 1 by
// the truncated operand, then doubles the precision with
//
//	x' = x - x*(d*x - 1)
//
// where d*x - 1 is formed modulo B^m - 1. Its low limbs are known to be
// zero, so only the high part has to be recovered from the wrapped product.
func (e *Engine) modularInverse(is, ds, scratch []big.Word) {
	size := len(ds)
	var sizes []int
	for size >= e.thresholds.BinvNewton {
		sizes = append(sizes, size)
		size = (size + 1) / 2
	}

	one := scratch[:size]
	clear(one)
	one[0] = 1
	dinv := negInverseLimb(ds[0])
	if size < e.thresholds.DCBdivQ {
		divSchoolbook(is, one, ds[:size], dinv)
	} else {
		e.divDC(is, one, ds[:size], dinv)
	}

	prev := size
	for k := len(sizes) - 1; k >= 0; k-- {
		size := sizes[k]
		m := e.mul.MulmodBnm1NextSize(size)
		e.mul.MulmodBnm1(scratch[:m], m, ds[:size], is[:prev], scratch[m:])
		limbs.SubLimb(scratch[m:], scratch[:prev-(m-size)], 1)
		diff := size - prev
		e.mul.MulLow(is[prev:size], is[:diff], scratch[prev:size])
		limbs.NegInPlace(is[prev:size])
		prev = size
	}
}
