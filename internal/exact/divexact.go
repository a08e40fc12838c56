package exact

import (
	"math/big"
	"math/bits"
	"slices"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/limbs"
)

// ─────────────────────────────────────────────────────────────────────────────
// Binary division dispatch
// ─────────────────────────────────────────────────────────────────────────────

// ModularDivScratchLen returns the scratch ModularDiv needs for an n-limb
// dividend and a d-limb divisor. Only the Barrett path uses it.
func (e *Engine) ModularDivScratchLen(n, d int) int {
	if d < e.thresholds.MuBdivQ {
		return 0
	}
	return e.divBarrettScratchLen(n, d)
}

// ModularDiv sets qs[:len(ns)] = ns / ds mod B^len(ns) for an odd ds[0] and
// len(ns) >= len(ds). The schoolbook and divide-and-conquer paths destroy
// ns; the Barrett path leaves it intact.
func (e *Engine) ModularDiv(qs, ns, ds, scratch []big.Word) {
	checkModularDiv("ModularDiv", qs, ns, ds)
	if need := e.ModularDivScratchLen(len(ns), len(ds)); len(scratch) < need {
		panic(violation("ModularDiv", "scratch has %d limbs, need %d", len(scratch), need))
	}
	e.modularDiv(qs, ns, ds, scratch)
}

func (e *Engine) modularDiv(qs, ns, ds, scratch []big.Word) {
	switch d := len(ds); {
	case d < e.thresholds.DCBdivQ:
		divSchoolbook(qs, ns, ds, negInverseLimb(ds[0]))
	case d < e.thresholds.MuBdivQ:
		e.divDC(qs, ns, ds, negInverseLimb(ds[0]))
	default:
		e.divBarrett(qs, ns, ds, scratch)
	}
}

// ModularDivRefScratchLen returns the scratch ModularDivRef needs.
func (e *Engine) ModularDivRefScratchLen(n, d int) int {
	if d < e.thresholds.MuBdivQ {
		return n
	}
	return e.divBarrettScratchLen(n, d)
}

// ModularDivRef is ModularDiv for a read-only dividend. The result is
// identical.
func (e *Engine) ModularDivRef(qs, ns, ds, scratch []big.Word) {
	checkModularDiv("ModularDivRef", qs, ns, ds)
	if need := e.ModularDivRefScratchLen(len(ns), len(ds)); len(scratch) < need {
		panic(violation("ModularDivRef", "scratch has %d limbs, need %d", len(scratch), need))
	}
	e.modularDivRef(qs, ns, ds, scratch)
}

func (e *Engine) modularDivRef(qs, ns, ds, scratch []big.Word) {
	if len(ds) >= e.thresholds.MuBdivQ {
		e.divBarrett(qs, ns, ds, scratch)
		return
	}
	work := scratch[:len(ns)]
	copy(work, ns)
	e.modularDiv(qs, work, ds, nil)
}

// ModularDivMod sets qs[:q] = ns / ds mod B^q for q = len(ns) - len(ds) and
// rs[:len(ds)] to the remainder R with
//
//	ns - qs*ds = B^q * (R - b*B^len(ds))
//
// where b is the returned borrow. ns is not written.
func (e *Engine) ModularDivMod(qs, rs, ns, ds []big.Word) bool {
	n, d := len(ns), len(ds)
	switch {
	case d == 0:
		panic(violation("ModularDivMod", "empty divisor"))
	case ds[0]&1 == 0:
		panic(violation("ModularDivMod", "even divisor"))
	case n <= d:
		panic(violation("ModularDivMod", "dividend has %d limbs, need more than %d", n, d))
	case len(qs) < n-d || len(rs) < d:
		panic(violation("ModularDivMod", "output too short"))
	}
	if d >= e.thresholds.MuBdivQR && n >= d+2 {
		scratch := limbs.Acquire(e.divModBarrettScratchLen(n, d))
		defer limbs.Release(scratch)
		return e.divModBarrett(qs, rs, ns, ds, scratch)
	}
	work := limbs.AcquireDirty(n)
	defer limbs.Release(work)
	copy(work, ns)
	dinv := negInverseLimb(ds[0])
	var borrow bool
	if d < e.thresholds.DCBdivQR {
		borrow = divModSchoolbook(qs, work, ds, dinv)
	} else {
		borrow = e.divModDC(qs, work, ds, dinv)
	}
	copy(rs[:d], work[n-d:])
	return borrow
}

func checkModularDiv(op string, qs, ns, ds []big.Word) {
	switch {
	case len(ds) == 0:
		panic(violation(op, "empty divisor"))
	case ds[0]&1 == 0:
		panic(violation(op, "even divisor"))
	case len(ns) < len(ds):
		panic(violation(op, "dividend has %d limbs, divisor %d", len(ns), len(ds)))
	case len(qs) < len(ns):
		panic(violation(op, "quotient has %d limbs, need %d", len(qs), len(ns)))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Exact division
// ─────────────────────────────────────────────────────────────────────────────

// exactOperands validates the operands of the DivExactToOut variants and
// strips the low zero limbs that the divisor shares with the dividend.
func exactOperands(op string, qs, ns, ds []big.Word) ([]big.Word, []big.Word) {
	switch {
	case len(ds) == 0:
		panic(violation(op, "empty divisor"))
	case len(ns) < len(ds):
		panic(violation(op, "dividend has %d limbs, divisor %d", len(ns), len(ds)))
	case ds[len(ds)-1] == 0:
		panic(violation(op, "divisor is not normalized"))
	case len(qs) < len(ns)-len(ds)+1:
		panic(violation(op, "quotient has %d limbs, need %d", len(qs), len(ns)-len(ds)+1))
	}
	z := limbs.LowZeroLimbs(ds)
	if !limbs.IsZero(ns[:z]) {
		panic(apperrors.ContractViolation{Op: op, Err: ErrNotExact})
	}
	return ns[z:], ds[z:]
}

// shiftFor returns the trailing zero count of ds[0] and the divisor prefix
// that must be shifted to serve a quotient of qn limbs.
func shiftFor(ds []big.Word, qn int) (uint, int) {
	shift := uint(bits.TrailingZeros(uint(ds[0])))
	limit := len(ds)
	if limit > qn {
		limit = qn + 1
	}
	return shift, limit
}

// DivExactToOut sets qs[:len(ns)-len(ds)+1] = ns / ds for a divisor that
// divides ns exactly. Both ns and ds are used as work space and destroyed.
// ds must be normalized. A nonzero dividend limb below the divisor's lowest
// nonzero limb panics with ErrNotExact.
func (e *Engine) DivExactToOut(qs, ns, ds []big.Word) {
	ns, ds = exactOperands("DivExactToOut", qs, ns, ds)
	if len(ds) == 1 {
		divExactLimb(qs, ns, ds[0])
		return
	}
	qn := len(ns) - len(ds) + 1
	if shift, limit := shiftFor(ds, qn); shift != 0 {
		limbs.ShrInPlace(ds[:limit], shift)
		limbs.ShrInPlace(ns[:qn+1], shift)
	}
	e.divExactTail(qs, ns[:qn], ds[:min(len(ds), qn)])
}

// DivExactToOutValRef is DivExactToOut with a read-only divisor.
func (e *Engine) DivExactToOutValRef(qs, ns, ds []big.Word) {
	ns, ds = exactOperands("DivExactToOutValRef", qs, ns, ds)
	if len(ds) == 1 {
		divExactLimb(qs, ns, ds[0])
		return
	}
	qn := len(ns) - len(ds) + 1
	if shift, limit := shiftFor(ds, qn); shift != 0 {
		shifted := limbs.AcquireDirty(limit)
		defer limbs.Release(shifted)
		limbs.Shr(shifted, ds[:limit], shift)
		ds = shifted
		limbs.ShrInPlace(ns[:qn+1], shift)
	}
	e.divExactTail(qs, ns[:qn], ds[:min(len(ds), qn)])
}

// DivExactToOutRefVal is DivExactToOut with a read-only dividend.
func (e *Engine) DivExactToOutRefVal(qs, ns, ds []big.Word) {
	ns, ds = exactOperands("DivExactToOutRefVal", qs, ns, ds)
	if len(ds) == 1 {
		divExactLimb(qs, ns, ds[0])
		return
	}
	qn := len(ns) - len(ds) + 1
	if shift, limit := shiftFor(ds, qn); shift != 0 {
		limbs.ShrInPlace(ds[:limit], shift)
		shifted := limbs.AcquireDirty(qn + 1)
		defer limbs.Release(shifted)
		limbs.Shr(shifted, ns[:qn+1], shift)
		ns = shifted
	}
	e.divExactTailRef(qs, ns[:qn], ds[:min(len(ds), qn)])
}

// DivExactToOutRefRef is DivExactToOut with both operands read-only.
func (e *Engine) DivExactToOutRefRef(qs, ns, ds []big.Word) {
	ns, ds = exactOperands("DivExactToOutRefRef", qs, ns, ds)
	if len(ds) == 1 {
		divExactLimb(qs, ns, ds[0])
		return
	}
	qn := len(ns) - len(ds) + 1
	if shift, limit := shiftFor(ds, qn); shift != 0 {
		sd := limbs.AcquireDirty(limit)
		defer limbs.Release(sd)
		limbs.Shr(sd, ds[:limit], shift)
		ds = sd
		sn := limbs.AcquireDirty(qn + 1)
		defer limbs.Release(sn)
		limbs.Shr(sn, ns[:qn+1], shift)
		ns = sn
	}
	e.divExactTailRef(qs, ns[:qn], ds[:min(len(ds), qn)])
}

func (e *Engine) divExactTail(qs, ns, ds []big.Word) {
	scratch := limbs.Acquire(e.ModularDivScratchLen(len(ns), len(ds)))
	defer limbs.Release(scratch)
	e.modularDiv(qs, ns, ds, scratch)
}

func (e *Engine) divExactTailRef(qs, ns, ds []big.Word) {
	scratch := limbs.Acquire(e.ModularDivRefScratchLen(len(ns), len(ds)))
	defer limbs.Release(scratch)
	e.modularDivRef(qs, ns, ds, scratch)
}

// DivExact returns ns / ds without modifying either operand. The quotient
// is normalized; a zero quotient is an empty slice.
func (e *Engine) DivExact(ns, ds []big.Word) []big.Word {
	ns, ds = limbs.Normalize(ns), limbs.Normalize(ds)
	if len(ds) == 0 {
		panic(violation("DivExact", "division by zero"))
	}
	if len(ns) == 0 {
		return nil
	}
	if len(ns) < len(ds) {
		panic(apperrors.ContractViolation{Op: "DivExact", Err: ErrNotExact})
	}
	qs := make([]big.Word, len(ns)-len(ds)+1)
	e.DivExactToOutRefRef(qs, ns, ds)
	return slices.Clip(limbs.Normalize(qs))
}

// ─────────────────────────────────────────────────────────────────────────────
// Package-level functions on the default engine
// ─────────────────────────────────────────────────────────────────────────────

// DivExact divides with the default engine.
func DivExact(ns, ds []big.Word) []big.Word { return defaultEngine.DivExact(ns, ds) }

// ModularInverse inverts with the default engine, allocating its scratch.
func ModularInverse(is, ds []big.Word) {
	scratch := limbs.Acquire(defaultEngine.ModularInverseScratchLen(len(ds)))
	defer limbs.Release(scratch)
	defaultEngine.ModularInverse(is, ds, scratch)
}
