package exact

import (
	"math/big"

	"github.com/agbru/limbcalc/internal/limbs"
)

// ─────────────────────────────────────────────────────────────────────────────
// Divide-and-conquer quotient+remainder
// ─────────────────────────────────────────────────────────────────────────────

// divModBlock divides the low 2*len(ds) limbs of ns by ds, writing len(ds)
// quotient limbs, with the algorithm suited to len(ds).
func (e *Engine) divModBlock(qs, ns, ds []big.Word, dinv big.Word, scratch []big.Word) bool {
	if len(ds) < e.thresholds.DCBdivQR {
		return divModSchoolbook(qs, ns[:2*len(ds)], ds, dinv)
	}
	return e.divModDCHalves(qs, ns, ds, dinv, scratch)
}

// divModDCHalves is the balanced 2n/n step: the low half of the quotient
// comes from the low half of ds, the partial remainder is corrected by the
// high half of ds and the high half of the quotient is computed the same
// way. ns holds 2n limbs, scratch n limbs, n = len(ds) >= 2. The remainder
// is left in ns[n:2n] and the return value is its borrow.
func (e *Engine) divModDCHalves(qs, ns, ds []big.Word, dinv big.Word, scratch []big.Word) bool {
	n := len(ds)
	ns = ns[:2*n]
	scratch = scratch[:n]
	lo := n >> 1
	hi := n - lo

	carry := e.divModBlock(qs, ns, ds[:lo], dinv, scratch)
	e.mul.Mul(scratch, ds[lo:], qs[:lo])
	if carry {
		limbs.AddLimbInPlace(scratch[lo:], 1)
	}
	upper := ns[lo:]
	highest := limbs.SubInPlace(upper, scratch) != 0

	carry = e.divModBlock(qs[lo:], upper, ds[:hi], dinv, scratch)
	e.mul.Mul(scratch, qs[lo:lo+hi], ds[hi:])
	if carry {
		limbs.AddLimbInPlace(scratch[hi:], 1)
	}
	if limbs.SubSameInPlace(upper[hi:], scratch) != 0 {
		return true
	}
	return highest
}

// divModDC has the contract of divModSchoolbook for len(ds) >= 2. The
// quotient is produced in blocks of len(ds) limbs, the first block taking
// the remainder of q / len(ds).
func (e *Engine) divModDC(qs, ns, ds []big.Word, dinv big.Word) bool {
	n, d := len(ns), len(ds)
	scratch := limbs.Acquire(d)
	defer limbs.Release(scratch)
	qn := n - d
	qs = qs[:qn]

	var borrow, carry bool
	if qn <= d {
		carry = e.divModBlock(qs, ns, ds[:qn], dinv, scratch)
		if qn != d {
			e.mulAny(scratch, ds[qn:], qs)
			if carry {
				limbs.AddLimbInPlace(scratch[qn:], 1)
			}
			borrow = limbs.SubInPlace(ns[qn:], scratch[:d]) != 0
			carry = false
		}
		return borrow || carry
	}

	qm := qn % d
	if qm == 0 {
		qm = d
	}
	carry = e.divModBlock(qs, ns, ds[:qm], dinv, scratch)
	if qm != d {
		e.mulAny(scratch, ds[qm:], qs[:qm])
		if carry {
			limbs.AddLimbInPlace(scratch[qm:], 1)
		}
		borrow = limbs.SubInPlace(ns[qm:], scratch[:d]) != 0
		carry = false
	}
	for rest := qn - qm; rest != 0; rest -= d {
		qd := qn - rest
		window := ns[qd:]
		if carry && limbs.SubLimbInPlace(window[d:], 1) != 0 {
			borrow = true
		}
		carry = e.divModDCHalves(qs[qd:], window, ds, dinv, scratch)
	}
	return borrow || carry
}

// ─────────────────────────────────────────────────────────────────────────────
// Divide-and-conquer quotient only
// ─────────────────────────────────────────────────────────────────────────────

// divDCHalves sets qs[:n] = ns[:n] / ds mod B^n for n = len(ds). Each round
// computes the low half of the quotient with a remainder, folds the high
// half of ds back in with a low product only, and continues on the upper
// half. scratch holds n limbs.
func (e *Engine) divDCHalves(qs, ns, ds []big.Word, dinv big.Word, scratch []big.Word) {
	n := len(ds)
	rem := n
	for rem >= e.thresholds.DCBdivQ {
		m := n - rem
		lo := rem >> 1
		hi := rem - lo
		q := qs[m:]
		window := ns[m:]
		carry := e.divModDCHalves(q, window, ds[:lo], dinv, scratch)
		e.mul.MulLow(scratch[:lo], q[:lo], ds[hi:rem])
		limbs.SubSameInPlace(window[hi:rem], scratch[:lo])
		if lo < hi {
			c := limbs.SubMul(window[lo:2*lo], q[:lo], ds[lo])
			window[rem-1] -= c
			if carry {
				window[rem-1]--
			}
		}
		rem = hi
	}
	m := n - rem
	divSchoolbook(qs[m:], ns[m:n], ds[:rem], dinv)
}

// divDC has the contract of divSchoolbook for len(ds) >= 2.
func (e *Engine) divDC(qs, ns, ds []big.Word, dinv big.Word) {
	n, d := len(ns), len(ds)
	if n == d {
		if n < e.thresholds.DCBdivQ {
			divSchoolbook(qs, ns, ds, dinv)
			return
		}
		scratch := limbs.Acquire(n)
		defer limbs.Release(scratch)
		e.divDCHalves(qs, ns, ds, dinv, scratch)
		return
	}

	scratch := limbs.Acquire(d)
	defer limbs.Release(scratch)
	nm := n % d
	if nm == 0 {
		nm = d
	}
	carry := e.divModBlock(qs, ns, ds[:nm], dinv, scratch)
	if nm != d {
		e.mulAny(scratch, ds[nm:], qs[:nm])
		if carry {
			limbs.AddLimbInPlace(scratch[nm:], 1)
		}
		limbs.SubInPlace(ns[nm:], scratch[:d])
		carry = false
	}
	diff := n - d
	for m := nm; m != diff; m += d {
		if carry {
			limbs.SubLimbInPlace(ns[m+d:], 1)
		}
		carry = e.divModDCHalves(qs[m:], ns[m:], ds, dinv, scratch)
	}
	e.divDCHalves(qs[diff:], ns[diff:], ds, dinv, scratch)
}
