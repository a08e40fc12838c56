package exact

import (
	"math/big"
	"math/bits"

	"github.com/agbru/limbcalc/internal/limbs"
)

// Barrett ("mu") binary division computes an inverse I of the low limbs of
// the divisor once and produces the quotient in blocks of len(I) limbs:
// each block is a low product of the running remainder with I, after which
// block*D is subtracted from the remainder.

// blockLen returns the inverse length for a quotient of qn limbs and a
// divisor of d limbs: qn is cut into ceil(qn/d) blocks of equal size.
func blockLen(qn, d int) int {
	blocks := (qn-1)/d + 1
	return (qn-1)/blocks + 1
}

// productScratchLen returns the limbs blockProduct needs for a d-limb
// divisor and an in-limb block.
func (e *Engine) productScratchLen(d, in int) int {
	if in < e.thresholds.MulToMulmodBnm1For2NxN {
		return d + in
	}
	m := e.mul.MulmodBnm1NextSize(d)
	return m + e.mul.MulmodBnm1ScratchLen(m, d, in)
}

// blockProduct leaves ds*q in tp, correct from limb len(q) upward. Below the
// mulmod crossover it is a plain product. Above it the product is taken
// modulo B^m - 1; the limbs that wrapped around are recovered from low,
// which holds the known low limbs of the product.
func (e *Engine) blockProduct(tp, ds, q, low []big.Word) {
	d, in := len(ds), len(q)
	if in < e.thresholds.MulToMulmodBnm1For2NxN {
		e.mul.Mul(tp[:d+in], ds, q)
		return
	}
	m := e.mul.MulmodBnm1NextSize(d)
	e.mul.MulmodBnm1(tp[:m], m, ds, q, tp[m:])
	if w := d + in - m; w > 0 {
		if limbs.SubSame(tp[m:m+w], tp[:w], low[:w]) != 0 {
			limbs.SubLimbInPlace(tp[w:], 1)
		}
	}
}

// subWithBorrow sets out = x - y - borrow over len(x) limbs.
func subWithBorrow(out, x, y []big.Word, borrow bool) bool {
	b := limbs.SubSame(out, x, y) != 0
	if borrow && limbs.SubLimbInPlace(out[:len(x)], 1) != 0 {
		b = true
	}
	return b
}

// subShiftDown sets x[:len(y)] = x[off:off+len(y)] - y, reading ahead of
// the limbs it writes.
func subShiftDown(x []big.Word, off int, y []big.Word) bool {
	var b uint
	for i, yi := range y {
		var d uint
		d, b = bits.Sub(uint(x[i+off]), uint(yi), b)
		x[i] = big.Word(d)
	}
	return b != 0
}

// ─────────────────────────────────────────────────────────────────────────────
// Quotient only
// ─────────────────────────────────────────────────────────────────────────────

// divBarrettScratchLen returns the scratch divBarrett needs.
func (e *Engine) divBarrettScratchLen(n, d int) int {
	var in, need int
	if n > d {
		in = blockLen(n, d)
		need = d + e.productScratchLen(d, in)
	} else {
		in = n - n>>1
		need = e.productScratchLen(n, in)
	}
	return in + max(need, e.ModularInverseScratchLen(in))
}

// divBarrett sets qs[:len(ns)] = ns / ds mod B^len(ns). ns is not written.
func (e *Engine) divBarrett(qs, ns, ds, scratch []big.Word) {
	if len(ns) > len(ds) {
		e.divBarrettGreater(qs, ns, ds, scratch)
		return
	}
	e.divBarrettSame(qs, ns, ds, scratch)
}

func (e *Engine) divBarrettGreater(qs, ns, ds, scratch []big.Word) {
	n, d := len(ns), len(ds)
	in := blockLen(n, d)
	is, rest := scratch[:in], scratch[in:]
	e.modularInverse(is, ds[:in], rest)
	rs, tp := rest[:d], rest[d:]
	copy(rs, ns[:d])

	// step subtracts block*ds from the remainder window and shifts it down
	// by one block.
	carry := false
	step := func(block, next, tail []big.Word) {
		e.blockProduct(tp, ds, block, rs)
		if d != in && limbs.SubSame(rs[:d-in], rs[in:d], tp[in:d]) != 0 {
			if carry {
				limbs.AddLimbInPlace(tp[d:], 1)
			} else {
				carry = true
			}
		}
		carry = subWithBorrow(rs[d-in:], next, tail, carry)
	}

	e.mul.MulLow(qs[:in], rs[:in], is)
	left := n
	for ; left > 2*in; left -= in {
		diff := n - left
		step(qs[diff:diff+in], ns[diff+d:diff+d+in], tp[d:d+in])
		e.mul.MulLow(qs[diff+in:diff+2*in], rs[:in], is)
	}
	diff := n - left
	step(qs[diff:diff+in], ns[diff+d:], tp[d:left])
	limit := left - in
	e.mul.MulLow(qs[diff+in:diff+in+limit], rs[:limit], is[:limit])
}

func (e *Engine) divBarrettSame(qs, ns, ds, scratch []big.Word) {
	n := len(ns)
	in := n - n>>1
	is, tp := scratch[:in], scratch[in:]
	e.modularInverse(is, ds[:in], tp)
	e.mul.MulLow(qs[:in], ns[:in], is)
	if in < e.thresholds.MulToMulmodBnm1For2NxN {
		e.mul.Mul(tp[:n+in], ds, qs[:in])
	} else {
		m := e.mul.MulmodBnm1NextSize(n)
		e.mul.MulmodBnm1(tp[:m], m, ds, qs[:in], tp[m:])
		// Only the borrow out of the wrapped limbs matters here.
		if w := n + in - m; w > 0 && limbs.Cmp(tp[:w], ns[:w]) < 0 {
			limbs.SubLimbInPlace(tp[w:], 1)
		}
	}
	diff := n - in
	limbs.SubSame(tp[:diff], ns[in:], tp[in:in+diff])
	e.mul.MulLow(qs[in:n], tp[:diff], is[:diff])
}

// ─────────────────────────────────────────────────────────────────────────────
// Quotient and remainder
// ─────────────────────────────────────────────────────────────────────────────

// divModBarrettScratchLen returns the scratch divModBarrett needs.
func (e *Engine) divModBarrettScratchLen(n, d int) int {
	qn := n - d
	var in int
	if qn > d {
		in = blockLen(qn, d)
	} else {
		in = qn - qn>>1
	}
	return in + max(e.productScratchLen(d, in), e.ModularInverseScratchLen(in))
}

// divModBarrett sets qs[:q] = ns / ds mod B^q for q = len(ns) - len(ds) and
// rs[:len(ds)] = (ns - qs*ds) / B^q, offset by B^len(ds) when the result is
// true. Requires len(ds) >= 2 and len(ns) >= len(ds) + 2.
func (e *Engine) divModBarrett(qs, rs, ns, ds, scratch []big.Word) bool {
	if len(ns) > 2*len(ds) {
		return e.divModBarrettUnbalanced(qs, rs, ns, ds, scratch)
	}
	return e.divModBarrettBalanced(qs, rs, ns, ds, scratch)
}

func (e *Engine) divModBarrettUnbalanced(qs, rs, ns, ds, scratch []big.Word) bool {
	n, d := len(ns), len(ds)
	qn := n - d
	rs = rs[:d]
	in := blockLen(qn, d)
	is, tp := scratch[:in], scratch[in:]
	e.modularInverse(is, ds[:in], tp)
	copy(rs, ns[:d])

	carry := false
	left := qn
	for ; left > in; left -= in {
		q := qs[qn-left : qn-left+in]
		e.mul.MulLow(q, rs[:in], is)
		e.blockProduct(tp, ds, q, rs)
		if d != in && limbs.SubSame(rs[:d-in], rs[in:d], tp[in:d]) != 0 {
			if carry {
				limbs.AddLimbInPlace(tp[d:], 1)
			} else {
				carry = true
			}
		}
		carry = subWithBorrow(rs[d-in:], ns[n-left:n-left+in], tp[d:d+in], carry)
	}
	q := qs[qn-left : qn]
	e.mul.MulLow(q, rs[:left], is[:left])
	e.blockProduct(tp, ds, q, rs)
	if d != left && subShiftDown(rs, left, tp[left:d]) {
		if carry {
			limbs.AddLimbInPlace(tp[d:], 1)
		} else {
			carry = true
		}
	}
	return subWithBorrow(rs[d-left:], ns[n-left:], tp[d:d+left], carry)
}

func (e *Engine) divModBarrettBalanced(qs, rs, ns, ds, scratch []big.Word) bool {
	n, d := len(ns), len(ds)
	qn := n - d
	rs = rs[:d]
	in := qn - qn>>1
	is, tp := scratch[:in], scratch[in:]
	e.modularInverse(is, ds[:in], tp)
	e.mul.MulLow(qs[:in], ns[:in], is)
	e.blockProduct(tp, ds, qs[:in], ns)

	left := qn - in
	carry := limbs.SubSame(rs, ns[in:in+d], tp[in:in+d]) != 0
	e.mul.MulLow(qs[in:qn], rs[:left], is[:left])
	e.blockProduct(tp, ds, qs[in:qn], rs)
	if subShiftDown(rs, left, tp[left:d]) {
		if carry {
			limbs.AddLimbInPlace(tp[d:], 1)
		} else {
			carry = true
		}
	}
	return subWithBorrow(rs[d-left:], ns[in+d:], tp[d:d+left], carry)
}
