package toom

import (
	"math/big"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/limbs"
)

// ─────────────────────────────────────────────────────────────────────────────
// Evaluation at ±point pairs
// ─────────────────────────────────────────────────────────────────────────────
//
// The operand x is split into chunks of n limbs; the top chunk may be
// shorter. Every helper writes n+1-limb values P(+p) and |P(-p)| and reports
// whether P(-p) is negative. tp is n+1 limbs of scratch.

// noCarry panics when an operation whose result is known to fit produced a
// carry or borrow.
func noCarry(c big.Word, op, what string) {
	if c != 0 {
		panic(apperrors.NewContractViolation(op, "unexpected carry in %s", what))
	}
}

func check(ok bool, op, what string) {
	if !ok {
		panic(apperrors.NewContractViolation(op, "invariant failed: %s", what))
	}
}

// sumDiff turns the even-part sum xp and odd-part sum tp into xp+tp and
// |xp-tp|.
func sumDiff(xp, xm, tp []big.Word, n int) bool {
	neg := limbs.Cmp(xp[:n+1], tp[:n+1]) < 0
	if neg {
		limbs.SubSame(xm, tp[:n+1], xp)
	} else {
		limbs.SubSame(xm, xp[:n+1], tp)
	}
	limbs.AddSameInPlace(xp[:n+1], tp)
	return neg
}

// evalDeg3PM1 evaluates a four-chunk operand at ±1.
func evalDeg3PM1(xp1, xm1, x []big.Word, n int, tp []big.Word) bool {
	xp1[n] = limbs.AddSame(xp1, x[:n], x[2*n:3*n])
	tp[n] = limbs.Add(tp, x[n:2*n], x[3*n:])
	return sumDiff(xp1, xm1, tp, n)
}

// evalDeg3PM2 evaluates a four-chunk operand at ±2.
func evalDeg3PM2(xp2, xm2, x []big.Word, n int, tp []big.Word) bool {
	x3 := x[3*n:]
	h := len(x3)
	xp2[n] = limbs.AddShl(xp2, x[:n], x[2*n:3*n], 2)
	cy := limbs.AddShl(tp, x[n:n+h], x3, 2)
	if h < n {
		cy = limbs.AddLimb(tp[h:n], x[n+h:2*n], cy)
	}
	tp[n] = cy
	limbs.ShlInPlace(tp[:n+1], 1)
	return sumDiff(xp2, xm2, tp, n)
}

// evalPM1 evaluates a (k+1)-chunk operand at ±1 for k >= 3.
func evalPM1(xp1, xm1 []big.Word, k int, x []big.Word, n int, tp []big.Word) bool {
	const op = "evalPM1"
	xp1[n] = limbs.AddSame(xp1, x[:n], x[2*n:3*n])
	for i := 4; i < k; i += 2 {
		noCarry(limbs.AddInPlace(xp1[:n+1], x[i*n:(i+1)*n]), op, "even sum")
	}
	tp[n] = limbs.AddSame(tp, x[n:2*n], x[3*n:4*n])
	for i := 5; i < k; i += 2 {
		noCarry(limbs.AddInPlace(tp[:n+1], x[i*n:(i+1)*n]), op, "odd sum")
	}
	if top := x[k*n:]; k&1 != 0 {
		noCarry(limbs.AddInPlace(tp[:n+1], top), op, "top chunk")
	} else {
		noCarry(limbs.AddInPlace(xp1[:n+1], top), op, "top chunk")
	}
	return sumDiff(xp1, xm1, tp, n)
}

// evalPM2 evaluates a (k+1)-chunk operand at ±2 by Horner steps of 4 over
// each parity class.
func evalPM2(xp2, xm2 []big.Word, k int, x []big.Word, n int, tp []big.Word) bool {
	const op = "evalPM2"
	top := x[k*n:]
	h := len(top)
	cy := limbs.AddShl(xp2, x[(k-2)*n:(k-2)*n+h], top, 2)
	if h != n {
		cy = limbs.AddLimb(xp2[h:n], x[(k-2)*n+h:(k-1)*n], cy)
	}
	for i := k - 4; i >= 0; i -= 2 {
		cy = cy<<2 + limbs.AddShl(xp2[:n], x[i*n:(i+1)*n], xp2[:n], 2)
	}
	xp2[n] = cy

	k--
	cy = limbs.AddShl(tp, x[(k-2)*n:(k-1)*n], x[k*n:(k+1)*n], 2)
	for i := k - 4; i >= 0; i -= 2 {
		cy = cy<<2 + limbs.AddShl(tp[:n], x[i*n:(i+1)*n], tp[:n], 2)
	}
	tp[n] = cy

	if k&1 != 0 {
		noCarry(limbs.ShlInPlace(tp[:n+1], 1), op, "odd part")
	} else {
		noCarry(limbs.ShlInPlace(xp2[:n+1], 1), op, "even part")
	}
	neg := sumDiff(xp2, xm2, tp, n)
	if k&1 == 0 {
		neg = !neg
	}
	return neg
}

// evalPM2Exp evaluates a (k+1)-chunk operand at ±2^shift.
func evalPM2Exp(xp2, xm2 []big.Word, k int, x []big.Word, n int, shift uint, tp []big.Word) bool {
	const op = "evalPM2Exp"
	xp2[n] = limbs.AddShl(xp2, x[:n], x[2*n:3*n], 2*shift)
	for i := 4; i < k; i += 2 {
		xp2[n] += limbs.AddShlInPlace(xp2[:n], x[i*n:(i+1)*n], uint(i)*shift)
	}
	tp[n] = limbs.Shl(tp, x[n:2*n], shift)
	for i := 3; i < k; i += 2 {
		tp[n] += limbs.AddShlInPlace(tp[:n], x[i*n:(i+1)*n], uint(i)*shift)
	}
	top := x[k*n:]
	h := len(top)
	xm2[h] = limbs.Shl(xm2, top, uint(k)*shift)
	if k&1 != 0 {
		noCarry(limbs.AddInPlace(tp[:n+1], xm2[:h+1]), op, "top chunk")
	} else {
		noCarry(limbs.AddInPlace(xp2[:n+1], xm2[:h+1]), op, "top chunk")
	}
	return sumDiff(xp2, xm2, tp, n)
}

// evalPM2RExp evaluates the reversed (q+1)-chunk operand at ±2^shift, that
// is 2^(shift*q) * P(±2^-shift).
func evalPM2RExp(rp, rm []big.Word, q int, x []big.Word, n int, shift uint, ws []big.Word) bool {
	const op = "evalPM2RExp"
	rp[n] = limbs.Shl(rp, x[:n], shift*uint(q))
	ws[n] = limbs.Shl(ws, x[n:2*n], shift*uint(q-1))
	top := x[q*n:]
	if q&1 != 0 {
		noCarry(limbs.AddInPlace(ws[:n+1], top), op, "top chunk")
		rp[n] += limbs.AddShlInPlace(rp[:n], x[(q-1)*n:q*n], shift)
	} else {
		noCarry(limbs.AddInPlace(rp[:n+1], top), op, "top chunk")
	}
	for i := 2; i < q-1; {
		rp[n] += limbs.AddShlInPlace(rp[:n], x[i*n:(i+1)*n], shift*uint(q-i))
		i++
		ws[n] += limbs.AddShlInPlace(ws[:n], x[i*n:(i+1)*n], shift*uint(q-i))
		i++
	}
	return sumDiff(rp, rm, ws, n)
}

// coupleHandling combines the squares pp = S(+p) and np = S(-p), each
// len(np) limbs, into the odd part shifted right by ps plus the even part
// shifted right by ns and placed off limbs higher. The result occupies
// pp[:len(np)+off]; np is destroyed.
func coupleHandling(pp, np []big.Word, negative bool, off int, ps, ns uint) {
	l := len(np)
	if negative {
		limbs.Rsh1Sub(np, pp[:l], np)
	} else {
		limbs.Rsh1Add(np, pp[:l], np)
	}
	limbs.SubSameInPlace(pp[:l], np)
	if ps > 0 {
		limbs.ShrInPlace(pp[:l], ps)
	}
	if ns > 0 {
		limbs.ShrInPlace(np, ns)
	}
	pp[l] = limbs.AddSameInPlace(pp[off:l], np[:l-off])
	noCarry(limbs.AddLimb(pp[l:l+off], np[l-off:], pp[l]), "coupleHandling", "even part")
}
