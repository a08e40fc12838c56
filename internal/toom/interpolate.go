package toom

import (
	"math/big"
	"math/bits"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/exact"
	"github.com/agbru/limbcalc/internal/limbs"
)

// ─────────────────────────────────────────────────────────────────────────────
// Shared helpers
// ─────────────────────────────────────────────────────────────────────────────

func divBy3(x []big.Word) { exact.DivExactBy3(x, x) }

// subLsh sets x[:len(y)] -= y << s and returns the bits shifted out of the
// top plus the borrow.
func subLsh(x, y []big.Word, s uint) big.Word {
	return limbs.SubShlInPlace(x[:len(y)], y, s)
}

// addLsh sets x[:len(y)] += y << s and returns the carry.
func addLsh(x, y []big.Word, s uint) big.Word {
	return limbs.AddShlInPlace(x[:len(y)], y, s)
}

// subRsh sets x -= y >> s for len(x) >= len(y) > 0.
func subRsh(x, y []big.Word, s uint, op string) {
	noCarry(limbs.SubLimbInPlace(x, y[0]>>s), op, "shifted low limb")
	cy := subLsh(x, y[1:], limbs.W-s)
	noCarry(limbs.SubLimbInPlace(x[len(y)-1:], cy), op, "shifted high limb")
}

// subRshWrap is subRsh for an x held modulo B^len(x).
func subRshWrap(x, y []big.Word, s uint) {
	limbs.SubLimbInPlace(x, y[0]>>s)
	cy := subLsh(x, y[1:], limbs.W-s)
	limbs.SubLimbInPlace(x[len(y)-1:], cy)
}

// subShifted sets x[:len(x)-off] -= x[off:]. The loop runs upward so every
// source limb is read before it is overwritten.
func subShifted(x []big.Word, off int) big.Word {
	var b uint
	for i := 0; i+off < len(x); i++ {
		var d uint
		d, b = bits.Sub(uint(x[i]), uint(x[i+off]), b)
		x[i] = big.Word(d)
	}
	return big.Word(b)
}

// fixSign restores the top bits that an exact division by a divisor with
// b trailing zero bits cleared from a negative quotient.
func fixSign(x []big.Word, b uint) {
	top := len(x) - 1
	if x[top]&(limbs.MaxLimb<<(limbs.W-b-1)) != 0 {
		x[top] |= limbs.MaxLimb << (limbs.W - b)
	}
}

func needLen(op, name string, x []big.Word, n int) {
	if len(x) < n {
		panic(apperrors.NewContractViolation(op, "%s has %d limbs, need %d", name, len(x), n))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Five points: 0, 1, -1, 2, infinity
// ─────────────────────────────────────────────────────────────────────────────

// Interpolate5Points recombines the Toom-3 values of a degree-4 product with
// k-limb coefficients. On entry c[:2k] holds v(0), c[2k:4k+1] holds v(1),
// c[4k+1:4k+twoR] holds v(inf) except its low limb, which is passed as vinf0
// because it shares c[4k] with the top of v(1). v2 holds v(2) and vm1 holds
// |v(-1)|, both 2k+1 limbs, with vm1Neg set when v(-1) < 0. On return
// c[:4k+twoR] is the product; v2 and vm1 are destroyed.
func Interpolate5Points(c, v2, vm1 []big.Word, k, twoR int, vm1Neg bool, vinf0 big.Word) {
	const op = "Interpolate5Points"
	k2 := 2 * k
	k2p1 := k2 + 1
	if k < 1 || twoR < 1 || twoR > k2 {
		panic(apperrors.NewContractViolation(op, "invalid sizes k=%d twoR=%d", k, twoR))
	}
	needLen(op, "c", c, 4*k+twoR)
	needLen(op, "v2", v2, k2p1)
	needLen(op, "vm1", vm1, k2p1)
	v2 = v2[:k2p1]
	vm1 = vm1[:k2p1]
	v1 := c[k2 : k2+k2p1]

	if vm1Neg {
		noCarry(limbs.AddSameInPlace(v2, vm1), op, "v2+vm1")
	} else {
		noCarry(limbs.SubSameInPlace(v2, vm1), op, "v2-vm1")
	}
	divBy3(v2)
	if vm1Neg {
		noCarry(limbs.AddSameInPlace(vm1, v1), op, "vm1+v1")
	} else {
		noCarry(limbs.SubRightInPlace(v1, vm1), op, "v1-vm1")
	}
	noCarry(limbs.ShrInPlace(vm1, 1), op, "halving vm1")

	if limbs.SubSameInPlace(c[k2:2*k2], c[:k2]) != 0 {
		c[2*k2]--
	}
	noCarry(limbs.SubSameInPlace(v2, v1), op, "v2-v1")
	noCarry(limbs.ShrInPlace(v2, 1), op, "halving v2")
	noCarry(limbs.SubSameInPlace(v1, vm1), op, "v1-vm1")

	if limbs.AddSameInPlace(c[k:3*k+1], vm1) != 0 {
		noCarry(limbs.AddLimbInPlace(c[3*k+1:4*k+twoR], 1), op, "vm1 carry")
	}

	vinf := c[4*k : 4*k+twoR]
	saved := vinf[0]
	vinf[0] = vinf0
	cy := limbs.Shl(vm1, vinf, 1)
	cy += limbs.SubSameInPlace(v2[:twoR], vm1[:twoR])
	noCarry(limbs.SubLimbInPlace(v2[twoR:], cy), op, "v2-2vinf")

	if twoR > k+1 {
		if limbs.AddSameInPlace(c[4*k:5*k+1], v2[k:]) != 0 {
			noCarry(limbs.AddLimbInPlace(c[5*k+1:4*k+twoR], 1), op, "v2 high carry")
		}
	} else {
		noCarry(limbs.AddSameInPlace(vinf, v2[k:k+twoR]), op, "v2 high")
	}

	cy = limbs.SubSameInPlace(c[k2:k2+twoR], vinf)
	vinf0 = c[4*k]
	c[4*k] = saved
	if cy != 0 {
		noCarry(limbs.SubLimbInPlace(c[k2+twoR:k2+k2p1], 1), op, "v1-vinf")
	}

	if limbs.SubSameInPlace(c[k:k2], v2[:k]) != 0 {
		noCarry(limbs.SubLimbInPlace(c[k2:4*k+1], 1), op, "vm1-v2")
	}
	if limbs.AddSameInPlace(c[3*k:4*k], v2[:k]) != 0 {
		c[4*k]++
		check(c[4*k] >= 1, op, "v2 low carry")
	}
	noCarry(limbs.AddLimbInPlace(c[4*k:4*k+twoR], vinf0), op, "vinf0")
}

// ─────────────────────────────────────────────────────────────────────────────
// Six points: 0, 1, -1, 2, -2, infinity
// ─────────────────────────────────────────────────────────────────────────────

// Interpolate6Points recombines a degree-5 product with n-limb coefficients.
// On entry out[:2n] holds w5 = f(0), out[2n:4n+1] holds w3 = f(1) and
// out[5n:5n+nHigh] holds the leading coefficient w0. w4 = |f(-1)|,
// w2 = |f(-2)| and w1 = f(2) are 2n+1 limbs each. The product is written to
// out[:5n+nHigh]; the separate inputs are destroyed.
func Interpolate6Points(out []big.Word, n, nHigh int, w4Neg bool, w4 []big.Word, w2Neg bool, w2, w1 []big.Word) {
	const op = "Interpolate6Points"
	if n < 1 || nHigh < 1 || nHigh > 2*n {
		panic(apperrors.NewContractViolation(op, "invalid sizes n=%d nHigh=%d", n, nHigh))
	}
	l := 2*n + 1
	needLen(op, "out", out, 5*n+nHigh)
	needLen(op, "w4", w4, l)
	needLen(op, "w2", w2, l)
	needLen(op, "w1", w1, l)
	w4, w2, w1 = w4[:l], w2[:l], w1[:l]
	w5 := out[:2*n]
	w3 := out[2*n : 2*n+l]

	// w2 = (f(2) - f(-2)) / 4, w1 = (f(2) + f(-2)) / 2
	if w2Neg {
		limbs.AddSameInPlace(w2, w1)
	} else {
		limbs.SubRightInPlace(w1, w2)
	}
	limbs.ShrInPlace(w2, 2)
	if limbs.SubSameInPlace(w1[:2*n], w5) != 0 {
		w1[2*n]--
	}
	limbs.ShrInPlace(w1, 1)
	limbs.SubSameInPlace(w1, w2)
	limbs.ShrInPlace(w1, 1)

	if w4Neg {
		limbs.AddSameInPlace(w4, w3)
	} else {
		limbs.SubRightInPlace(w3, w4)
	}
	limbs.ShrInPlace(w4, 1)

	limbs.SubSameInPlace(w2, w4)
	divBy3(w2)
	limbs.SubSameInPlace(w3, w4)
	if limbs.SubSameInPlace(w3[:2*n], w5) != 0 {
		w3[2*n]--
	}
	limbs.SubSameInPlace(w1, w3)
	divBy3(w1)

	if limbs.AddSameInPlace(out[n:3*n+1], w4) != 0 {
		noCarry(limbs.AddLimbInPlace(out[3*n+1:4*n+1], 1), op, "w4 carry")
	}

	cy := limbs.Shl(w4, out[5*n:5*n+nHigh], 2)
	cy += limbs.SubSameInPlace(w2[:nHigh], w4[:nHigh])
	noCarry(limbs.SubLimbInPlace(w2[nHigh:], cy), op, "w2-4w0")

	if limbs.SubSameInPlace(out[n:2*n], w2[:n]) != 0 {
		noCarry(limbs.SubLimbInPlace(out[2*n:2*n+l], 1), op, "w4-w2")
	}

	cy = limbs.AddSameInPlace(out[3*n:4*n], w2[:n])
	s1 := out[4*n] + cy
	cy = w2[2*n] + limbs.AddSame(out[4*n:5*n], w1[:n], w2[n:2*n])
	noCarry(limbs.AddLimbInPlace(w1[n:], cy), op, "w1 carry")

	var s2 big.Word
	if nHigh > n {
		s2 = w1[2*n] + limbs.AddSameInPlace(out[5*n:6*n], w1[n:2*n])
	} else {
		s2 = limbs.AddSameInPlace(out[5*n:5*n+nHigh], w1[n:n+nHigh])
	}

	// w3 spans out[2n:], so the subtraction reads ahead of what it writes.
	// A temporary 1 in the top limb keeps the following borrow from
	// running off the end.
	cy = subShifted(out[2*n:5*n+nHigh], 2*n)
	top := 5*n + nHigh - 1
	embankment := out[top] - 1
	out[top] = 1
	if nHigh > n {
		if s1 > s2 {
			noCarry(limbs.AddLimbInPlace(out[4*n:5*n+nHigh], s1-s2), op, "s1")
		} else {
			noCarry(limbs.SubLimbInPlace(out[4*n:5*n+nHigh], s2-s1), op, "s2")
		}
		if cy != 0 {
			noCarry(limbs.SubLimbInPlace(out[3*n+nHigh:5*n+nHigh], 1), op, "w3 borrow")
		}
		noCarry(limbs.AddLimbInPlace(out[6*n:5*n+nHigh], s2), op, "s2 high")
	} else {
		noCarry(limbs.AddLimbInPlace(out[4*n:5*n+nHigh], s1), op, "s1")
		if cy != 0 {
			s2++
		}
		noCarry(limbs.SubLimbInPlace(out[3*n+nHigh:5*n+nHigh], s2), op, "s2")
	}
	out[top] += embankment
}

// ─────────────────────────────────────────────────────────────────────────────
// Seven points: 0, 1, -1, 2, -2, 1/2, infinity
// ─────────────────────────────────────────────────────────────────────────────

// Interpolate7Points recombines the Toom-4 values of a degree-6 product with
// n-limb coefficients. On entry out[:2n] holds f(0), out[2n:4n+1] holds f(1)
// and out[6n:6n+nHigh] holds the leading coefficient. w1 = |f(-2)|,
// w3 = |f(-1)|, w4 = f(2) and w5 = 64*f(1/2) are 2n+1 limbs each; scratch
// needs 2n+1 limbs. The product is written to out[:6n+nHigh].
func Interpolate7Points(out []big.Word, n, nHigh int, w1Neg bool, w1 []big.Word, w3Neg bool, w3, w4, w5, scratch []big.Word) {
	const op = "Interpolate7Points"
	m := 2*n + 1
	if n < 1 || nHigh < 1 || nHigh >= m {
		panic(apperrors.NewContractViolation(op, "invalid sizes n=%d nHigh=%d", n, nHigh))
	}
	needLen(op, "out", out, 6*n+nHigh)
	needLen(op, "w1", w1, m)
	needLen(op, "w3", w3, m)
	needLen(op, "w4", w4, m)
	needLen(op, "w5", w5, m)
	needLen(op, "scratch", scratch, m)
	w1, w3, w4, w5 = w1[:m], w3[:m], w4[:m], w5[:m]
	w0 := out[:2*n]
	w2 := out[2*n : 2*n+m]
	w6 := out[6*n : 6*n+nHigh]
	tp := scratch

	limbs.AddSameInPlace(w5, w4)
	if w1Neg {
		limbs.AddSameInPlace(w1, w4)
	} else {
		limbs.SubRightInPlace(w4, w1)
	}
	check(w1[0]&1 == 0, op, "w1 even")
	limbs.ShrInPlace(w1, 1)
	limbs.SubInPlace(w4, w0)
	limbs.SubSameInPlace(w4, w1)
	check(w4[0]&3 == 0, op, "w4 divisible by 4")
	limbs.ShrInPlace(w4, 2)
	tp[nHigh] = limbs.Shl(tp, w6, 4)
	limbs.SubInPlace(w4, tp[:nHigh+1])

	if w3Neg {
		limbs.AddSameInPlace(w3, w2)
	} else {
		limbs.SubRightInPlace(w2, w3)
	}
	check(w3[0]&1 == 0, op, "w3 even")
	limbs.ShrInPlace(w3, 1)
	limbs.SubSameInPlace(w2, w3)

	limbs.SubMul(w5, w2, 65)
	limbs.SubInPlace(w2, w6)
	limbs.SubInPlace(w2, w0)
	limbs.AddMul(w5, w2, 45)
	check(w5[0]&1 == 0, op, "w5 even")
	limbs.ShrInPlace(w5, 1)
	limbs.SubSameInPlace(w4, w2)
	divBy3(w4)
	limbs.SubSameInPlace(w2, w4)

	limbs.SubRightInPlace(w5, w1)
	limbs.Shl(tp, w3, 3)
	limbs.SubSameInPlace(w5, tp[:m])
	exact.DivExactLimbInPlace(w5, 9)
	limbs.SubSameInPlace(w3, w5)

	exact.DivExactLimbInPlace(w1, 15)
	limbs.AddSameInPlace(w1, w5)
	check(w1[0]&1 == 0, op, "w1 even")
	limbs.ShrInPlace(w1, 1)
	limbs.SubSameInPlace(w5, w1)

	check(w1[2*n] < 2 && w2[2*n] < 3 && w3[2*n] < 4 && w4[2*n] < 3 && w5[2*n] < 2, op, "coefficient bounds")

	if limbs.AddSameInPlace(out[n:n+m], w1) != 0 {
		noCarry(limbs.AddLimbInPlace(out[n+m:n+m+n], 1), op, "w1 carry")
	}
	cy := out[4*n] + limbs.AddSameInPlace(out[3*n:4*n], w3[:n])
	noCarry(limbs.AddLimbInPlace(w3[n:], cy), op, "w3 carry")
	cy = w3[2*n] + limbs.AddSame(out[4*n:5*n], w3[n:2*n], w4[:n])
	noCarry(limbs.AddLimbInPlace(w4[n:], cy), op, "w4 carry")
	cy = w4[2*n] + limbs.AddSame(out[5*n:6*n], w4[n:2*n], w5[:n])
	noCarry(limbs.AddLimbInPlace(w5[n:], cy), op, "w5 carry")
	if nHigh > n+1 {
		noCarry(limbs.AddInPlace(w6, w5[n:]), op, "w5 high")
	} else {
		noCarry(limbs.AddSameInPlace(w6, w5[n:n+nHigh]), op, "w5 high")
		check(limbs.IsZero(w5[n+nHigh:]), op, "w5 beyond the product")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Eight points: 0, ±1, ±2, ±4, infinity
// ─────────────────────────────────────────────────────────────────────────────

// Interpolate8Points recombines a degree-7 product with n-limb coefficients
// from values already paired by the ±point coupling. On entry out[:2n]
// holds f(0), out[3n:6n+1] holds the ±2 pair, out[7n:7n+spt] holds the
// leading coefficient; r3 (±4) and r7 (±1) are 3n+1 limbs each. spt must be
// at least n. The product is written to out[:7n+spt].
func Interpolate8Points(out []big.Word, n, spt int, r3, r7 []big.Word) {
	const op = "Interpolate8Points"
	l := 3*n + 1
	if n < 1 || spt < n || spt > 2*n {
		panic(apperrors.NewContractViolation(op, "invalid sizes n=%d spt=%d", n, spt))
	}
	needLen(op, "out", out, 7*n+spt)
	needLen(op, "r3", r3, l)
	needLen(op, "r7", r7, l)
	r3, r7 = r3[:l], r7[:l]
	lo := out[:2*n]
	r5 := out[3*n : 3*n+l]
	r1 := out[7*n : 7*n+spt]

	subRsh(r3[n:], lo, 4, op)
	noCarry(limbs.SubLimbInPlace(r3[spt:], subLsh(r3, r1, 12)), op, "r3")
	subRsh(r5[n:], lo, 2, op)
	noCarry(limbs.SubLimbInPlace(r5[spt:], subLsh(r5, r1, 6)), op, "r5")
	if limbs.SubSameInPlace(r7[n:3*n], lo) != 0 {
		r7[3*n]--
	}
	if limbs.SubSameInPlace(r7[:spt], r1) != 0 {
		noCarry(limbs.SubLimbInPlace(r7[spt:], 1), op, "r7")
	}

	noCarry(limbs.SubSameInPlace(r3, r5), op, "r3-r5")
	noCarry(limbs.ShrInPlace(r3, 2), op, "quartering r3")
	noCarry(limbs.SubSameInPlace(r5, r7), op, "r5-r7")
	noCarry(limbs.SubSameInPlace(r3, r5), op, "r3-r5")
	exact.DivExactLimbInPlace(r3, 45)
	divBy3(r5)
	noCarry(subLsh(r5, r3, 2), op, "r5-4r3")

	// Recomposition. The low halves of r7 and r5 are added and subtracted
	// together, so only their net carry propagates.
	c1 := limbs.AddSameInPlace(lo[n:], r7[:n])
	c2 := limbs.SubSameInPlace(lo[n:], r5[:n])
	switch {
	case c1 != 0 && c2 == 0:
		noCarry(limbs.AddLimbInPlace(r7[n:], 1), op, "r7 carry")
	case c2 != 0 && c1 == 0:
		noCarry(limbs.SubLimbInPlace(r7[n:], 1), op, "r7 borrow")
	}
	if limbs.SubSame(out[2*n:3*n], r7[n:2*n], r5[n:2*n]) != 0 {
		noCarry(limbs.SubLimbInPlace(r7[2*n:], 1), op, "r7 middle")
	}

	if limbs.AddSameInPlace(r5[2*n:3*n], r3[:n]) != 0 {
		r5[3*n]++
	}
	c1 = limbs.AddSameInPlace(r5[:n+1], r7[2*n:])
	c2 = limbs.SubSameInPlace(r5[:n+1], r5[2*n:3*n+1])
	switch {
	case c1 != 0 && c2 == 0:
		noCarry(limbs.AddLimbInPlace(r5[n+1:], 1), op, "r5 carry")
	case c2 != 0 && c1 == 0:
		noCarry(limbs.SubLimbInPlace(r5[n+1:], 1), op, "r5 borrow")
	}
	noCarry(limbs.SubSameInPlace(r5[n:], r3[n:]), op, "r5-r3")

	mid := out[6*n : 7*n]
	if limbs.AddLimb(mid, r3[n:2*n], mid[0]) != 0 {
		noCarry(limbs.AddLimbInPlace(r3[2*n:], 1), op, "r3 carry")
	}
	top := r3[3*n]
	if limbs.AddSameInPlace(r1[:n], r3[2*n:3*n]) != 0 {
		top++
	}
	if spt == n {
		check(top == 0, op, "r3 top")
	} else {
		noCarry(limbs.AddLimbInPlace(r1[n:], top), op, "r1")
	}
}
