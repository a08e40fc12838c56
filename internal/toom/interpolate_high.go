package toom

import (
	"math/big"
	"math/bits"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/exact"
	"github.com/agbru/limbcalc/internal/limbs"
)

// narrowLimbs is set when the sixteen-point values at ±8 and ±1/8 overflow
// 3n+1 limbs. Those two pairs are then carried modulo B^(3n+1), and shifts
// by 42 bits are split into a limb offset and a bit shift.
const (
	narrowLimbs = limbs.W < 43
	hi42, lo42  = 42 / limbs.W, 42 % limbs.W
)

func checkHighPoints(op string, pp []big.Word, n, spt, topCoeff int, half bool, rs ...[]big.Word) {
	l := 3*n + 1
	if n < 1 || spt < 1 || spt > 2*n {
		panic(apperrors.NewContractViolation(op, "invalid sizes n=%d spt=%d", n, spt))
	}
	size := topCoeff*n + spt
	if half {
		size += n
	}
	needLen(op, "pp", pp, max(size, (topCoeff-3)*n+l))
	for _, r := range rs {
		needLen(op, "intermediate value", r, l)
	}
}

// recompose adds the 3n+1-limb value r into pp at limb offset base, where
// pp[base+n] already holds a carry that belongs to the same position, and
// propagates through pp[base+3n:base+5n+1].
func recompose(pp, r []big.Word, base, n int, op string) {
	n3 := 3 * n
	pp[base+n] += limbs.AddSameInPlace(pp[base:base+n], r[:n])
	cy := limbs.AddLimb(pp[base+n:base+2*n], r[n:2*n], pp[base+n])
	noCarry(limbs.AddLimbInPlace(r[2*n:n3+1], cy), op, "middle carry")
	cy = r[n3] + limbs.AddSameInPlace(pp[base+2*n:base+n3], r[2*n:n3])
	noCarry(limbs.AddLimbInPlace(pp[base+n3:base+5*n+1], cy), op, "high carry")
}

// recomposeTop adds the leading coupled value r1 at limb offset base and,
// for an odd number of points, the extra spt high limbs.
func recomposeTop(pp, r1 []big.Word, base, n, spt int, half bool, op string) {
	n3 := 3 * n
	pp[base+n] += limbs.AddSameInPlace(pp[base:base+n], r1[:n])
	if !half {
		noCarry(limbs.AddLimb(pp[base+n:base+n+spt], r1[n:n+spt], pp[base+n]), op, "top")
		return
	}
	cy := limbs.AddLimb(pp[base+n:base+2*n], r1[n:2*n], pp[base+n])
	noCarry(limbs.AddLimbInPlace(r1[2*n:n3+1], cy), op, "top middle")
	if spt > n {
		cy = r1[n3] + limbs.AddSameInPlace(pp[base+2*n:base+n3], r1[2*n:n3])
		noCarry(limbs.AddLimbInPlace(pp[base+n3:base+n+n+spt], cy), op, "top high")
	} else {
		noCarry(limbs.AddSameInPlace(pp[base+2*n:base+2*n+spt], r1[2*n:2*n+spt]), op, "top high")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Twelve points: 0, ±1/4, ±1/2, ±1, ±2, ±4 and, when half, infinity
// ─────────────────────────────────────────────────────────────────────────────

// Interpolate12Points recombines a degree-10 product (degree 11 when half
// is set) with n-limb coefficients from coupled ±point values. On entry
// pp[:2n] holds f(0), pp[3n:6n+1] the ±1/4 pair, pp[7n:10n+1] the ±2 pair
// and, when half, pp[11n:11n+spt] the leading coefficient. r1 (±4), r3 (±1),
// r5 (±1/2) and wsi (scratch) are 3n+1 limbs each. The product is written to
// pp[:10n+spt], or pp[:11n+spt] when half.
func Interpolate12Points(pp, r1, r3, r5 []big.Word, n, spt int, half bool, wsi []big.Word) {
	const op = "Interpolate12Points"
	checkHighPoints(op, pp, n, spt, 10, half, r1, r3, r5, wsi)
	n3 := 3 * n
	l := n3 + 1
	r1, r3, r5, wsi = r1[:l], r3[:l], r5[:l], wsi[:l]
	lo := pp[:2*n]
	r4 := pp[n3 : n3+l]
	r2 := pp[7*n : 7*n+l]

	if half {
		r0 := pp[11*n : 11*n+spt]
		cy := limbs.SubSameInPlace(r3[:spt], r0)
		noCarry(limbs.SubLimbInPlace(r3[spt:], cy), op, "r3-r0")
		cy = subLsh(r2, r0, 10)
		noCarry(limbs.SubLimbInPlace(r2[spt:], cy), op, "r2-r0")
		subRsh(r5, r0, 2, op)
		cy = subLsh(r1, r0, 20)
		noCarry(limbs.SubLimbInPlace(r1[spt:], cy), op, "r1-r0")
		subRsh(r4, r0, 4, op)
	}

	r4[n3] -= subLsh(r4[n:], lo, 20)
	subRsh(r1[n:], lo, 4, op)
	noCarry(limbs.AddSame(wsi, r1, r4), op, "r1+r4")
	limbs.SubSameInPlace(r4, r1)
	r1, wsi = wsi, r1

	r5[n3] -= subLsh(r5[n:], lo, 10)
	subRsh(r2[n:], lo, 2, op)
	limbs.SubSame(wsi, r5, r2)
	noCarry(limbs.AddSameInPlace(r2, r5), op, "r2+r5")
	r5 = wsi

	if limbs.SubSameInPlace(r3[n:n3], lo) != 0 {
		r3[n3]--
	}

	limbs.SubSameInPlace(r4, r5)
	subLsh(r4, r5, 8)
	exact.DivExactLimbInPlace(r4, 2835<<2)
	fixSign(r4, 2)

	subLsh(r5, r4, 2)
	addLsh(r5, r4, 6)
	exact.DivExactBy255(r5)

	noCarry(subLsh(r2, r3, 5), op, "r2-32r3")
	noCarry(subLsh(r1, r2, 6), op, "r1-64r2")
	noCarry(subLsh(r1, r2, 5), op, "r1-32r2")
	noCarry(subLsh(r1, r2, 2), op, "r1-4r2")
	noCarry(subLsh(r1, r3, 9), op, "r1-512r3")
	exact.DivExactLimbInPlace(r1, 42525)

	noCarry(limbs.SubSameInPlace(r2, r1), op, "r2-r1")
	noCarry(addLsh(r2, r1, 5), op, "r2+32r1")
	noCarry(subLsh(r2, r1, 8), op, "r2-256r1")
	exact.DivExactLimbInPlace(r2, 9<<2)

	noCarry(limbs.SubSameInPlace(r3, r2), op, "r3-r2")
	limbs.SubRightInPlace(r2, r4)
	noCarry(limbs.ShrInPlace(r4, 1), op, "halving r4")
	noCarry(limbs.SubSameInPlace(r2, r4), op, "r2-r4")

	limbs.AddSameInPlace(r5, r1)
	noCarry(limbs.ShrInPlace(r5, 1), op, "halving r5")
	noCarry(limbs.SubSameInPlace(r3, r1), op, "r3-r1")
	noCarry(limbs.SubSameInPlace(r1, r5), op, "r1-r5")

	cy := limbs.AddSameInPlace(pp[n:2*n], r5[:n])
	cy = limbs.AddLimb(pp[2*n:n3], r5[n:2*n], cy)
	noCarry(limbs.AddLimbInPlace(r5[2*n:], cy), op, "r5 middle")
	cy = r5[n3] + limbs.AddSameInPlace(pp[n3:4*n], r5[2*n:n3])
	noCarry(limbs.AddLimbInPlace(pp[4*n:6*n+1], cy), op, "r5 high")

	recompose(pp, r3, 5*n, n, op)
	recomposeTop(pp, r1, 9*n, n, spt, half, op)
}

// ─────────────────────────────────────────────────────────────────────────────
// Sixteen points: 0, ±1/8, ±1/4, ±1/2, ±1, ±2, ±4, ±8 and, when half, infinity
// ─────────────────────────────────────────────────────────────────────────────

// Interpolate16Points recombines a degree-14 product (degree 15 when half
// is set) with n-limb coefficients from coupled ±point values. On entry
// pp[:2n] holds f(0), pp[3n:6n+1] the ±1/2 pair, pp[7n:10n+1] the ±1 pair,
// pp[11n:14n+1] the ±4 pair and, when half, pp[15n:15n+spt] the leading
// coefficient. r1 (±8), r3 (±2), r5 (±1/4), r7 (±1/8) and wsi (scratch) are
// 3n+1 limbs each. The product is written to pp[:14n+spt], or pp[:15n+spt]
// when half. With limbs narrower than 43 bits r1 and r7 may hold their pairs
// modulo B^(3n+1).
func Interpolate16Points(pp, r1, r3, r5, r7 []big.Word, n, spt int, half bool, wsi []big.Word) {
	const op = "Interpolate16Points"
	checkHighPoints(op, pp, n, spt, 14, half, r1, r3, r5, r7, wsi)
	n3 := 3 * n
	l := n3 + 1
	r1, r3, r5, r7, wsi = r1[:l], r3[:l], r5[:l], r7[:l], wsi[:l]
	lo := pp[:2*n]
	r6 := pp[n3 : n3+l]
	r4 := pp[7*n : 7*n+l]
	r2 := pp[11*n : 11*n+l]

	if half {
		r0 := pp[15*n : 15*n+spt]
		cy := limbs.SubSameInPlace(r4[:spt], r0)
		noCarry(limbs.SubLimbInPlace(r4[spt:], cy), op, "r4-r0")
		cy = subLsh(r3, r0, 14)
		noCarry(limbs.SubLimbInPlace(r3[spt:], cy), op, "r3-r0")
		subRsh(r6, r0, 2, op)
		cy = subLsh(r2, r0, 28)
		noCarry(limbs.SubLimbInPlace(r2[spt:], cy), op, "r2-r0")
		subRsh(r5, r0, 4, op)
		cy = subLsh(r1[hi42:], r0, lo42)
		if narrowLimbs {
			limbs.SubLimbInPlace(r1[spt+hi42:], cy)
			subRshWrap(r7, r0, 6)
		} else {
			noCarry(limbs.SubLimbInPlace(r1[spt:], cy), op, "r1-r0")
			subRsh(r7, r0, 6, op)
		}
	}

	r5[n3] -= subLsh(r5[n:], lo, 28)
	subRsh(r2[n:], lo, 4, op)
	limbs.SubSame(wsi, r5, r2)
	noCarry(limbs.AddSameInPlace(r2, r5), op, "r2+r5")
	r5, wsi = wsi, r5

	r6[n3] -= subLsh(r6[n:], lo, 14)
	subRsh(r3[n:], lo, 2, op)
	noCarry(limbs.AddSame(wsi, r3, r6), op, "r3+r6")
	limbs.SubSameInPlace(r6, r3)
	r3, wsi = wsi, r3

	if narrowLimbs {
		subLsh(r7[n+hi42:], lo, lo42)
		subRshWrap(r1[n:], lo, 6)
	} else {
		r7[n3] -= subLsh(r7[n:], lo, 42)
		subRsh(r1[n:], lo, 6, op)
	}
	limbs.SubSame(wsi, r7, r1)
	cy := limbs.AddSameInPlace(r1, r7)
	if !narrowLimbs {
		noCarry(cy, op, "r1+r7")
	}
	r7 = wsi

	if limbs.SubSameInPlace(r4[n:n3], lo) != 0 {
		r4[n3]--
	}

	subLsh(r5, r6, 2)
	subLsh(r5, r6, 10)

	limbs.SubMul(r7, r5, 1300)
	subLsh(r7, r6, 4)
	subLsh(r7, r6, 12)
	subLsh(r7, r6, 20)
	divExact2(r7, 255, 188513325)

	limbs.SubMul(r5, r7, 12567555)
	exact.DivExactLimbInPlace(r5, 2835<<6)
	fixSign(r5, 6)

	limbs.AddSameInPlace(r6, r7)
	subLsh(r6, r7, 12)
	addLsh(r6, r5, 8)
	subLsh(r6, r5, 4)
	exact.DivExactLimbInPlace(r6, 255<<2)
	fixSign(r6, 2)

	noCarry(subLsh(r3, r4, 7), op, "r3-128r4")
	noCarry(subLsh(r2, r4, 13), op, "r2-8192r4")
	noCarry(limbs.SubMul(r2, r3, 400), op, "r2-400r3")

	// r1 wraps here when limbs are narrow.
	c1 := subLsh(r1, r4, 19)
	c2 := limbs.SubMul(r1, r2, 1428)
	c3 := limbs.SubMul(r1, r3, 112896)
	if !narrowLimbs {
		noCarry(c1, op, "r1-r4")
		noCarry(c2, op, "r1-1428r2")
		noCarry(c3, op, "r1-112896r3")
	}
	divExact2(r1, 255, 182712915)

	noCarry(limbs.SubMul(r2, r1, 15181425), op, "r2-r1")
	exact.DivExactLimbInPlace(r2, 42525<<4)

	noCarry(limbs.SubSameInPlace(r3, r1), op, "r3-r1")
	noCarry(addLsh(r3, r1, 7), op, "r3+128r1")
	noCarry(subLsh(r3, r1, 12), op, "r3-4096r1")
	noCarry(limbs.SubMul(r3, r2, 900), op, "r3-900r2")
	exact.DivExactLimbInPlace(r3, 9<<4)

	noCarry(limbs.SubSameInPlace(r4, r1), op, "r4-r1")
	noCarry(limbs.SubSameInPlace(r4, r3), op, "r4-r3")
	noCarry(limbs.SubSameInPlace(r4, r2), op, "r4-r2")

	limbs.AddSameInPlace(r6, r2)
	noCarry(limbs.ShrInPlace(r6, 1), op, "halving r6")
	noCarry(limbs.SubSameInPlace(r2, r6), op, "r2-r6")

	limbs.SubRightInPlace(r3, r5)
	noCarry(limbs.ShrInPlace(r5, 1), op, "halving r5")
	noCarry(limbs.SubSameInPlace(r3, r5), op, "r3-r5")

	limbs.AddSameInPlace(r7, r1)
	noCarry(limbs.ShrInPlace(r7, 1), op, "halving r7")
	noCarry(limbs.SubSameInPlace(r1, r7), op, "r1-r7")

	cy = limbs.AddSameInPlace(pp[n:2*n], r7[:n])
	cy = limbs.AddLimb(pp[2*n:n3], r7[n:2*n], cy)
	noCarry(limbs.AddLimbInPlace(r7[2*n:], cy), op, "r7 middle")
	cy = r7[n3] + limbs.AddSameInPlace(pp[n3:4*n], r7[2*n:n3])
	noCarry(limbs.AddLimbInPlace(pp[4*n:6*n+1], cy), op, "r7 high")

	recompose(pp, r5, 5*n, n, op)
	recompose(pp, r3, 9*n, n, op)
	recomposeTop(pp, r1, 13*n, n, spt, half, op)
}

// divExact2 sets x = x / (a·b) for an exact quotient, in one step when the
// product fits a limb.
func divExact2(x []big.Word, a, b big.Word) {
	if hi, lo := bits.Mul(uint(a), uint(b)); hi == 0 {
		exact.DivExactLimbInPlace(x, big.Word(lo))
		return
	}
	exact.DivExactLimbInPlace(x, a)
	exact.DivExactLimbInPlace(x, b)
}
