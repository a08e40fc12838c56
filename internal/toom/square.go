package toom

import (
	"math/big"
	"math/bits"

	"github.com/agbru/limbcalc/internal/limbs"
)

// ─────────────────────────────────────────────────────────────────────────────
// Basecase
// ─────────────────────────────────────────────────────────────────────────────

// SquareBasecase writes x² to out[:2*len(x)]. It computes the triangle of
// cross products once, doubles it and adds the diagonal squares. out must
// not overlap x.
func SquareBasecase(out, x []big.Word) {
	const op = "SquareBasecase"
	check(len(x) > 0, op, "x is empty")
	needLen(op, "out", out, 2*len(x))
	squareBasecase(out[:2*len(x)], x)
}

func squareBasecase(out, x []big.Word) {
	n := len(x)
	clear(out)
	for i := 0; i < n-1; i++ {
		out[i+n] = limbs.AddMul(out[2*i+1:i+n], x[i+1:], x[i])
	}
	if n > 1 {
		limbs.ShlInPlace(out, 1)
	}
	var cy uint
	for i, xi := range x {
		hi, lo := bits.Mul(uint(xi), uint(xi))
		var c uint
		lo, c = bits.Add(uint(out[2*i]), lo, cy)
		out[2*i] = big.Word(lo)
		hi, cy = bits.Add(uint(out[2*i+1]), hi, c)
		out[2*i+1] = big.Word(hi)
	}
}

// mulBasecase is the row-by-row product x·x, used below SqrBasecase.
func mulBasecase(out, x []big.Word) {
	n := len(x)
	out[n] = limbs.MulLimb(out[:n], x, x[0])
	for i := 1; i < n; i++ {
		out[n+i] = limbs.AddMul(out[i:i+n], x, x[i])
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Recursion
// ─────────────────────────────────────────────────────────────────────────────

// Recursion ceilings. A kernel only recurses into kernels up to its own
// level, except Toom-8 which may use any of them.
const (
	level2 = 2
	level3 = 3
	level4 = 4
	level6 = 6
	level8 = 8
)

// rec squares x into out[:2*len(x)] with the fastest kernel allowed by the
// thresholds and the ceiling.
func (s *Squarer) rec(out, x, scratch []big.Word, ceiling int) {
	n := len(x)
	t := &s.thresholds
	switch {
	case n < t.SqrToom2:
		s.basecase(out, x)
	case ceiling == level2 || n < t.SqrToom3:
		s.toom2(out, x, scratch)
	case ceiling == level3 || n < t.SqrToom4:
		s.toom3(out, x, scratch)
	case ceiling == level4 || n < t.SqrToom6:
		s.toom4(out, x, scratch)
	case ceiling == level6 || n < t.SqrToom8:
		s.toom6(out, x, scratch)
	default:
		s.toom8(out, x, scratch)
	}
}

func (s *Squarer) basecase(out, x []big.Word) {
	if len(x) < s.thresholds.SqrBasecase {
		mulBasecase(out[:2*len(x)], x)
		return
	}
	squareBasecase(out[:2*len(x)], x)
}

// ─────────────────────────────────────────────────────────────────────────────
// Scratch sizes and valid lengths
// ─────────────────────────────────────────────────────────────────────────────

// SquareToom2ScratchLen returns the scratch length SquareToom2 needs for an
// n-limb operand.
func (s *Squarer) SquareToom2ScratchLen(n int) int { return 2 * (n + limbs.W) }

// SquareToom3ScratchLen returns the scratch length SquareToom3 needs.
func (s *Squarer) SquareToom3ScratchLen(n int) int { return 3*n + limbs.W }

// SquareToom4ScratchLen returns the scratch length SquareToom4 needs.
func (s *Squarer) SquareToom4ScratchLen(n int) int { return 3*n + limbs.W }

// SquareToom6ScratchLen returns the scratch length SquareToom6 needs. The
// recursion below n never reaches Toom-6 when SqrToom6 exceeds n, so the
// bound is taken at min(SqrToom6, n).
func (s *Squarer) SquareToom6ScratchLen(n int) int {
	t := min(s.thresholds.SqrToom6, n)
	return 2*n + max(2*t+6*limbs.W, s.SquareToom4ScratchLen(t)) - 2*t
}

// SquareToom8ScratchLen returns the scratch length SquareToom8 needs.
func (s *Squarer) SquareToom8ScratchLen(n int) int {
	t := min(s.thresholds.SqrToom8, n)
	return 15*n/8 + max(15*t/8+6*limbs.W, s.SquareToom6ScratchLen(t)) - 15*t/8
}

// ScratchLen returns the scratch length of the kernel SquareToOut selects
// for an n-limb operand below SqrFFT.
func (s *Squarer) ScratchLen(n int) int {
	t := &s.thresholds
	switch {
	case n < t.SqrToom2:
		return 0
	case n < t.SqrToom3:
		return s.SquareToom2ScratchLen(n)
	case n < t.SqrToom4:
		return s.SquareToom3ScratchLen(n)
	case n < t.SqrToom6:
		return s.SquareToom4ScratchLen(n)
	case n < t.SqrToom8:
		return s.SquareToom6ScratchLen(n)
	default:
		return s.SquareToom8ScratchLen(n)
	}
}

// Toom2Valid reports whether SquareToom2 accepts an n-limb operand.
func Toom2Valid(n int) bool { return n >= 2 }

// Toom3Valid reports whether SquareToom3 accepts an n-limb operand.
func Toom3Valid(n int) bool { return n == 3 || n > 4 }

// Toom4Valid reports whether SquareToom4 accepts an n-limb operand.
func Toom4Valid(n int) bool { return n == 4 || n == 7 || n == 8 || n > 9 }

// Toom6Valid reports whether SquareToom6 accepts an n-limb operand.
func Toom6Valid(n int) bool {
	return n == 18 || (n > 21 && n != 25 && n != 26 && n != 31)
}

// Toom8Valid reports whether SquareToom8 accepts an n-limb operand.
func Toom8Valid(n int) bool {
	return n == 40 || (n > 43 && n != 49 && n != 50 && n != 57)
}

func (s *Squarer) checkKernel(op string, out, x, scratch []big.Word, valid bool, scratchLen int) {
	check(valid, op, "operand length not supported")
	needLen(op, "out", out, 2*len(x))
	needLen(op, "scratch", scratch, scratchLen)
}

// SquareToom2 writes x² to out[:2*len(x)] with one level of Karatsuba
// squaring. out must not overlap x or scratch, and scratch must hold
// SquareToom2ScratchLen(len(x)) limbs.
func (s *Squarer) SquareToom2(out, x, scratch []big.Word) {
	s.checkKernel("SquareToom2", out, x, scratch, Toom2Valid(len(x)), s.SquareToom2ScratchLen(len(x)))
	s.toom2(out[:2*len(x)], x, scratch)
}

// SquareToom3 is SquareToom2 for the 5-point scheme.
func (s *Squarer) SquareToom3(out, x, scratch []big.Word) {
	s.checkKernel("SquareToom3", out, x, scratch, Toom3Valid(len(x)), s.SquareToom3ScratchLen(len(x)))
	s.toom3(out[:2*len(x)], x, scratch)
}

// SquareToom4 is SquareToom2 for the 7-point scheme.
func (s *Squarer) SquareToom4(out, x, scratch []big.Word) {
	s.checkKernel("SquareToom4", out, x, scratch, Toom4Valid(len(x)), s.SquareToom4ScratchLen(len(x)))
	s.toom4(out[:2*len(x)], x, scratch)
}

// SquareToom6 is SquareToom2 for the 11-point scheme.
func (s *Squarer) SquareToom6(out, x, scratch []big.Word) {
	s.checkKernel("SquareToom6", out, x, scratch, Toom6Valid(len(x)), s.SquareToom6ScratchLen(len(x)))
	s.toom6(out[:2*len(x)], x, scratch)
}

// SquareToom8 is SquareToom2 for the 15-point scheme.
func (s *Squarer) SquareToom8(out, x, scratch []big.Word) {
	s.checkKernel("SquareToom8", out, x, scratch, Toom8Valid(len(x)), s.SquareToom8ScratchLen(len(x)))
	s.toom8(out[:2*len(x)], x, scratch)
}

// ─────────────────────────────────────────────────────────────────────────────
// Kernels
// ─────────────────────────────────────────────────────────────────────────────

// toom2Diff writes |x0 - x1| to asm1[:len(x0)]. len(x1) is len(x0) or one
// less.
func toom2Diff(asm1, x0, x1 []big.Word) {
	n, h := len(x0), len(x1)
	switch {
	case h == n:
		if limbs.Cmp(x0, x1) < 0 {
			limbs.SubSame(asm1, x1, x0)
		} else {
			limbs.SubSame(asm1, x0, x1)
		}
	case x0[h] == 0 && limbs.Cmp(x0[:h], x1) < 0:
		limbs.SubSame(asm1[:h], x1, x0[:h])
		asm1[h] = 0
	default:
		asm1[h] = x0[h] - limbs.SubSame(asm1[:h], x0[:h], x1)
	}
}

// toom2Combine turns out = v0 | vinf and vm1 = (x0-x1)² into the square,
// where v0 is 2n limbs and vinf 2h limbs.
func toom2Combine(out, vm1 []big.Word, n, h int) {
	const op = "SquareToom2"
	top := 2*n + 2*h
	cy := limbs.AddSame(out[2*n:3*n], out[n:2*n], out[2*n:3*n])
	cy2 := cy + limbs.AddSame(out[n:2*n], out[2*n:3*n], out[:n])
	cy += limbs.AddInPlace(out[2*n:3*n], out[3*n:top])
	borrow := limbs.SubSameInPlace(out[n:3*n], vm1)
	if c := int(cy) - int(borrow); c >= 0 {
		noCarry(limbs.AddLimbInPlace(out[2*n:top], cy2), op, "middle")
		noCarry(limbs.AddLimbInPlace(out[3*n:top], big.Word(c)), op, "top")
		return
	}
	check(cy2 == 1, op, "borrow without middle carry")
	check(limbs.AddLimbInPlace(out[2*n:3*n], cy2) == 1, op, "borrow not absorbed")
}

func (s *Squarer) toom2(out, x, scratch []big.Word) {
	xs := len(x)
	h := xs >> 1
	n := xs - h
	x0, x1 := x[:n], x[n:]

	asm1 := out[:n]
	toom2Diff(asm1, x0, x1)

	vm1 := scratch[:2*n]
	ws := scratch[2*n:]
	s.rec(vm1, asm1, ws, level2)
	s.rec(out[2*n:2*n+2*h], x1, ws, level2)
	s.rec(out[:2*n], x0, ws, level2)
	toom2Combine(out, vm1, n, h)
}

func (s *Squarer) toom3(out, x, scratch []big.Word) {
	const op = "SquareToom3"
	xs := len(x)
	n := (xs + 2) / 3
	h := xs - 2*n
	x0, x1, x2 := x[:n], x[n:2*n], x[2*n:]

	gp := scratch[:n]
	asm1 := scratch[2*n+2 : 3*n+3]
	as1 := scratch[4*n+4 : 5*n+5]
	as2 := out[n+1 : 2*n+2]
	ws := scratch[5*n+5:]

	// x0 + x2, then ±x1.
	cy := limbs.Add(gp, x0, x2)
	as1[n] = cy + limbs.AddSame(as1[:n], gp, x1)
	if cy == 0 && limbs.Cmp(gp, x1) < 0 {
		limbs.SubSame(asm1[:n], x1, gp)
		asm1[n] = 0
	} else {
		asm1[n] = cy - limbs.SubSame(asm1[:n], gp, x1)
	}

	// x0 + 2x1 + 4x2
	cy = limbs.AddShl(as2[:h], x1[:h], x2, 1)
	if h != n {
		cy = limbs.AddLimb(as2[h:n], x1[h:], cy)
	}
	as2[n] = 2*cy + limbs.AddShl(as2[:n], x0, as2[:n], 1)

	vm1 := scratch[:2*n+1]
	s.rec(vm1[:2*n], asm1[:n], ws, level3)
	cy = asm1[n]
	check(cy <= 1, op, "x(-1) top limb")
	if cy != 0 {
		cy += limbs.AddMul(vm1[n:2*n], asm1[:n], 2)
	}
	vm1[2*n] = cy

	v2 := scratch[2*n+1 : 4*n+3]
	s.rec(v2, as2, ws, level3)

	vinf := out[4*n : 4*n+2*h]
	s.rec(vinf, x2, ws, level3)
	vinf0 := vinf[0]

	v1 := out[2*n : 4*n+1]
	s.rec(v1[:2*n], as1[:n], ws, level3)
	hi := as1[n]
	check(hi <= 2, op, "x(1) top limb")
	cy = 0
	if hi != 0 {
		cy = hi*hi + limbs.AddMul(v1[n:2*n], as1[:n], 2*hi)
	}
	v1[2*n] = cy

	s.rec(out[:2*n], x0, ws, level3)
	Interpolate5Points(out, v2[:2*n+1], vm1, n, 2*h, false, vinf0)
}

func (s *Squarer) toom4(out, x, scratch []big.Word) {
	const op = "SquareToom4"
	xs := len(x)
	n := (xs + 3) >> 2
	h := xs - 3*n
	x0, x1, x2, x3 := x[:n], x[n:2*n], x[2*n:3*n], x[3*n:]

	k := 2*n + 1
	v2, vm2 := scratch[:k], scratch[k:2*k]
	vh, vm1 := scratch[2*k:3*k], scratch[3*k:4*k]
	tp := scratch[4*k+1:]
	apx := out[:n+1]
	amx := out[4*n+2 : 5*n+3]

	evalDeg3PM2(apx, amx, x, n, tp)
	s.rec(scratch[:k+1], apx, tp, level4)
	s.rec(scratch[k:2*k+1], amx, tp, level4)

	// 8x0 + 4x1 + 2x2 + x3
	cy := limbs.AddShl(apx[:n], x1, x0, 1)
	cy = 2*cy + limbs.AddShl(apx[:n], x2, apx[:n], 1)
	if h < n {
		cy2 := limbs.AddShl(apx[:h], x3, apx[:h], 1)
		apx[n] = 2*cy + limbs.ShlInPlace(apx[h:n], 1)
		noCarry(limbs.AddLimbInPlace(apx[h:n+1], cy2), op, "x(1/2)")
	} else {
		apx[n] = 2*cy + limbs.AddShl(apx[:n], x3, apx[:n], 1)
	}
	s.rec(scratch[2*k:3*k+1], apx, tp, level4)

	evalDeg3PM1(apx, amx, x, n, tp)
	s.rec(out[2*n:4*n+2], apx, tp, level4)
	s.rec(scratch[3*k:4*k+1], amx, tp, level4)
	s.rec(out[:2*n], x0, tp, level4)
	s.rec(out[6*n:6*n+2*h], x3, tp, level4)

	Interpolate7Points(out, n, 2*h, false, vm2, false, vm1, v2, vh, tp)
}

// pointPair squares the n+1-limb evaluations at +p and -p, leaving them in
// v2 and v0, and folds them into target. A wide pair keeps all 2n+2 limbs of
// the squares, so its target needs 3n+2 limbs.
type pointPair struct {
	eval   func()
	target []big.Word
	ps, ns uint
	wide   bool
}

func (s *Squarer) squarePairs(out, v0, v2, ws []big.Word, n, ceiling int, pairs []pointPair) {
	for _, p := range pairs {
		p.eval()
		s.rec(out[:2*n+2], v0, ws, ceiling)
		s.rec(p.target[:2*n+2], v2, ws, ceiling)
		k := 2*n + 1
		if p.wide {
			k++
		}
		coupleHandling(p.target, out[:k], false, n, p.ps, p.ns)
	}
}

func (s *Squarer) toom6(out, x, scratch []big.Word) {
	xs := len(x)
	n := 1 + (xs-1)/6
	h := xs - 5*n
	p := 3*n + 1

	r4, r2 := out[3*n:3*n+p], out[7*n:7*n+p]
	r5, r3, r1 := scratch[:p], scratch[p:2*p], scratch[2*p:3*p]
	ws := scratch[3*p:]
	v0 := out[7*n : 8*n+1]
	v2 := out[9*n+2 : 10*n+3]

	s.squarePairs(out, v0, v2, ws, n, level6, []pointPair{
		{func() { evalPM2RExp(v2, v0, 5, x, n, 1, out) }, r5, 1, 0, false},
		{func() { evalPM1(v2, v0, 5, x, n, out) }, r3, 0, 0, false},
		{func() { evalPM2Exp(v2, v0, 5, x, n, 2, out) }, r1, 2, 4, false},
		{func() { evalPM2RExp(v2, v0, 5, x, n, 2, out) }, r4, 2, 0, false},
		{func() { evalPM2(v2, v0, 5, x, n, out) }, r2, 1, 2, false},
	})

	s.rec(out[:2*n], x[:n], ws, level6)
	Interpolate12Points(out, r1, r3, r5, n, 2*h, false, ws)
}

func (s *Squarer) toom8(out, x, scratch []big.Word) {
	xs := len(x)
	n := 1 + (xs-1)>>3
	h := xs - 7*n
	p := 3*n + 1

	// Below 43-bit limbs the squares at ±8 and ±1/8 fill 2n+2 limbs, and
	// r7 and r1 get one limb more for the couple.
	e := 0
	if narrowLimbs {
		e = 1
	}
	r6, r4, r2 := out[3*n:3*n+p], out[7*n:7*n+p], out[11*n:11*n+p]
	r7, r5 := scratch[:p+e], scratch[p+e:2*p+e]
	r3, r1 := scratch[2*p+e:3*p+e], scratch[3*p+e:4*p+2*e]
	ws := scratch[4*p+2*e:]
	v0 := out[11*n : 12*n+1]
	v2 := out[13*n+2 : 14*n+3]

	s.squarePairs(out, v0, v2, ws, n, level8, []pointPair{
		{func() { evalPM2RExp(v2, v0, 7, x, n, 3, out) }, r7, 3, 0, narrowLimbs},
		{func() { evalPM2RExp(v2, v0, 7, x, n, 2, out) }, r5, 2, 0, false},
		{func() { evalPM2(v2, v0, 7, x, n, out) }, r3, 1, 2, false},
		{func() { evalPM2Exp(v2, v0, 7, x, n, 3, out) }, r1, 3, 6, narrowLimbs},
		{func() { evalPM2RExp(v2, v0, 7, x, n, 1, out) }, r6, 1, 0, false},
		{func() { evalPM1(v2, v0, 7, x, n, out) }, r4, 0, 0, false},
		{func() { evalPM2Exp(v2, v0, 7, x, n, 2, out) }, r2, 2, 4, false},
	})

	s.rec(out[:2*n], x[:n], ws, level8)
	Interpolate16Points(out, r1, r3, r5, r7, n, 2*h, false, ws[:p])
}
