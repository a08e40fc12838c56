package toom

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/agbru/limbcalc/internal/limbs"
)

// chunksOf splits x into n-limb coefficients, the last one shorter.
func chunksOf(x []big.Word, n int) poly {
	var a poly
	for i := 0; i < len(x); i += n {
		a = append(a, toInt(x[i:min(i+n, len(x))]))
	}
	return a
}

func TestEvaluation(t *testing.T) {
	t.Parallel()
	type evalFunc func(xp, xm, x []big.Word, n int, tp []big.Word) bool
	tests := []struct {
		name  string
		deg   int
		eval  evalFunc
		plus  func(a poly) *big.Int
		minus func(a poly) *big.Int
	}{
		{"deg3 ±1", 3, evalDeg3PM1,
			func(a poly) *big.Int { return a.at(1) }, func(a poly) *big.Int { return a.at(-1) }},
		{"deg3 ±2", 3, evalDeg3PM2,
			func(a poly) *big.Int { return a.at(2) }, func(a poly) *big.Int { return a.at(-2) }},
		{"deg5 ±1", 5, func(xp, xm, x []big.Word, n int, tp []big.Word) bool { return evalPM1(xp, xm, 5, x, n, tp) },
			func(a poly) *big.Int { return a.at(1) }, func(a poly) *big.Int { return a.at(-1) }},
		{"deg7 ±2", 7, func(xp, xm, x []big.Word, n int, tp []big.Word) bool { return evalPM2(xp, xm, 7, x, n, tp) },
			func(a poly) *big.Int { return a.at(2) }, func(a poly) *big.Int { return a.at(-2) }},
		{"deg5 ±4", 5, func(xp, xm, x []big.Word, n int, tp []big.Word) bool { return evalPM2Exp(xp, xm, 5, x, n, 2, tp) },
			func(a poly) *big.Int { return a.at(4) }, func(a poly) *big.Int { return a.at(-4) }},
		{"deg7 ±8", 7, func(xp, xm, x []big.Word, n int, tp []big.Word) bool { return evalPM2Exp(xp, xm, 7, x, n, 3, tp) },
			func(a poly) *big.Int { return a.at(8) }, func(a poly) *big.Int { return a.at(-8) }},
		{"deg5 ±1/2", 5, func(xp, xm, x []big.Word, n int, tp []big.Word) bool { return evalPM2RExp(xp, xm, 5, x, n, 1, tp) },
			func(a poly) *big.Int { return a.reversed(1, false) }, func(a poly) *big.Int { return a.reversed(1, true) }},
		{"deg7 ±1/8", 7, func(xp, xm, x []big.Word, n int, tp []big.Word) bool { return evalPM2RExp(xp, xm, 7, x, n, 3, tp) },
			func(a poly) *big.Int { return a.reversed(3, false) }, func(a poly) *big.Int { return a.reversed(3, true) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewSource(int64(tt.deg)))
			for n := 1; n <= 8; n++ {
				for h := 1; h <= n; h++ {
					x := randomLimbs(r, tt.deg*n+h)
					a := chunksOf(x, n)
					xp, xm, tp := dirty(r, n+1), dirty(r, n+1), dirty(r, n+1)
					neg := tt.eval(xp, xm, x, n, tp)

					if toInt(xp).Cmp(tt.plus(a)) != 0 {
						t.Fatalf("n=%d h=%d: +point value wrong", n, h)
					}
					want := tt.minus(a)
					if neg != (want.Sign() < 0) {
						t.Fatalf("n=%d h=%d: sign = %v, want %v", n, h, neg, want.Sign() < 0)
					}
					if toInt(xm).Cmp(want.Abs(want)) != 0 {
						t.Fatalf("n=%d h=%d: -point magnitude wrong", n, h)
					}
				}
			}
		})
	}
}

func TestCoupleHandling(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(12))
	for n := 1; n <= 6; n++ {
		for _, shifts := range [][2]uint{{0, 0}, {1, 0}, {1, 2}, {2, 4}, {3, 6}} {
			ps, ns := shifts[0], shifts[1]
			// Squares of the evaluations of a polynomial with n-limb
			// coefficients at ±2^ps keep each coupled part exact.
			x := randomLimbs(r, 5*n+n)
			a := chunksOf(x, n)
			c := a.mul(a)
			fp, fm := c.at(1<<ps), c.at(-(1 << ps))
			if fp.BitLen() > (2*n+1)*limbs.W {
				continue
			}
			want := couple(t, fp, fm, ps, ns, n, false)

			pp := dirty(r, 3*n+1)
			setInt(pp[:2*n+1], fp)
			np := fromInt(fm, 2*n+1)
			coupleHandling(pp, np, false, n, ps, ns)
			if toInt(pp).Cmp(toInt(want)) != 0 {
				t.Fatalf("n=%d ps=%d ns=%d: coupled value wrong", n, ps, ns)
			}
		}
	}
}

// A 2n+2-limb couple holds squares one limb longer and fills 3n+2 limbs.
func TestCoupleHandlingWide(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(13))
	for n := 1; n <= 6; n++ {
		for _, shifts := range [][2]uint{{3, 0}, {3, 6}} {
			ps, ns := shifts[0], shifts[1]
			x := randomLimbs(r, 7*n+n)
			for i := range x {
				x[i] |= limbs.MaxLimb >> 1
			}
			a := chunksOf(x, n)
			c := a.mul(a)
			fp, fm := c.at(1<<ps), c.at(-(1 << ps))
			if fp.BitLen() > (2*n+2)*limbs.W {
				continue
			}
			odd := new(big.Int).Sub(fp, fm)
			even := new(big.Int).Add(fp, fm)
			odd.Rsh(odd, 1+ps)
			even.Rsh(even, 1+ns)
			want := odd.Add(odd, even.Lsh(even, uint(n*limbs.W)))

			pp := dirty(r, 3*n+2)
			setInt(pp[:2*n+2], fp)
			np := fromInt(fm, 2*n+2)
			coupleHandling(pp, np, false, n, ps, ns)
			if toInt(pp).Cmp(want) != 0 {
				t.Fatalf("n=%d ps=%d ns=%d: coupled value wrong", n, ps, ns)
			}
		}
	}
}
