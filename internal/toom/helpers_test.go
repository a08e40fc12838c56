package toom

import (
	"math"
	"math/big"
	"math/rand"
	"slices"
	"testing"

	"github.com/agbru/limbcalc/internal/limbs"
)

type namedSquarer struct {
	name    string
	squarer *Squarer
}

// testSquarers returns squarers whose crossovers sit at or near the
// smallest accepted values, so short operands exercise every kernel and
// every recursion path.
func testSquarers(t testing.TB) []namedSquarer {
	t.Helper()
	configs := []struct {
		name string
		th   Thresholds
	}{
		{"minimal", Thresholds{SqrToom2: 2, SqrToom3: 5, SqrToom4: 10, SqrToom6: 32, SqrToom8: 58, SqrFFT: 1 << 20, Parallel: 2}},
		{"no-toom6", Thresholds{SqrToom2: 2, SqrToom3: 5, SqrToom4: 10, SqrToom6: math.MaxInt, SqrToom8: math.MaxInt, SqrFFT: 1 << 20, Parallel: 2}},
		{"shifted", Thresholds{SqrBasecase: 3, SqrToom2: 4, SqrToom3: 7, SqrToom4: 13, SqrToom6: 40, SqrToom8: 70, SqrFFT: 1 << 20, Parallel: 8}},
		{"default", DefaultThresholds()},
	}
	out := make([]namedSquarer, 0, len(configs))
	for _, c := range configs {
		s, err := New(WithThresholds(c.th))
		if err != nil {
			t.Fatalf("New(%s): %v", c.name, err)
		}
		out = append(out, namedSquarer{name: c.name, squarer: s})
	}
	return out
}

// randomLimbs returns n random limbs, sometimes all ones or with a zero or
// all-ones top limb.
func randomLimbs(r *rand.Rand, n int) []big.Word {
	x := make([]big.Word, n)
	k := r.Intn(5)
	for i := range x {
		if k == 0 {
			x[i] = limbs.MaxLimb
		} else {
			x[i] = big.Word(r.Uint64())
		}
	}
	switch k {
	case 1:
		x[n-1] = limbs.MaxLimb
	case 2:
		x[n-1] = 0
	}
	return x
}

// garbage fills x with random limbs.
func garbage(r *rand.Rand, x []big.Word) {
	for i := range x {
		x[i] = big.Word(r.Uint64())
	}
}

func toInt(x []big.Word) *big.Int {
	return new(big.Int).SetBits(slices.Clone(x))
}

// fromInt returns the n low limbs of the non-negative x.
func fromInt(x *big.Int, n int) []big.Word {
	out := make([]big.Word, n)
	copy(out, x.Bits())
	return out
}

// setInt stores x in dst, which must be long enough.
func setInt(dst []big.Word, x *big.Int) {
	limbs.Set(dst, x.Bits())
}

func squareOf(x []big.Word) *big.Int {
	v := toInt(x)
	return v.Mul(v, v)
}

// mustPanic runs f and returns the recovered value, failing the test when f
// returns normally.
func mustPanic(t *testing.T, f func()) (r any) {
	t.Helper()
	defer func() { r = recover() }()
	f()
	t.Fatal("expected a panic")
	return nil
}
