package exact

import (
	"math/big"
	"math/rand"
	"slices"
	"testing"

	"github.com/agbru/limbcalc/internal/limbs"
	"github.com/agbru/limbcalc/internal/mul"
)

type namedEngine struct {
	name   string
	engine *Engine
}

// testEngines returns the default engine plus engines with tiny crossovers
// so that small operands reach the divide-and-conquer, Barrett and Newton
// paths. The wide variants round every mulmod size up to n + ceil(n/2), so
// nothing wraps. tiny-low asks for a mulmod threshold below the smallest
// one the multiplier accepts.
func testEngines(t testing.TB) []namedEngine {
	t.Helper()
	tiny := Thresholds{DCBdivQR: 2, DCBdivQ: 4, MuBdivQR: 6, MuBdivQ: 6, BinvNewton: 2, MulToMulmodBnm1For2NxN: 2}
	small := Thresholds{DCBdivQR: 3, DCBdivQ: 5, MuBdivQR: 9, MuBdivQ: 9, BinvNewton: 3, MulToMulmodBnm1For2NxN: 3}
	smallWide := Thresholds{DCBdivQR: 3, DCBdivQ: 7, MuBdivQR: 9, MuBdivQ: 12, BinvNewton: 4, MulToMulmodBnm1For2NxN: 5}
	configs := []struct {
		name string
		opts []Option
	}{
		{"default", nil},
		{"tiny", []Option{WithThresholds(tiny), WithMultiplier(mul.NewStandard(mul.WithMulmodBnm1Threshold(4)))}},
		{"tiny-wide", []Option{WithThresholds(tiny), WithMultiplier(mul.WideModulus{Multiplier: mul.NewStandard()})}},
		{"tiny-low", []Option{WithThresholds(tiny), WithMultiplier(mul.NewStandard(mul.WithMulmodBnm1Threshold(2)))}},
		{"small", []Option{WithThresholds(small), WithMultiplier(mul.NewStandard(mul.WithMulmodBnm1Threshold(3)))}},
		{"small-wide", []Option{WithThresholds(smallWide), WithMultiplier(mul.WideModulus{Multiplier: mul.NewStandard()})}},
	}
	out := make([]namedEngine, 0, len(configs))
	for _, c := range configs {
		e, err := New(c.opts...)
		if err != nil {
			t.Fatalf("New(%s): %v", c.name, err)
		}
		out = append(out, namedEngine{c.name, e})
	}
	return out
}

// randomLimbs returns n random limbs, occasionally all ones or a single 1.
// The low limb is forced odd when odd is set and the top limb nonzero when
// top is set.
func randomLimbs(r *rand.Rand, n int, odd, top bool) []big.Word {
	x := make([]big.Word, n)
	switch k := r.Intn(20); {
	case k < 3:
		for i := range x {
			x[i] = limbs.MaxLimb
		}
	case k < 5:
		x[0] = 1
	default:
		for i := range x {
			x[i] = big.Word(r.Uint64())
		}
	}
	if odd {
		x[0] |= 1
	}
	if top && x[n-1] == 0 {
		x[n-1] = 1
	}
	return x
}

func toInt(x []big.Word) *big.Int {
	return new(big.Int).SetBits(slices.Clone(x))
}

func pow2(limbCount int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(limbCount*limbs.W))
}

// fromInt returns the n low limbs of x.
func fromInt(x *big.Int, n int) []big.Word {
	out := make([]big.Word, n)
	copy(out, x.Bits())
	return out
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
