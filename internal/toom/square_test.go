package toom

import (
	"context"
	"encoding/binary"
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/limbs"
	"github.com/agbru/limbcalc/internal/mul"
	"github.com/agbru/limbcalc/internal/mul/mocks"
)

// ─────────────────────────────────────────────────────────────────────────────
// Basecase
// ─────────────────────────────────────────────────────────────────────────────

func TestSquareBasecase(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(1))
	for n := 1; n <= 40; n++ {
		x := randomLimbs(r, n)
		out := make([]big.Word, 2*n+1)
		garbage(r, out)
		sentinel := out[2*n]
		SquareBasecase(out, x)
		if toInt(out[:2*n]).Cmp(squareOf(x)) != 0 {
			t.Fatalf("n=%d: SquareBasecase mismatch", n)
		}
		if out[2*n] != sentinel {
			t.Fatalf("n=%d: SquareBasecase wrote past 2n limbs", n)
		}
	}
}

func TestSquareBasecase_Vectors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		x    []big.Word
		want []big.Word
	}{
		{"123", []big.Word{123}, []big.Word{15129, 0}},
		{"zero", []big.Word{0, 0}, []big.Word{0, 0, 0, 0}},
		{"max limb", []big.Word{limbs.MaxLimb}, []big.Word{1, limbs.MaxLimb - 1}},
		{"B", []big.Word{0, 1}, []big.Word{0, 0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := make([]big.Word, 2*len(tt.x))
			SquareBasecase(got, tt.x)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SquareBasecase mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMulBasecaseAgreesWithSquareBasecase(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(2))
	for n := 1; n <= 12; n++ {
		x := randomLimbs(r, n)
		a := make([]big.Word, 2*n)
		b := make([]big.Word, 2*n)
		mulBasecase(a, x)
		squareBasecase(b, x)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("n=%d: row product and diagonal square differ:\n%s", n, diff)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Kernels with exact scratch
// ─────────────────────────────────────────────────────────────────────────────

type kernel struct {
	name       string
	square     func(s *Squarer, out, x, scratch []big.Word)
	scratchLen func(s *Squarer, n int) int
	valid      func(n int) bool
	minN, maxN int
}

func kernels() []kernel {
	return []kernel{
		{"toom2", (*Squarer).SquareToom2, (*Squarer).SquareToom2ScratchLen, Toom2Valid, 2, 60},
		{"toom3", (*Squarer).SquareToom3, (*Squarer).SquareToom3ScratchLen, Toom3Valid, 3, 90},
		{"toom4", (*Squarer).SquareToom4, (*Squarer).SquareToom4ScratchLen, Toom4Valid, 4, 120},
		{"toom6", (*Squarer).SquareToom6, (*Squarer).SquareToom6ScratchLen, Toom6Valid, 18, 200},
		{"toom8", (*Squarer).SquareToom8, (*Squarer).SquareToom8ScratchLen, Toom8Valid, 40, 260},
	}
}

func TestSquareToomKernels(t *testing.T) {
	t.Parallel()
	for _, ns := range testSquarers(t) {
		for _, k := range kernels() {
			t.Run(ns.name+"/"+k.name, func(t *testing.T) {
				t.Parallel()
				r := rand.New(rand.NewSource(int64(k.minN)))
				for n := k.minN; n <= k.maxN; n++ {
					if !k.valid(n) {
						continue
					}
					x := randomLimbs(r, n)
					out := make([]big.Word, 2*n)
					scratch := make([]big.Word, k.scratchLen(ns.squarer, n))
					garbage(r, out)
					garbage(r, scratch)
					k.square(ns.squarer, out, x, scratch)
					if toInt(out).Cmp(squareOf(x)) != 0 {
						t.Fatalf("%s(n=%d) is not x²", k.name, n)
					}
				}
			})
		}
	}
}

func TestValidLengths(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		valid   func(int) bool
		yes, no []int
	}{
		{"toom2", Toom2Valid, []int{2, 3, 100}, []int{0, 1}},
		{"toom3", Toom3Valid, []int{3, 5, 6, 93}, []int{1, 2, 4}},
		{"toom4", Toom4Valid, []int{4, 7, 8, 10, 250}, []int{3, 5, 6, 9}},
		{"toom6", Toom6Valid, []int{18, 22, 27, 32, 351}, []int{17, 19, 21, 25, 26, 31}},
	}
	for _, tt := range tests {
		for _, n := range tt.yes {
			if !tt.valid(n) {
				t.Errorf("%s: %d rejected", tt.name, n)
			}
		}
		for _, n := range tt.no {
			if tt.valid(n) {
				t.Errorf("%s: %d accepted", tt.name, n)
			}
		}
	}
	for _, n := range []int{40, 44, 58, 454} {
		if !Toom8Valid(n) {
			t.Errorf("toom8: %d rejected", n)
		}
	}
	for _, n := range []int{39, 41, 43, 49, 50, 57} {
		if Toom8Valid(n) {
			t.Errorf("toom8: %d accepted", n)
		}
	}
}

// Every length from each minimum crossover on must be valid for its kernel,
// otherwise the recursion could hand a kernel a length it cannot split.
func TestMinimumCrossoversAreValid(t *testing.T) {
	t.Parallel()
	for n := minSqrToom3; n < 1000; n++ {
		if !Toom3Valid(n) {
			t.Fatalf("toom3 rejects %d", n)
		}
		if n >= minSqrToom4 && !Toom4Valid(n) {
			t.Fatalf("toom4 rejects %d", n)
		}
		if n >= minSqrToom6 && !Toom6Valid(n) {
			t.Fatalf("toom6 rejects %d", n)
		}
		if n >= minSqrToom8 && !Toom8Valid(n) {
			t.Fatalf("toom8 rejects %d", n)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Dispatch
// ─────────────────────────────────────────────────────────────────────────────

func TestSquareToOut(t *testing.T) {
	t.Parallel()
	for _, ns := range testSquarers(t) {
		t.Run(ns.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewSource(3))
			for n := 1; n < 400; n += 1 + n/40 {
				x := randomLimbs(r, n)
				out := make([]big.Word, 2*n)
				garbage(r, out)
				ns.squarer.SquareToOut(out, x)
				if toInt(out).Cmp(squareOf(x)) != 0 {
					t.Fatalf("n=%d (%s): SquareToOut is not x²", n, ns.squarer.Algorithm(n))
				}
			}
		})
	}
}

func TestSquareAgreesWithMultiplier(t *testing.T) {
	t.Parallel()
	std := mul.NewStandard()
	r := rand.New(rand.NewSource(4))
	for _, n := range []int{1, 27, 28, 92, 93, 249, 250, 350, 351, 453, 454, 700} {
		x := randomLimbs(r, n)
		want := make([]big.Word, 2*n)
		std.Square(want, x)
		got := make([]big.Word, 2*n)
		SquareToOut(got, x)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("n=%d: SquareToOut and mul.Standard.Square differ:\n%s", n, diff)
		}
	}
}

func TestSquareAllocating(t *testing.T) {
	t.Parallel()
	if got := Square(nil); got != nil {
		t.Errorf("Square(nil) = %v, want nil", got)
	}
	if got := Square([]big.Word{0, 0}); got != nil {
		t.Errorf("Square(0) = %v, want nil", got)
	}
	if diff := cmp.Diff([]big.Word{15129}, Square([]big.Word{123, 0})); diff != "" {
		t.Errorf("Square(123) mismatch:\n%s", diff)
	}
}

func TestSquareToOutDelegatesLargeOperands(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	m := mocks.NewMockMultiplier(ctrl)
	th := DefaultThresholds()
	th.SqrFFT = 8
	s, err := New(WithThresholds(th), WithMultiplier(m))
	if err != nil {
		t.Fatal(err)
	}
	x := randomLimbs(rand.New(rand.NewSource(5)), 8)
	m.EXPECT().Mul(gomock.Len(16), x, x).Do(func(out, a, b []big.Word) {
		mul.NewStandard().Square(out, a)
	}).Times(1)

	out := make([]big.Word, 16)
	s.SquareToOut(out, x)
	if toInt(out).Cmp(squareOf(x)) != 0 {
		t.Error("delegated square is wrong")
	}

	// Below the crossover the multiplier is not consulted.
	small := make([]big.Word, 14)
	s.SquareToOut(small, x[:7])
}

func TestAlgorithm(t *testing.T) {
	t.Parallel()
	s := Default()
	tests := []struct {
		n    int
		want string
	}{
		{1, "basecase"},
		{DefaultSqrToom2, "toom2"},
		{DefaultSqrToom3, "toom3"},
		{DefaultSqrToom4, "toom4"},
		{DefaultSqrToom6, "toom6"},
		{DefaultSqrToom8, "toom8"},
		{DefaultSqrFFT, "fft"},
	}
	for _, tt := range tests {
		if got := s.Algorithm(tt.n); got != tt.want {
			t.Errorf("Algorithm(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Parallel
// ─────────────────────────────────────────────────────────────────────────────

func TestSquareParallel(t *testing.T) {
	t.Parallel()
	for _, ns := range testSquarers(t) {
		t.Run(ns.name, func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewSource(6))
			for _, n := range []int{1, 2, 3, 8, 9, 31, 64, 101, 257} {
				x := randomLimbs(r, n)
				out := make([]big.Word, 2*n)
				garbage(r, out)
				if err := ns.squarer.SquareParallel(context.Background(), out, x); err != nil {
					t.Fatalf("n=%d: %v", n, err)
				}
				if toInt(out).Cmp(squareOf(x)) != 0 {
					t.Fatalf("n=%d: SquareParallel is not x²", n)
				}
			}
		})
	}
}

func TestSquareParallelLargeDefault(t *testing.T) {
	t.Parallel()
	n := DefaultParallel + 17
	x := randomLimbs(rand.New(rand.NewSource(7)), n)
	out := make([]big.Word, 2*n)
	if err := SquareParallel(context.Background(), out, x); err != nil {
		t.Fatal(err)
	}
	want := make([]big.Word, 2*n)
	SquareToOut(want, x)
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("parallel and serial squares differ:\n%s", diff)
	}
}

func TestSquareParallelCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	x := make([]big.Word, 64)
	err := testSquarers(t)[0].squarer.SquareParallel(ctx, make([]big.Word, 128), x)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("SquareParallel on a canceled context = %v, want context.Canceled", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Construction and contracts
// ─────────────────────────────────────────────────────────────────────────────

func TestNew(t *testing.T) {
	t.Parallel()
	if _, err := New(WithMultiplier(nil)); err == nil {
		t.Error("New with a nil multiplier succeeded")
	}
	if _, err := New(WithThresholds(Thresholds{})); err == nil {
		t.Error("New with zero thresholds succeeded")
	}
	s, err := New(WithLogger(nil))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if s.Thresholds() != DefaultThresholds() {
		t.Errorf("Thresholds() = %+v, want defaults", s.Thresholds())
	}
	// A nil logger falls back to the no-op logger.
	s.SquareToOut(make([]big.Word, 2), []big.Word{3})
}

func TestSquareContract(t *testing.T) {
	t.Parallel()
	s := Default()
	tests := []struct {
		name string
		op   string
		f    func()
	}{
		{"empty", "SquareToOut", func() { s.SquareToOut(nil, nil) }},
		{"short output", "SquareToOut", func() { s.SquareToOut(make([]big.Word, 3), []big.Word{1, 2}) }},
		{"basecase empty", "SquareBasecase", func() { SquareBasecase(nil, nil) }},
		{"toom2 length", "SquareToom2", func() { s.SquareToom2(make([]big.Word, 2), []big.Word{1}, make([]big.Word, 256)) }},
		{"toom3 length", "SquareToom3", func() { s.SquareToom3(make([]big.Word, 8), make([]big.Word, 4), make([]big.Word, 256)) }},
		{"toom4 scratch", "SquareToom4", func() { s.SquareToom4(make([]big.Word, 8), make([]big.Word, 4), nil) }},
		{"toom6 length", "SquareToom6", func() { s.SquareToom6(make([]big.Word, 50), make([]big.Word, 25), make([]big.Word, 1024)) }},
		{"parallel empty", "SquareParallel", func() { _ = s.SquareParallel(context.Background(), nil, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cv, ok := mustPanic(t, tt.f).(apperrors.ContractViolation)
			if !ok || cv.Op != tt.op {
				t.Errorf("panic value %v, want a ContractViolation from %s", cv, tt.op)
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Properties and fuzzing
// ─────────────────────────────────────────────────────────────────────────────

func TestSquare_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	squarers := testSquarers(t)

	properties.Property("SquareToOut(x) == x*x", prop.ForAll(
		func(n int, seed int64, which int) bool {
			x := randomLimbs(rand.New(rand.NewSource(seed)), n)
			out := make([]big.Word, 2*n)
			squarers[which].squarer.SquareToOut(out, x)
			return toInt(out).Cmp(squareOf(x)) == 0
		},
		gen.IntRange(1, 300),
		gen.Int64(),
		gen.IntRange(0, len(squarers)-1),
	))
	properties.Property("(x+1)² == x² + 2x + 1", prop.ForAll(
		func(n int, seed int64) bool {
			x := randomLimbs(rand.New(rand.NewSource(seed)), n)
			xi := toInt(x)
			lhs := toInt(Square(toInt(x).Add(xi, big.NewInt(1)).Bits()))
			rhs := toInt(Square(x))
			rhs.Add(rhs, new(big.Int).Lsh(xi, 1))
			rhs.Add(rhs, big.NewInt(1))
			return lhs.Cmp(rhs) == 0
		},
		gen.IntRange(1, 200),
		gen.Int64(),
	))
	properties.TestingRun(t)
}

func FuzzSquare(f *testing.F) {
	f.Add([]byte{123})
	f.Add(make([]byte, 8*40))
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 1})
	s, err := New(WithThresholds(Thresholds{SqrToom2: 2, SqrToom3: 5, SqrToom4: 10, SqrToom6: 32, SqrToom8: DefaultThresholds().SqrToom8, SqrFFT: 4096, Parallel: 2}))
	if err != nil {
		f.Fatal(err)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) == 0 || len(data) > 8*600 {
			return
		}
		x := make([]big.Word, (len(data)+7)/8)
		buf := make([]byte, 8*len(x))
		copy(buf, data)
		for i := range x {
			x[i] = big.Word(binary.LittleEndian.Uint64(buf[8*i:]))
		}
		out := make([]big.Word, 2*len(x))
		s.SquareToOut(out, x)
		if toInt(out).Cmp(squareOf(x)) != 0 {
			t.Fatalf("SquareToOut(%d limbs) is not x²", len(x))
		}
	})
}
