package exact

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/limbs"
)

// ─────────────────────────────────────────────────────────────────────────────
// Single-limb inverse
// ─────────────────────────────────────────────────────────────────────────────

func TestModularInverseLimb(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x, want uint64
		only32  bool
		only64  bool
	}{
		{x: 1, want: 1},
		{x: 3, want: 0xAAAAAAAAAAAAAAAB, only64: true},
		{x: 3, want: 2863311531, only32: true},
		{x: 1000000001, want: 2211001857, only32: true},
		{x: 0xFFFFFFFFFFFFFFFF, want: 0xFFFFFFFFFFFFFFFF, only64: true},
	}
	for _, tt := range tests {
		if (tt.only32 && limbs.W != 32) || (tt.only64 && limbs.W != 64) {
			continue
		}
		if got := ModularInverseLimb(big.Word(tt.x)); got != big.Word(tt.want) {
			t.Errorf("ModularInverseLimb(%d) = %#x, want %#x", tt.x, got, tt.want)
		}
	}
}

func TestModularInverseLimbTable(t *testing.T) {
	t.Parallel()
	for i, v := range invertLimbTable {
		if got := uint8(2*i+1) * v; got != 1 {
			t.Errorf("table[%d] = %#x is not the inverse of %d mod 256", i, v, 2*i+1)
		}
	}
}

func TestModularInverseLimbPanicsOnEven(t *testing.T) {
	t.Parallel()
	r := mustPanic(t, func() { ModularInverseLimb(10) })
	var cv apperrors.ContractViolation
	if err, ok := r.(error); !ok || !errors.As(err, &cv) || cv.Op != "ModularInverseLimb" {
		t.Errorf("panic value %v", r)
	}
}

func TestModularInverseLimb_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 1000
	properties := gopter.NewProperties(parameters)

	properties.Property("x * inv(x) == 1 mod B", prop.ForAll(
		func(v uint64) bool {
			x := big.Word(v) | 1
			return x*ModularInverseLimb(x) == 1
		},
		gen.UInt64(),
	))
	properties.TestingRun(t)
}

// ─────────────────────────────────────────────────────────────────────────────
// Division by one limb
// ─────────────────────────────────────────────────────────────────────────────

func TestDivExactLimb(t *testing.T) {
	t.Parallel()
	divisors := []big.Word{1, 2, 3, 5, 6, 7, 10, 12, 255, 256, 1000000001, limbs.MaxLimb, 1 << (limbs.W - 1), limbs.MaxLimb - 1}
	for _, d := range divisors {
		t.Run("", func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewSource(int64(d)))
			for n := 1; n <= 12; n++ {
				q := toInt(randomLimbs(r, n, false, false))
				num := new(big.Int).Mul(q, new(big.Int).SetUint64(uint64(d)))
				nl := max(len(num.Bits()), 1)
				ns := fromInt(num, nl)
				want := fromInt(q, nl)

				out := make([]big.Word, nl)
				DivExactLimb(out, ns, d)
				if diff := cmp.Diff(want, out); diff != "" {
					t.Fatalf("DivExactLimb(n=%d, d=%d) mismatch (-want +got):\n%s", n, d, diff)
				}
				if diff := cmp.Diff(want, DivExactLimbAlloc(ns, d)); diff != "" {
					t.Fatalf("DivExactLimbAlloc(n=%d, d=%d) mismatch:\n%s", n, d, diff)
				}
				DivExactLimbInPlace(ns, d)
				if diff := cmp.Diff(want, ns); diff != "" {
					t.Fatalf("DivExactLimbInPlace(n=%d, d=%d) mismatch:\n%s", n, d, diff)
				}
			}
		})
	}
}

func TestDivExactBy3_Vectors(t *testing.T) {
	t.Parallel()
	// 4B + 2 = 3 * (B + (B + 2) / 3) since B = 1 mod 3.
	want := []big.Word{limbs.MaxLimb/3 + 1, 1}
	got := make([]big.Word, 2)
	DivExactBy3(got, []big.Word{2, 4})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DivExactBy3 mismatch:\n%s", diff)
	}
	if limbs.W == 32 {
		DivExactBy3(got, []big.Word{8, 7})
		if diff := cmp.Diff([]big.Word{1431655768, 2}, got); diff != "" {
			t.Errorf("DivExactBy3([8 7]) mismatch:\n%s", diff)
		}
	}
}

func TestDivByLimbMaxDivisor(t *testing.T) {
	t.Parallel()
	// Every d divides 2^32 - 1 and therefore B - 1 for both limb widths.
	for _, d := range []big.Word{3, 5, 15, 17, 51, 255, 257, 65535, 65537} {
		r := rand.New(rand.NewSource(int64(d)))
		for n := 1; n <= 8; n++ {
			num := new(big.Int).Mul(toInt(randomLimbs(r, n, false, false)), new(big.Int).SetUint64(uint64(d)))
			nl := max(len(num.Bits()), 1)
			ns := fromInt(num, nl)
			out := make([]big.Word, nl)
			if h := DivByLimbMaxDivisor(out, ns, limbs.MaxLimb/d, 0); h != 0 {
				t.Errorf("d=%d n=%d: exact multiple returned state %#x", d, n, h)
			}
			want := new(big.Int).Quo(num, new(big.Int).SetUint64(uint64(d)))
			if toInt(out).Cmp(want) != 0 {
				t.Errorf("d=%d n=%d: quotient mismatch", d, n)
			}
		}
	}
}

func TestDivExactBy255(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(255))
	for n := 1; n <= 10; n++ {
		q := toInt(randomLimbs(r, n, false, false))
		num := new(big.Int).Mul(q, big.NewInt(255))
		ns := fromInt(num, max(len(num.Bits()), 1))
		DivExactBy255(ns)
		if toInt(ns).Cmp(q) != 0 {
			t.Errorf("n=%d: DivExactBy255 mismatch", n)
		}
	}
}

func TestDivExactLimbContract(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		f    func()
	}{
		{"zero divisor", func() { DivExactLimb(make([]big.Word, 1), []big.Word{6}, 0) }},
		{"empty dividend", func() { DivExactLimb(nil, nil, 3) }},
		{"short output", func() { DivExactLimb(make([]big.Word, 1), []big.Word{6, 6}, 3) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, ok := mustPanic(t, tt.f).(apperrors.ContractViolation); !ok {
				t.Error("panic value is not a ContractViolation")
			}
		})
	}
}
