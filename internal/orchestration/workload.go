package orchestration

import (
	"math/big"
	"math/rand"
	"time"
)

// Workload generates reproducible random operations from a seed.
type Workload struct {
	seed int64
	rng  *rand.Rand
}

// NewWorkload returns a generator. A zero seed is replaced by the clock;
// Seed reports the value in use.
func NewWorkload(seed int64) *Workload {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Workload{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed of the generator.
func (w *Workload) Seed() int64 { return w.seed }

// value returns a random value of exactly n limbs. Some values are all ones
// or have long zero runs, which reach the carry paths that uniform limbs
// rarely do.
func (w *Workload) value(n int) *big.Int {
	x := make([]big.Word, n)
	switch w.rng.Intn(6) {
	case 0:
		for i := range x {
			x[i] = ^big.Word(0)
		}
	case 1:
		for i := range x {
			if w.rng.Intn(4) == 0 {
				x[i] = big.Word(w.rng.Uint64())
			}
		}
	default:
		for i := range x {
			x[i] = big.Word(w.rng.Uint64())
		}
	}
	if x[n-1] == 0 {
		x[n-1] = 1
	}
	return new(big.Int).SetBits(x)
}

func (w *Workload) signed(x *big.Int) *big.Int {
	if w.rng.Intn(2) == 0 {
		x.Neg(x)
	}
	return x
}

// Square returns a signed operand of n limbs.
func (w *Workload) Square(n int) Operation {
	return Operation{Kind: KindSquare, X: w.signed(w.value(n)), Limbs: n}
}

// DivExact returns X = Q·D for a random quotient of qn limbs and a random
// divisor of dn limbs, both signed. Even divisors are kept: the engine sees
// them with their low zero bits.
func (w *Workload) DivExact(qn, dn int) Operation {
	q := w.signed(w.value(qn))
	d := w.signed(w.value(dn))
	return Operation{Kind: KindDivExact, X: new(big.Int).Mul(q, d), D: d, Limbs: qn}
}

// Invert returns an odd value of n limbs to be inverted modulo B^n.
func (w *Workload) Invert(n int) Operation {
	d := w.value(n)
	d.SetBit(d, 0, 1)
	return Operation{Kind: KindInvert, D: d, Limbs: n}
}

// Next returns an operation of the given kind.
func (w *Workload) Next(kind Kind, n, dn int) Operation {
	switch kind {
	case KindDivExact:
		return w.DivExact(n, dn)
	case KindInvert:
		return w.Invert(n)
	default:
		return w.Square(n)
	}
}
