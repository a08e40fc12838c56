package orchestration

import (
	"fmt"
	"math/big"
	"time"

	"github.com/agbru/limbcalc/internal/limbs"
	"github.com/agbru/limbcalc/internal/natural"
)

// Kind names an operation.
type Kind string

const (
	KindSquare   Kind = "square"
	KindDivExact Kind = "divexact"
	KindInvert   Kind = "invert"
)

// Kinds lists every operation kind in report order.
var Kinds = []Kind{KindSquare, KindDivExact, KindInvert}

// Operation is one input to the strategies.
//
//   - square: X² with X signed.
//   - divexact: X / D where D divides X.
//   - invert: the inverse of the odd D modulo B^Limbs.
type Operation struct {
	Kind  Kind
	X     *big.Int
	D     *big.Int
	Limbs int
}

// Size returns the operand length in limbs used for labels and metrics.
func (op Operation) Size() int {
	if op.Kind == KindInvert {
		return op.Limbs
	}
	return len(op.X.Bits())
}

func (op Operation) String() string {
	switch op.Kind {
	case KindDivExact:
		return fmt.Sprintf("divexact %d/%d limbs", len(op.X.Bits()), len(op.D.Bits()))
	case KindInvert:
		return fmt.Sprintf("invert mod B^%d", op.Limbs)
	default:
		return fmt.Sprintf("square %d limbs", len(op.X.Bits()))
	}
}

// modulus returns B^Limbs.
func (op Operation) modulus() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(op.Limbs*limbs.W))
}

// Check verifies v algebraically without recomputing it the same way: the
// quotient is multiplied back and the inverse is multiplied by D.
func (op Operation) Check(v *big.Int) error {
	if v == nil {
		return fmt.Errorf("%s: no value", op.Kind)
	}
	switch op.Kind {
	case KindSquare:
		if v.Sign() < 0 {
			return fmt.Errorf("square: negative result")
		}
		// v = X² iff v/|X| = |X| with no remainder; the zero case is direct.
		if op.X.Sign() == 0 {
			if v.Sign() != 0 {
				return fmt.Errorf("square: 0² is not 0")
			}
			return nil
		}
		ax := new(big.Int).Abs(op.X)
		q, r := new(big.Int).QuoRem(v, ax, new(big.Int))
		if r.Sign() != 0 || q.Cmp(ax) != 0 {
			return fmt.Errorf("square: result is not X²")
		}
	case KindDivExact:
		if new(big.Int).Mul(v, op.D).Cmp(op.X) != 0 {
			return fmt.Errorf("divexact: quotient times divisor differs from the dividend")
		}
	case KindInvert:
		m := op.modulus()
		if v.Sign() < 0 || v.Cmp(m) >= 0 {
			return fmt.Errorf("invert: result outside [0, B^%d)", op.Limbs)
		}
		p := new(big.Int).Mul(v, op.D)
		if p.Mod(p, m).Cmp(big.NewInt(1)) != 0 {
			return fmt.Errorf("invert: D times the result is not 1 mod B^%d", op.Limbs)
		}
	default:
		return fmt.Errorf("unknown operation %q", op.Kind)
	}
	return nil
}

// ErrNotExact is returned by reference strategies when the divisor leaves a
// remainder.
var ErrNotExact = natural.ErrNotExact

// Result is the outcome of one strategy on one operation.
type Result struct {
	// Name is the strategy name.
	Name string
	// Value is nil if Err is set.
	Value *big.Int
	// Duration is the fastest of the repeated runs.
	Duration time.Duration
	Err      error
}
