package natural

import (
	"context"
	"errors"
	"math/big"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/exact"
	"github.com/agbru/limbcalc/internal/limbs"
	"github.com/agbru/limbcalc/internal/toom"
)

var (
	// ErrDivisionByZero is returned for a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNotExact is returned when the divisor does not divide the
	// dividend. It is the same value the core raises.
	ErrNotExact = exact.ErrNotExact
	// ErrEvenDivisor is returned when an inverse modulo a power of two is
	// requested for an even value.
	ErrEvenDivisor = errors.New("even value has no inverse modulo a power of two")
)

// Arith runs the façade operations on a given pair of engines.
type Arith struct {
	exact   *exact.Engine
	squarer *toom.Squarer
}

// Option configures an Arith.
type Option func(*Arith)

// WithExactEngine replaces the division and inversion engine.
func WithExactEngine(e *exact.Engine) Option {
	return func(a *Arith) { a.exact = e }
}

// WithSquarer replaces the squaring engine.
func WithSquarer(s *toom.Squarer) Option {
	return func(a *Arith) { a.squarer = s }
}

// New returns an Arith over the default engines, modified by opts.
func New(opts ...Option) *Arith {
	a := &Arith{exact: exact.Default(), squarer: toom.Default()}
	for _, opt := range opts {
		opt(a)
	}
	if a.exact == nil {
		a.exact = exact.Default()
	}
	if a.squarer == nil {
		a.squarer = toom.Default()
	}
	return a
}

var defaultArith = New()

// recoverContract turns a ContractViolation panic into *err and re-panics
// on anything else.
func recoverContract(err *error) {
	if r := recover(); r != nil {
		cv := apperrors.AsContractViolation(r)
		if cv == nil {
			panic(r)
		}
		*err = cv
	}
}

func fromBits(w []big.Word, negative bool) *big.Int {
	z := new(big.Int).SetBits(w)
	if negative {
		z.Neg(z)
	}
	return z
}

// DivExact returns n / d for a d known to divide n. The quotient's sign is
// the product of the operand signs. When d does not divide n the result is
// unspecified unless the core detects it from the low limbs, in which case
// the error matches ErrNotExact.
func (a *Arith) DivExact(n, d *big.Int) (q *big.Int, err error) {
	if d.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	if n.Sign() == 0 {
		return new(big.Int), nil
	}
	defer recoverContract(&err)
	qs := a.exact.DivExact(n.Bits(), d.Bits())
	return fromBits(qs, n.Sign() != d.Sign()), nil
}

// DivExactChecked is DivExact followed by a multiplication back, so that a
// remainder is always reported as ErrNotExact.
func (a *Arith) DivExactChecked(n, d *big.Int) (*big.Int, error) {
	if d.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	q, err := a.DivExact(n, d)
	if err != nil {
		return nil, err
	}
	if new(big.Int).Mul(q, d).Cmp(n) != 0 {
		return nil, apperrors.ContractViolation{Op: "DivExact", Err: ErrNotExact}
	}
	return q, nil
}

// Square returns x².
func (a *Arith) Square(x *big.Int) *big.Int {
	return new(big.Int).SetBits(a.squarer.Square(x.Bits()))
}

// SquareContext returns x², fanning the top level out over goroutines for
// long operands. It returns ctx.Err() when the context ends before the
// workers start.
func (a *Arith) SquareContext(ctx context.Context, x *big.Int) (z *big.Int, err error) {
	xs := limbs.Normalize(x.Bits())
	if len(xs) == 0 {
		return new(big.Int), nil
	}
	defer recoverContract(&err)
	out := make([]big.Word, 2*len(xs))
	if err := a.squarer.SquareParallel(ctx, out, xs); err != nil {
		return nil, err
	}
	return new(big.Int).SetBits(limbs.Normalize(out)), nil
}

// ModularInverse returns the inverse of d modulo B^n, B being the limb
// base, as a value in [0, B^n). Negative d is taken modulo B^n first.
func (a *Arith) ModularInverse(d *big.Int, n int) (inv *big.Int, err error) {
	if n < 1 {
		return nil, apperrors.ValidationError{Field: "limbs", Message: "must be positive"}
	}
	if d.Bit(0) == 0 {
		return nil, ErrEvenDivisor
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(n*limbs.W))
	dm := new(big.Int).Mod(d, mod)
	ds := make([]big.Word, n)
	copy(ds, dm.Bits())
	is := make([]big.Word, n)

	defer recoverContract(&err)
	scratch := limbs.Acquire(a.exact.ModularInverseScratchLen(n))
	defer limbs.Release(scratch)
	a.exact.ModularInverse(is, ds, scratch)
	return new(big.Int).SetBits(limbs.Normalize(is)), nil
}

// DivExact divides with the default engines.
func DivExact(n, d *big.Int) (*big.Int, error) { return defaultArith.DivExact(n, d) }

// DivExactChecked divides with the default engines and verifies the result.
func DivExactChecked(n, d *big.Int) (*big.Int, error) { return defaultArith.DivExactChecked(n, d) }

// Square squares with the default engines.
func Square(x *big.Int) *big.Int { return defaultArith.Square(x) }

// SquareContext squares with the default engines.
func SquareContext(ctx context.Context, x *big.Int) (*big.Int, error) {
	return defaultArith.SquareContext(ctx, x)
}

// ModularInverse inverts with the default engines.
func ModularInverse(d *big.Int, n int) (*big.Int, error) { return defaultArith.ModularInverse(d, n) }
