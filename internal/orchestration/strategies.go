package orchestration

import (
	"context"
	"fmt"
	"math/big"

	"github.com/remyoudompheng/bigfft"

	"github.com/agbru/limbcalc/internal/limbs"
	"github.com/agbru/limbcalc/internal/mul"
	"github.com/agbru/limbcalc/internal/natural"
)

func init() {
	RegisterStrategy("toom", func(e Engines) Strategy { return &toomStrategy{arith: e.Arith} })
	RegisterStrategy("toom-parallel", func(e Engines) Strategy { return &toomParallelStrategy{arith: e.Arith} })
	RegisterStrategy("mathbig", func(Engines) Strategy { return mathBigStrategy{} })
	RegisterStrategy("bigfft", func(Engines) Strategy { return bigFFTStrategy{} })
	RegisterStrategy("mul", func(e Engines) Strategy { return &mulStrategy{m: e.Multiplier} })
}

// toomStrategy runs the package engines: Toom squaring, binary exact
// division and the Newton inverse.
type toomStrategy struct {
	arith *natural.Arith
}

func (*toomStrategy) Name() string { return "toom" }

func (*toomStrategy) Supports(Kind) bool { return true }

func (s *toomStrategy) Execute(_ context.Context, op Operation) (*big.Int, error) {
	switch op.Kind {
	case KindSquare:
		return s.arith.Square(op.X), nil
	case KindDivExact:
		return s.arith.DivExact(op.X, op.D)
	case KindInvert:
		return s.arith.ModularInverse(op.D, op.Limbs)
	}
	return nil, fmt.Errorf("toom: unsupported operation %q", op.Kind)
}

// toomParallelStrategy squares with the top level split over goroutines and
// divides with the verified form.
type toomParallelStrategy struct {
	arith *natural.Arith
}

func (*toomParallelStrategy) Name() string { return "toom-parallel" }

func (*toomParallelStrategy) Supports(kind Kind) bool {
	return kind == KindSquare || kind == KindDivExact
}

func (s *toomParallelStrategy) Execute(ctx context.Context, op Operation) (*big.Int, error) {
	switch op.Kind {
	case KindSquare:
		return s.arith.SquareContext(ctx, op.X)
	case KindDivExact:
		return s.arith.DivExactChecked(op.X, op.D)
	}
	return nil, fmt.Errorf("toom-parallel: unsupported operation %q", op.Kind)
}

// mathBigStrategy is the math/big reference.
type mathBigStrategy struct{}

func (mathBigStrategy) Name() string { return "mathbig" }

func (mathBigStrategy) Supports(Kind) bool { return true }

func (mathBigStrategy) Execute(_ context.Context, op Operation) (*big.Int, error) {
	switch op.Kind {
	case KindSquare:
		return new(big.Int).Mul(op.X, op.X), nil
	case KindDivExact:
		if op.D.Sign() == 0 {
			return nil, natural.ErrDivisionByZero
		}
		q, r := new(big.Int).QuoRem(op.X, op.D, new(big.Int))
		if r.Sign() != 0 {
			return nil, ErrNotExact
		}
		return q, nil
	case KindInvert:
		m := op.modulus()
		inv := new(big.Int).ModInverse(new(big.Int).Mod(op.D, m), m)
		if inv == nil {
			return nil, natural.ErrEvenDivisor
		}
		return inv, nil
	}
	return nil, fmt.Errorf("mathbig: unsupported operation %q", op.Kind)
}

// bigFFTStrategy squares with the Schönhage-Strassen product of
// github.com/remyoudompheng/bigfft at every size.
type bigFFTStrategy struct{}

func (bigFFTStrategy) Name() string { return "bigfft" }

func (bigFFTStrategy) Supports(kind Kind) bool { return kind == KindSquare }

func (bigFFTStrategy) Execute(_ context.Context, op Operation) (*big.Int, error) {
	if op.Kind != KindSquare {
		return nil, fmt.Errorf("bigfft: unsupported operation %q", op.Kind)
	}
	return bigfft.Mul(op.X, op.X), nil
}

// mulStrategy squares through the multiplier the engines consume, on limb
// buffers.
type mulStrategy struct {
	m *mul.Standard
}

func (*mulStrategy) Name() string { return "mul" }

func (*mulStrategy) Supports(kind Kind) bool { return kind == KindSquare }

func (s *mulStrategy) Execute(_ context.Context, op Operation) (*big.Int, error) {
	if op.Kind != KindSquare {
		return nil, fmt.Errorf("mul: unsupported operation %q", op.Kind)
	}
	x := op.X.Bits()
	if len(x) == 0 {
		return new(big.Int), nil
	}
	out := make([]big.Word, 2*len(x))
	s.m.Square(out, x)
	return new(big.Int).SetBits(limbs.Normalize(out)), nil
}
