//go:build gmp

// The GMP strategy needs libgmp and cgo: go build -tags=gmp.

package orchestration

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ncw/gmp"

	"github.com/agbru/limbcalc/internal/limbs"
	"github.com/agbru/limbcalc/internal/natural"
)

func init() {
	RegisterStrategy("gmp", func(Engines) Strategy { return gmpStrategy{} })
}

// gmpStrategy runs every operation through GMP's mpz layer.
type gmpStrategy struct{}

func (gmpStrategy) Name() string { return "gmp" }

func (gmpStrategy) Supports(Kind) bool { return true }

func toGMP(x *big.Int) *gmp.Int {
	g := new(gmp.Int).SetBytes(x.Bytes())
	if x.Sign() < 0 {
		g.Neg(g)
	}
	return g
}

func fromGMP(g *gmp.Int) *big.Int {
	x := new(big.Int).SetBytes(g.Bytes())
	if g.Sign() < 0 {
		x.Neg(x)
	}
	return x
}

func (gmpStrategy) Execute(_ context.Context, op Operation) (*big.Int, error) {
	switch op.Kind {
	case KindSquare:
		x := toGMP(op.X)
		return fromGMP(new(gmp.Int).Mul(x, x)), nil
	case KindDivExact:
		if op.D.Sign() == 0 {
			return nil, natural.ErrDivisionByZero
		}
		q, r := new(gmp.Int).QuoRem(toGMP(op.X), toGMP(op.D), new(gmp.Int))
		if r.Sign() != 0 {
			return nil, ErrNotExact
		}
		return fromGMP(q), nil
	case KindInvert:
		m := new(gmp.Int).Lsh(gmp.NewInt(1), uint(op.Limbs*limbs.W))
		d := new(gmp.Int).Mod(toGMP(op.D), m)
		if d.Bit(0) == 0 {
			return nil, natural.ErrEvenDivisor
		}
		return fromGMP(new(gmp.Int).ModInverse(d, m)), nil
	}
	return nil, fmt.Errorf("gmp: unsupported operation %q", op.Kind)
}
