package toom

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/logging"
)

// SquareParallel writes x² to out[:2*len(x)] like SquareToOut. From
// Parallel limbs on, the top level is split as Toom-2 and the three
// half-length squarings run on separate goroutines with their own scratch.
//
// A contract violation inside a worker is returned as an error instead of
// crashing the process. The context is checked before each worker starts;
// a running squaring is not interrupted.
func (s *Squarer) SquareParallel(ctx context.Context, out, x []big.Word) error {
	const op = "SquareParallel"
	n := len(x)
	check(n > 0, op, "x is empty")
	needLen(op, "out", out, 2*n)
	if err := ctx.Err(); err != nil {
		return err
	}
	if n < s.thresholds.Parallel {
		s.SquareToOut(out, x)
		return nil
	}
	out = out[:2*n]
	h := n >> 1
	n0 := n - h
	x0, x1 := x[:n0], x[n0:]
	s.logger.Debug("square", logging.String("algorithm", "parallel-toom2"),
		logging.Int("limbs", n), logging.String("half", s.Algorithm(n0)))

	asm1 := make([]big.Word, n0)
	vm1 := make([]big.Word, 2*n0)
	toom2Diff(asm1, x0, x1)

	g, ctx := errgroup.WithContext(ctx)
	for _, job := range []struct {
		dst, src []big.Word
	}{
		{vm1, asm1},
		{out[2*n0:], x1},
		{out[:2*n0], x0},
	} {
		g.Go(func() (err error) {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					if err = apperrors.AsContractViolation(r); err == nil {
						err = fmt.Errorf("%s: worker panic: %v", op, r)
					}
				}
			}()
			s.squareToOut(job.dst[:2*len(job.src)], job.src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	toom2Combine(out, vm1, n0, h)
	return nil
}

// SquareParallel squares with the default squarer.
func SquareParallel(ctx context.Context, out, x []big.Word) error {
	return defaultSquarer.SquareParallel(ctx, out, x)
}
