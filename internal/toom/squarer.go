package toom

import (
	"math/big"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/limbs"
	"github.com/agbru/limbcalc/internal/logging"
	"github.com/agbru/limbcalc/internal/mul"
)

// Squarer dispatches squarings over the basecase, the Toom kernels and the
// multiplier with a fixed threshold table. It holds no mutable state and is
// safe for concurrent use.
type Squarer struct {
	thresholds Thresholds
	mul        mul.Multiplier
	logger     logging.Logger
}

// Option configures a Squarer.
type Option func(*Squarer)

// WithThresholds replaces the crossover table.
func WithThresholds(t Thresholds) Option {
	return func(s *Squarer) { s.thresholds = t }
}

// WithMultiplier replaces the multiplier that receives squarings of at
// least SqrFFT limbs.
func WithMultiplier(m mul.Multiplier) Option {
	return func(s *Squarer) { s.mul = m }
}

// WithLogger sets the logger for algorithm selection messages.
func WithLogger(l logging.Logger) Option {
	return func(s *Squarer) { s.logger = l }
}

// New returns a Squarer with default thresholds, mul.Standard and a no-op
// logger, modified by opts.
func New(opts ...Option) (*Squarer, error) {
	s := &Squarer{
		thresholds: DefaultThresholds(),
		mul:        mul.NewStandard(),
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mul == nil {
		return nil, apperrors.ValidationError{Field: "Multiplier", Message: "must not be nil"}
	}
	if s.logger == nil {
		s.logger = logging.Nop()
	}
	if err := s.thresholds.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

var defaultSquarer = func() *Squarer {
	s, err := New()
	if err != nil {
		panic(err)
	}
	return s
}()

// Default returns the squarer behind the package-level functions.
func Default() *Squarer { return defaultSquarer }

// Thresholds returns the squarer's crossover table.
func (s *Squarer) Thresholds() Thresholds { return s.thresholds }

// Algorithm names the kernel SquareToOut uses for an n-limb operand.
func (s *Squarer) Algorithm(n int) string {
	t := &s.thresholds
	switch {
	case n >= t.SqrFFT:
		return "fft"
	case n < t.SqrToom2:
		return "basecase"
	case n < t.SqrToom3:
		return "toom2"
	case n < t.SqrToom4:
		return "toom3"
	case n < t.SqrToom6:
		return "toom4"
	case n < t.SqrToom8:
		return "toom6"
	default:
		return "toom8"
	}
}

// SquareToOut writes x² to out[:2*len(x)]. out must not overlap x. Scratch
// comes from the limb pool.
func (s *Squarer) SquareToOut(out, x []big.Word) {
	const op = "SquareToOut"
	n := len(x)
	check(n > 0, op, "x is empty")
	needLen(op, "out", out, 2*n)
	s.logger.Debug("square", logging.String("algorithm", s.Algorithm(n)), logging.Int("limbs", n))
	s.squareToOut(out[:2*n], x)
}

func (s *Squarer) squareToOut(out, x []big.Word) {
	n := len(x)
	if n >= s.thresholds.SqrFFT {
		s.mul.Mul(out, x, x)
		return
	}
	sl := s.ScratchLen(n)
	if sl == 0 {
		s.basecase(out, x)
		return
	}
	scratch := limbs.AcquireDirty(sl)
	defer limbs.Release(scratch)
	s.rec(out, x, scratch, level8)
}

// Square returns x² with its high zero limbs trimmed. The result is nil for
// an empty or zero x.
func (s *Squarer) Square(x []big.Word) []big.Word {
	x = limbs.Normalize(x)
	if len(x) == 0 {
		return nil
	}
	out := make([]big.Word, 2*len(x))
	s.SquareToOut(out, x)
	return limbs.Normalize(out)
}

// SquareToOut squares with the default squarer.
func SquareToOut(out, x []big.Word) { defaultSquarer.SquareToOut(out, x) }

// Square squares with the default squarer.
func Square(x []big.Word) []big.Word { return defaultSquarer.Square(x) }
