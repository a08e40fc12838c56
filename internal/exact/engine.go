package exact

import (
	"errors"
	"math/big"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/mul"
)

// ErrNotExact is the condition carried by the ContractViolation raised when
// a low limb of the dividend proves that the division leaves a remainder.
var ErrNotExact = errors.New("division not exact")

// Engine runs exact division and inversion with a fixed threshold table and
// multiplier. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	thresholds Thresholds
	mul        mul.Multiplier
}

// Option configures an Engine.
type Option func(*Engine)

// WithThresholds replaces the crossover table.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) { e.thresholds = t }
}

// WithMultiplier replaces the multiplier used by the Barrett and Newton
// paths.
func WithMultiplier(m mul.Multiplier) Option {
	return func(e *Engine) { e.mul = m }
}

// New returns an Engine with default thresholds and mul.Standard, modified
// by opts. It fails when the resulting thresholds do not validate.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		thresholds: DefaultThresholds(),
		mul:        mul.NewStandard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.mul == nil {
		return nil, apperrors.ValidationError{Field: "Multiplier", Message: "must not be nil"}
	}
	if err := e.thresholds.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Thresholds returns the engine's crossover table.
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

var defaultEngine = func() *Engine {
	e, err := New()
	if err != nil {
		panic(err)
	}
	return e
}()

// Default returns the engine behind the package-level functions.
func Default() *Engine { return defaultEngine }

// mulAny multiplies operands given in either order.
func (e *Engine) mulAny(out, x, y []big.Word) {
	if len(x) < len(y) {
		x, y = y, x
	}
	e.mul.Mul(out[:len(x)+len(y)], x, y)
}

func violation(op, format string, a ...any) apperrors.ContractViolation {
	return apperrors.NewContractViolation(op, format, a...)
}
