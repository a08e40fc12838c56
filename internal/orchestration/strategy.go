//go:generate mockgen -source=strategy.go -destination=mocks/mock_strategy.go -package=mocks

package orchestration

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/agbru/limbcalc/internal/mul"
	"github.com/agbru/limbcalc/internal/natural"
)

// Strategy computes operations one way. Implementations must be safe for
// concurrent use.
type Strategy interface {
	// Name is the registry key, e.g. "toom".
	Name() string
	// Supports reports whether the strategy implements kind.
	Supports(kind Kind) bool
	// Execute returns the operation's value.
	Execute(ctx context.Context, op Operation) (*big.Int, error)
}

// Engines are the configured arithmetic engines shared by the strategies.
type Engines struct {
	Arith      *natural.Arith
	Multiplier *mul.Standard
}

// StrategyAll selects every strategy supporting an operation.
const StrategyAll = "all"

// Constructor builds a strategy from the shared engines.
type Constructor func(Engines) Strategy

var (
	registryMu sync.RWMutex
	registry   = map[string]Constructor{}
)

// RegisterStrategy adds a constructor to the global registry. Build-tagged
// strategies register themselves from init.
func RegisterStrategy(name string, c Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = c
}

// StrategyFactory instantiates the registered strategies over one set of
// engines.
type StrategyFactory struct {
	engines    Engines
	strategies map[string]Strategy
}

// NewFactory instantiates every registered strategy. Nil engines are
// replaced by the defaults.
func NewFactory(engines Engines) *StrategyFactory {
	if engines.Arith == nil {
		engines.Arith = natural.New()
	}
	if engines.Multiplier == nil {
		engines.Multiplier = mul.NewStandard()
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	f := &StrategyFactory{engines: engines, strategies: make(map[string]Strategy, len(registry))}
	for name, c := range registry {
		f.strategies[name] = c(engines)
	}
	return f
}

// NewDefaultFactory uses the default engines.
func NewDefaultFactory() *StrategyFactory { return NewFactory(Engines{}) }

// List returns the strategy names in sorted order.
func (f *StrategyFactory) List() []string {
	names := make([]string, 0, len(f.strategies))
	for name := range f.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named strategy.
func (f *StrategyFactory) Get(name string) (Strategy, error) {
	if s, ok := f.strategies[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

// Register adds or replaces a strategy in this factory only.
func (f *StrategyFactory) Register(s Strategy) {
	f.strategies[s.Name()] = s
}

// Select returns the strategies to run for kind: the named one, or every
// strategy supporting kind when name is "all". Results are sorted by name.
func (f *StrategyFactory) Select(name string, kind Kind) ([]Strategy, error) {
	if name != StrategyAll {
		s, err := f.Get(name)
		if err != nil {
			return nil, err
		}
		if !s.Supports(kind) {
			return nil, fmt.Errorf("strategy %q does not support %s", name, kind)
		}
		return []Strategy{s}, nil
	}
	var out []Strategy
	for _, n := range f.List() {
		if s := f.strategies[n]; s.Supports(kind) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Supporting returns the names of the strategies that implement kind.
func (f *StrategyFactory) Supporting(kind Kind) []string {
	var names []string
	for _, n := range f.List() {
		if f.strategies[n].Supports(kind) {
			names = append(names, n)
		}
	}
	return names
}
