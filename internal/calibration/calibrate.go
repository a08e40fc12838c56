package calibration

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"math/rand"
	"runtime"
	"time"

	"github.com/agbru/limbcalc/internal/exact"
	"github.com/agbru/limbcalc/internal/limbs"
	"github.com/agbru/limbcalc/internal/logging"
	"github.com/agbru/limbcalc/internal/mul"
	"github.com/agbru/limbcalc/internal/toom"
)

// Tuning is the threshold set a calibration adjusts.
type Tuning struct {
	Exact exact.Thresholds
	Toom  toom.Thresholds
}

// DefaultTuning returns the built-in thresholds.
func DefaultTuning() Tuning {
	return Tuning{Exact: exact.DefaultThresholds(), Toom: toom.DefaultThresholds()}
}

// Validate reports the first threshold the engines reject.
func (t Tuning) Validate() error {
	if err := t.Exact.Validate(); err != nil {
		return err
	}
	return t.Toom.Validate()
}

// Sample is one ladder point: the time with the selector just above n,
// which runs the cheaper algorithm at the top level, and the time with the
// selector at n.
type Sample struct {
	Size  int           `json:"size"`
	Below time.Duration `json:"below_ns"`
	Above time.Duration `json:"above_ns"`
}

// SelectorResult is the outcome for one threshold.
type SelectorResult struct {
	Name    string   `json:"name"`
	Default int      `json:"default"`
	Value   int      `json:"value"`
	Found   bool     `json:"found"`
	Samples []Sample `json:"samples,omitempty"`
	Err     error    `json:"-"`
}

// selector describes how to move one threshold and how to time the
// operation it controls.
type selector struct {
	name   string
	lo, hi int
	get    func(*Tuning) int
	set    func(*Tuning, int)
	bench  func(c *Calibrator, t Tuning, n int) (func(), error)
}

// setSquare sets the toom crossover at idx to v and moves its neighbours so
// the table stays non-decreasing.
func setSquare(idx int) func(*Tuning, int) {
	return func(t *Tuning, v int) {
		fields := []*int{&t.Toom.SqrToom2, &t.Toom.SqrToom3, &t.Toom.SqrToom4, &t.Toom.SqrToom6, &t.Toom.SqrToom8}
		*fields[idx] = v
		for _, f := range fields[:idx] {
			*f = min(*f, v)
		}
		for _, f := range fields[idx+1:] {
			*f = max(*f, v)
		}
	}
}

var selectors = []selector{
	{name: "SqrToom2", lo: 4, hi: 80,
		get: func(t *Tuning) int { return t.Toom.SqrToom2 }, set: setSquare(0), bench: benchSquare},
	{name: "SqrToom3", lo: 16, hi: 300,
		get: func(t *Tuning) int { return t.Toom.SqrToom3 }, set: setSquare(1), bench: benchSquare},
	{name: "SqrToom4", lo: 48, hi: 700,
		get: func(t *Tuning) int { return t.Toom.SqrToom4 }, set: setSquare(2), bench: benchSquare},
	{name: "SqrToom6", lo: 96, hi: 900,
		get: func(t *Tuning) int { return t.Toom.SqrToom6 }, set: setSquare(3), bench: benchSquare},
	{name: "SqrToom8", lo: 160, hi: 1200,
		get: func(t *Tuning) int { return t.Toom.SqrToom8 }, set: setSquare(4), bench: benchSquare},
	{name: "DCBdivQR", lo: 8, hi: 200,
		get: func(t *Tuning) int { return t.Exact.DCBdivQR },
		set: func(t *Tuning, v int) {
			t.Exact.DCBdivQR = v
			t.Exact.MuBdivQR = max(t.Exact.MuBdivQR, v)
		},
		bench: benchDivMod},
	{name: "DCBdivQ", lo: 16, hi: 400,
		get: func(t *Tuning) int { return t.Exact.DCBdivQ },
		set: func(t *Tuning, v int) {
			t.Exact.DCBdivQ = v
			t.Exact.MuBdivQ = max(t.Exact.MuBdivQ, v+1)
		},
		bench: benchDiv},
	{name: "MuBdivQR", lo: 300, hi: 4000,
		get: func(t *Tuning) int { return t.Exact.MuBdivQR },
		set: func(t *Tuning, v int) {
			t.Exact.MuBdivQR = v
			t.Exact.DCBdivQR = min(t.Exact.DCBdivQR, v)
		},
		bench: benchDivMod},
	{name: "MuBdivQ", lo: 300, hi: 4000,
		get: func(t *Tuning) int { return t.Exact.MuBdivQ },
		set: func(t *Tuning, v int) {
			t.Exact.MuBdivQ = v
			t.Exact.DCBdivQ = min(t.Exact.DCBdivQ, v-1)
		},
		bench: benchDiv},
	{name: "BinvNewton", lo: 32, hi: 800,
		get: func(t *Tuning) int { return t.Exact.BinvNewton },
		set: func(t *Tuning, v int) { t.Exact.BinvNewton = v }, bench: benchInverse},
}

// SelectorNames lists the thresholds the calibration can measure.
func SelectorNames() []string {
	names := make([]string, 0, len(selectors)+1)
	for _, s := range selectors {
		names = append(names, s.name)
	}
	return append(names, parallelSelector)
}

// ─────────────────────────────────────────────────────────────────────────────
// Benchmarks
// ─────────────────────────────────────────────────────────────────────────────

func randomLimbs(r *rand.Rand, n int) []big.Word {
	x := make([]big.Word, n)
	for i := range x {
		x[i] = big.Word(r.Uint64())
	}
	x[n-1] |= 1 << (limbs.W - 1)
	return x
}

func randomOdd(r *rand.Rand, n int) []big.Word {
	x := randomLimbs(r, n)
	x[0] |= 1
	return x
}

func benchSquare(c *Calibrator, t Tuning, n int) (func(), error) {
	sq, err := toom.New(toom.WithThresholds(t.Toom), toom.WithMultiplier(c.mul))
	if err != nil {
		return nil, err
	}
	x := randomLimbs(c.rng, n)
	out := make([]big.Word, 2*n)
	return func() { sq.SquareToOut(out, x) }, nil
}

func newEngine(c *Calibrator, t Tuning) (*exact.Engine, error) {
	return exact.New(exact.WithThresholds(t.Exact), exact.WithMultiplier(c.mul))
}

// benchDiv times the quotient-only division of a 2n-limb dividend.
func benchDiv(c *Calibrator, t Tuning, n int) (func(), error) {
	e, err := newEngine(c, t)
	if err != nil {
		return nil, err
	}
	ns, ds := randomLimbs(c.rng, 2*n), randomOdd(c.rng, n)
	qs := make([]big.Word, 2*n)
	scratch := make([]big.Word, e.ModularDivRefScratchLen(2*n, n))
	return func() { e.ModularDivRef(qs, ns, ds, scratch) }, nil
}

// benchDivMod times the quotient and remainder of a (2n+2)-limb dividend.
func benchDivMod(c *Calibrator, t Tuning, n int) (func(), error) {
	e, err := newEngine(c, t)
	if err != nil {
		return nil, err
	}
	ns, ds := randomLimbs(c.rng, 2*n+2), randomOdd(c.rng, n)
	qs, rs := make([]big.Word, n+2), make([]big.Word, n)
	return func() { e.ModularDivMod(qs, rs, ns, ds) }, nil
}

func benchInverse(c *Calibrator, t Tuning, n int) (func(), error) {
	e, err := newEngine(c, t)
	if err != nil {
		return nil, err
	}
	ds := randomOdd(c.rng, n)
	is := make([]big.Word, n)
	scratch := make([]big.Word, e.ModularInverseScratchLen(n))
	return func() { e.ModularInverse(is, ds, scratch) }, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Calibrator
// ─────────────────────────────────────────────────────────────────────────────

// Calibrator measures crossovers on the running machine.
type Calibrator struct {
	mul      *mul.Standard
	base     Tuning
	rounds   int
	quick    bool
	only     map[string]bool
	logger   logging.Logger
	progress func(name string, done float64)
	rng      *rand.Rand
}

// Option configures a Calibrator.
type Option func(*Calibrator)

// WithMultiplier sets the multiplier the engines are built on.
func WithMultiplier(m *mul.Standard) Option { return func(c *Calibrator) { c.mul = m } }

// WithBase starts from t instead of the built-in thresholds.
func WithBase(t Tuning) Option { return func(c *Calibrator) { c.base = t } }

// WithRounds keeps the fastest of n runs per measurement.
func WithRounds(n int) Option {
	return func(c *Calibrator) {
		if n > 0 {
			c.rounds = n
		}
	}
}

// WithQuick shortens every ladder.
func WithQuick(quick bool) Option { return func(c *Calibrator) { c.quick = quick } }

// WithSelectors restricts the calibration to the named thresholds.
func WithSelectors(names ...string) Option {
	return func(c *Calibrator) {
		c.only = make(map[string]bool, len(names))
		for _, n := range names {
			c.only[n] = true
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option { return func(c *Calibrator) { c.logger = l } }

// WithProgress is called after every ladder point with the fraction of the
// current selector done.
func WithProgress(f func(name string, done float64)) Option {
	return func(c *Calibrator) { c.progress = f }
}

// WithSeed fixes the operand generator.
func WithSeed(seed int64) Option {
	return func(c *Calibrator) { c.rng = rand.New(rand.NewSource(seed)) }
}

// NewCalibrator returns a calibrator. Unknown selector names are rejected.
func NewCalibrator(opts ...Option) (*Calibrator, error) {
	c := &Calibrator{
		mul:    mul.NewStandard(),
		base:   DefaultTuning(),
		rounds: 3,
		logger: logging.Nop(),
		rng:    rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(c)
	}
	for name := range c.only {
		if !knownSelector(name) {
			return nil, fmt.Errorf("unknown threshold %q", name)
		}
	}
	if err := c.base.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func knownSelector(name string) bool {
	if name == parallelSelector {
		return true
	}
	for _, s := range selectors {
		if s.name == name {
			return true
		}
	}
	return false
}

// fastest runs f rounds times after one warm-up run and returns the
// shortest duration.
func (c *Calibrator) fastest(f func()) time.Duration {
	f()
	best := time.Duration(math.MaxInt64)
	for range c.rounds {
		start := time.Now()
		f()
		best = min(best, time.Since(start))
	}
	return best
}

func (c *Calibrator) measure(t Tuning, s selector, n int) (time.Duration, error) {
	f, err := s.bench(c, t, n)
	if err != nil {
		return 0, err
	}
	return c.fastest(f), nil
}

// Crossover walks the ladder of one selector from the current tuning and
// returns the first size at which the algorithm the selector enables is no
// slower than the one below it. When no such size exists the default value
// is kept and Found is false.
func (c *Calibrator) Crossover(ctx context.Context, cur Tuning, s selector) SelectorResult {
	res := SelectorResult{Name: s.name, Default: s.get(&cur), Value: s.get(&cur)}
	ladder := GenerateLadder(s.lo, s.hi, ladderSteps(c.quick))
	for i, n := range ladder {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		below, above := cur, cur
		s.set(&below, n+1)
		s.set(&above, n)
		tb, err := c.measure(below, s, n)
		if err != nil {
			res.Err = err
			return res
		}
		ta, err := c.measure(above, s, n)
		if err != nil {
			res.Err = err
			return res
		}
		res.Samples = append(res.Samples, Sample{Size: n, Below: tb, Above: ta})
		if c.progress != nil {
			c.progress(s.name, float64(i+1)/float64(len(ladder)))
		}
		if ta <= tb {
			res.Value, res.Found = n, true
			break
		}
	}
	c.logger.Debug("crossover measured", logging.String("selector", s.name),
		logging.Int("value", res.Value), logging.Int("samples", len(res.Samples)))
	return res
}

const parallelSelector = "Parallel"

// parallelSize is the operand length the parallel candidates are timed on.
func parallelSize(quick bool) int {
	if quick {
		return 6000
	}
	return 20000
}

// Parallel times SquareParallel on one large operand for every candidate
// threshold and returns the fastest.
func (c *Calibrator) Parallel(ctx context.Context, cur Tuning) SelectorResult {
	res := SelectorResult{Name: parallelSelector, Default: cur.Toom.Parallel, Value: cur.Toom.Parallel}
	candidates := GenerateParallelThresholds()
	if c.quick {
		candidates = GenerateQuickParallelThresholds()
	}
	if len(candidates) < 2 {
		return res
	}
	n := parallelSize(c.quick)
	x := randomLimbs(c.rng, n)
	out := make([]big.Word, 2*n)
	best := time.Duration(math.MaxInt64)
	for i, cand := range candidates {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		t := cur
		t.Toom.Parallel = parallelValue(cand)
		sq, err := toom.New(toom.WithThresholds(t.Toom), toom.WithMultiplier(c.mul))
		if err != nil {
			res.Err = err
			return res
		}
		var runErr error
		d := c.fastest(func() {
			if err := sq.SquareParallel(ctx, out, x); err != nil {
				runErr = err
			}
		})
		if runErr != nil {
			res.Err = runErr
			return res
		}
		res.Samples = append(res.Samples, Sample{Size: cand, Above: d})
		if d < best {
			best, res.Value, res.Found = d, t.Toom.Parallel, true
		}
		if c.progress != nil {
			c.progress(res.Name, float64(i+1)/float64(len(candidates)))
		}
	}
	return res
}

// Run measures every selected threshold in table order, each one starting
// from the values measured before it, and returns the tuning with the
// results.
func (c *Calibrator) Run(ctx context.Context) (Tuning, []SelectorResult, error) {
	cur := c.base
	var results []SelectorResult
	for _, s := range selectors {
		if c.only != nil && !c.only[s.name] {
			continue
		}
		res := c.Crossover(ctx, cur, s)
		results = append(results, res)
		if res.Err != nil {
			return cur, results, res.Err
		}
		if res.Found {
			next := cur
			s.set(&next, res.Value)
			if next.Validate() == nil {
				cur = next
			}
		}
	}
	if c.only == nil || c.only[parallelSelector] {
		if runtime.NumCPU() > 1 {
			res := c.Parallel(ctx, cur)
			results = append(results, res)
			if res.Err != nil {
				return cur, results, res.Err
			}
			cur.Toom.Parallel = res.Value
		}
	}
	return cur, results, nil
}
