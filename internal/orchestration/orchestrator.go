package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/logging"
	"github.com/agbru/limbcalc/internal/metrics"
)

// ProgressBufferMultiplier sizes the progress channel per strategy so slow
// displays do not block the workers.
const ProgressBufferMultiplier = 5

// Orchestrator runs an operation through several strategies concurrently and
// records one span and one metric sample per strategy.
type Orchestrator struct {
	recorder *metrics.Recorder
	tracer   trace.Tracer
	logger   logging.Logger
	repeat   int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder records durations and statuses in r.
func WithRecorder(r *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithTracer replaces the global otel tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithRepeat runs every strategy n times and keeps the fastest run.
func WithRepeat(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.repeat = n
		}
	}
}

// New returns an Orchestrator. Without options it traces through the global
// provider, logs nothing and runs each strategy once.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		tracer: otel.Tracer("github.com/agbru/limbcalc/internal/orchestration"),
		logger: logging.Nop(),
		repeat: 1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute runs op through every strategy and returns one result per
// strategy, in the order given. A failing strategy does not stop the others;
// cancellation of ctx does.
func (o *Orchestrator) Execute(ctx context.Context, op Operation, strategies []Strategy, reporter ProgressReporter, out io.Writer) []Result {
	if reporter == nil {
		reporter = NullProgressReporter{}
	}
	results := make([]Result, len(strategies))
	progressChan := make(chan ProgressUpdate, len(strategies)*ProgressBufferMultiplier)
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, names, out)

	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Go(func() {
			results[i] = o.run(ctx, i, s, op, progressChan)
		})
	}
	wg.Wait()
	close(progressChan)
	displayWg.Wait()
	return results
}

func (o *Orchestrator) run(ctx context.Context, idx int, s Strategy, op Operation, progressChan chan<- ProgressUpdate) Result {
	ctx, span := o.tracer.Start(ctx, "limbcalc."+string(op.Kind), trace.WithAttributes(
		attribute.String("limbcalc.strategy", s.Name()),
		attribute.Int("limbcalc.limbs", op.Size()),
		attribute.Int("limbcalc.repeat", o.repeat),
	))
	defer span.End()

	res := Result{Name: s.Name()}
	for r := 0; r < o.repeat; r++ {
		// A failed result carries the time of the run that failed, or zero
		// when no run started.
		if err := ctx.Err(); err != nil {
			res.Value, res.Err, res.Duration = nil, err, 0
			break
		}
		start := time.Now()
		v, err := safeExecute(ctx, s, op)
		d := time.Since(start)
		if err != nil {
			res.Value, res.Duration = nil, d
			res.Err = apperrors.CalculationError{Strategy: s.Name(), Cause: err}
			break
		}
		if res.Value == nil || d < res.Duration {
			res.Duration = d
		}
		res.Value = v
		progressChan <- ProgressUpdate{Index: idx, Value: float64(r+1) / float64(o.repeat)}
	}

	if o.recorder != nil {
		o.recorder.Observe(string(op.Kind), s.Name(), op.Size(), res.Duration, res.Err)
	}
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		o.logger.Error("strategy failed", res.Err, logging.String("strategy", s.Name()), logging.String("op", string(op.Kind)))
	} else {
		span.SetAttributes(attribute.Int64("limbcalc.duration_ns", res.Duration.Nanoseconds()))
		o.logger.Debug("strategy done", logging.String("strategy", s.Name()), logging.String("op", string(op.Kind)),
			logging.String("duration", res.Duration.String()))
	}
	return res
}

// safeExecute turns a contract-violation panic from the engines into an
// error. Any other panic is a bug and propagates.
func safeExecute(ctx context.Context, s Strategy, op Operation) (v *big.Int, err error) {
	defer func() {
		if r := recover(); r != nil {
			cv := apperrors.AsContractViolation(r)
			if cv == nil {
				panic(r)
			}
			v, err = nil, cv
		}
	}()
	return s.Execute(ctx, op)
}

// Summary is the verdict over the results of one operation.
type Summary struct {
	// Best is the fastest result that passed its check, or nil.
	Best *Result
	// Succeeded counts results without error.
	Succeeded int
	// Mismatch is set when two valid results differ or a value failed its
	// algebraic check.
	Mismatch bool
	// FirstErr is the first strategy error in sorted order.
	FirstErr error
}

// Summarize sorts results, fastest valid first, checks every value
// algebraically and compares the values against each other.
func Summarize(op Operation, results []Result) Summary {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})
	var s Summary
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			if s.FirstErr == nil {
				s.FirstErr = r.Err
			}
			continue
		}
		s.Succeeded++
		if err := op.Check(r.Value); err != nil {
			r.Err = apperrors.CalculationError{Strategy: r.Name, Cause: err}
			s.Mismatch = true
			continue
		}
		if s.Best == nil {
			s.Best = r
		} else if r.Value.Cmp(s.Best.Value) != 0 {
			s.Mismatch = true
		}
	}
	return s
}

// AnalyzeResults presents the comparison table and the agreed value and
// returns the exit code for the operation.
func (o *Orchestrator) AnalyzeResults(op Operation, results []Result, presenter ResultPresenter, handler ErrorHandler, out io.Writer) int {
	s := Summarize(op, results)
	presenter.PresentComparisonTable(op, results, out)

	if s.Mismatch {
		if o.recorder != nil {
			o.recorder.ObserveMismatch(string(op.Kind))
		}
		o.logger.Error("results disagree", fmt.Errorf("%s", op), logging.Int("strategies", len(results)))
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The strategies disagree on %s.\n", op)
		return apperrors.ExitErrorMismatch
	}
	if s.Succeeded == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy completed %s.\n", op)
		return handler.HandleError(op, s.FirstErr, out)
	}
	if len(results) > 1 {
		fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	}
	presenter.PresentResult(op, *s.Best, out)
	return apperrors.ExitSuccess
}
