package app

import (
	"context"
	"fmt"
	"io"

	"github.com/agbru/limbcalc/internal/calibration"
	"github.com/agbru/limbcalc/internal/cli"
	"github.com/agbru/limbcalc/internal/config"
	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/logging"
	"github.com/agbru/limbcalc/internal/metrics"
	"github.com/agbru/limbcalc/internal/orchestration"
	"github.com/agbru/limbcalc/internal/sysmon"
	"github.com/agbru/limbcalc/internal/tui"
)

// output bundles the presentation of one command run.
type output struct {
	reporter  orchestration.ProgressReporter
	presenter orchestration.ResultPresenter
	handler   orchestration.ErrorHandler
	// progressOut receives the spinner and the comparison tables.
	progressOut io.Writer
	json        *cli.JSONPresenter
}

// verifyHooks observes the verify loop.
type verifyHooks interface {
	StartRound(r int)
	OperationDone(op orchestration.Operation, code int)
}

type noHooks struct{}

func (noHooks) StartRound(int) {}

func (noHooks) OperationDone(orchestration.Operation, int) {}

func (a *Application) newOutput(out io.Writer, seed int64) output {
	switch {
	case a.Config.JSON:
		p := cli.NewJSONPresenter(a.Config.Command, seed, a.Config.Verbose || a.Config.Command != config.CmdVerify)
		return output{reporter: orchestration.NullProgressReporter{}, presenter: p, handler: p, progressOut: io.Discard, json: p}
	case a.Config.Quiet:
		q := cli.QuietPresenter{Out: out}
		return output{reporter: orchestration.NullProgressReporter{}, presenter: q, handler: q, progressOut: io.Discard}
	default:
		p := cli.CLIResultPresenter{Verbose: a.Config.Verbose}
		return output{reporter: cli.CLIProgressReporter{}, presenter: p, handler: p, progressOut: out}
	}
}

func (a *Application) orchestrator() *orchestration.Orchestrator {
	return orchestration.New(
		orchestration.WithRecorder(a.recorder),
		orchestration.WithLogger(a.logger),
		orchestration.WithRepeat(a.Config.Repeat),
	)
}

func (a *Application) printHeader(w *orchestration.Workload, out io.Writer) {
	if a.Config.Quiet || a.Config.JSON {
		return
	}
	if a.ProfileLoaded {
		calibration.AnnounceCachedCalibration(calibration.ProfilePath(a.Config), out)
	}
	e, t := a.Config.ToThresholds()
	cli.PrintExecutionConfig(a.Config, e, t, w.Seed(), out)
}

// runSingle runs one operation of kind with the selected strategies.
func (a *Application) runSingle(ctx context.Context, kind orchestration.Kind, out io.Writer) int {
	w := orchestration.NewWorkload(a.Config.Seed)
	o := a.newOutput(out, w.Seed())
	a.printHeader(w, out)

	op := w.Next(kind, a.Config.Limbs, a.Config.DivisorLimbs)
	strategies, err := a.Factory.Select(a.Config.Strategy, kind)
	if err == nil && len(strategies) == 0 {
		err = fmt.Errorf("no strategy supports %s", kind)
	}
	if err != nil {
		o.presenter.PresentComparisonTable(op, nil, o.progressOut)
		return a.finish(o, o.handler.HandleError(op, apperrors.ConfigError{Message: err.Error()}, o.progressOut), out)
	}
	if !a.Config.Quiet && !a.Config.JSON {
		cli.PrintExecutionMode(strategies, out)
	}

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	orch := a.orchestrator()
	results := orch.Execute(ctx, op, strategies, o.reporter, o.progressOut)
	code := orch.AnalyzeResults(op, results, o.presenter, o.handler, o.progressOut)

	if a.Config.Verbose && o.json == nil && !a.Config.Quiet {
		cli.DisplayMemoryStats(metrics.Delta(before, collector.Snapshot()), out)
	}
	return a.finish(o, code, out)
}

// runVerify cross-checks Rounds random operations of every kind.
func (a *Application) runVerify(ctx context.Context, out io.Writer) int {
	w := orchestration.NewWorkload(a.Config.Seed)
	o := a.newOutput(out, w.Seed())
	a.printHeader(w, out)
	code := a.verify(ctx, w, o, noHooks{}, out)
	if !a.Config.Quiet && o.json == nil {
		fmt.Fprintf(out, "\nVerify finished: %d round(s), seed %d, exit code %d.\n", a.Config.Rounds, w.Seed(), code)
	}
	return a.finish(o, code, out)
}

// verify is the loop shared by the text output and the dashboard. A
// strategy that does not support a kind skips it. The worst exit code is
// returned, a mismatch outranking every other failure.
func (a *Application) verify(ctx context.Context, w *orchestration.Workload, o output, hooks verifyHooks, out io.Writer) int {
	orch := a.orchestrator()
	worst := apperrors.ExitSuccess
	for r := 1; r <= a.Config.Rounds; r++ {
		hooks.StartRound(r)
		for _, kind := range orchestration.Kinds {
			if err := ctx.Err(); err != nil {
				return worse(worst, apperrors.ExitCodeFor(err))
			}
			strategies, err := a.Factory.Select(a.Config.Strategy, kind)
			if err != nil || len(strategies) == 0 {
				a.logger.Debug("skipping kind", logging.String("kind", string(kind)))
				continue
			}
			op := w.Next(kind, a.Config.Limbs, a.Config.DivisorLimbs)
			results := orch.Execute(ctx, op, strategies, o.reporter, o.progressOut)
			code := orch.AnalyzeResults(op, results, o.presenter, o.handler, o.progressOut)
			hooks.OperationDone(op, code)
			worst = worse(worst, code)
		}
	}
	return worst
}

func worse(current, next int) int {
	if current == apperrors.ExitSuccess || next == apperrors.ExitErrorMismatch {
		return next
	}
	return current
}

// runTUI runs verify under the dashboard.
func (a *Application) runTUI(ctx context.Context) int {
	w := orchestration.NewWorkload(a.Config.Seed)
	session := func(ctx context.Context, b *tui.Bridge) int {
		o := output{reporter: b.Reporter, presenter: b.Presenter, handler: b.Presenter, progressOut: io.Discard}
		return a.verify(ctx, w, o, b, io.Discard)
	}
	return tui.Run(ctx, session, a.Config.Rounds, Version)
}

// finish writes the JSON report, if any, and returns code.
func (a *Application) finish(o output, code int, out io.Writer) int {
	if o.json == nil {
		return code
	}
	host := sysmon.Sample()
	if err := cli.WriteJSON(out, o.json.Report(code, &host)); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return worse(code, apperrors.ExitErrorGeneric)
	}
	return code
}
