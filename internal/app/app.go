// Package app wires the command line to the engines: it resolves the
// configuration, builds the arithmetic engines and the strategy factory,
// and runs the selected sub-command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/limbcalc/internal/calibration"
	"github.com/agbru/limbcalc/internal/cli"
	"github.com/agbru/limbcalc/internal/config"
	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/exact"
	"github.com/agbru/limbcalc/internal/logging"
	"github.com/agbru/limbcalc/internal/metrics"
	"github.com/agbru/limbcalc/internal/mul"
	"github.com/agbru/limbcalc/internal/natural"
	"github.com/agbru/limbcalc/internal/orchestration"
	"github.com/agbru/limbcalc/internal/toom"
	"github.com/agbru/limbcalc/internal/ui"
)

// Application is one limbcalc invocation.
type Application struct {
	Config    config.AppConfig
	Factory   *orchestration.StrategyFactory
	ErrWriter io.Writer

	// ProfileLoaded is set when thresholds came from a calibration profile.
	ProfileLoaded bool

	logger   logging.Logger
	recorder *metrics.Recorder
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory replaces the strategy factory built from the configuration.
func WithFactory(f *orchestration.StrategyFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithLogger replaces the stderr logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.logger = l }
}

// New parses args, program name first, and builds the engines.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	a := &Application{ErrWriter: errWriter, recorder: metrics.NewRecorder()}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NewLogger(errWriter, "limbcalc")
	}

	names := orchestration.NewDefaultFactory().List()
	if a.Factory != nil {
		names = a.Factory.List()
	}

	programName := "limbcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}
	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, names)
	if err != nil {
		return nil, err
	}

	if cfg.Command != config.CmdCalibrate {
		if withProfile, loaded := calibration.LoadCachedCalibration(cfg, calibration.ProfilePath(cfg)); loaded {
			cfg, a.ProfileLoaded = withProfile, true
		}
	}
	cfg = config.ApplyAdaptiveThresholds(cfg)
	a.Config = cfg

	if a.Factory == nil {
		engines, err := buildEngines(cfg, a.logger)
		if err != nil {
			return nil, err
		}
		a.Factory = orchestration.NewFactory(engines)
	}
	return a, nil
}

// buildEngines creates the engines of cfg around one shared multiplier.
func buildEngines(cfg config.AppConfig, logger logging.Logger) (orchestration.Engines, error) {
	e, t := cfg.ToThresholds()
	m := mul.NewStandard(cfg.MultiplierOptions()...)
	ex, err := exact.New(exact.WithThresholds(e), exact.WithMultiplier(m))
	if err != nil {
		return orchestration.Engines{}, apperrors.WrapError(err, "division thresholds")
	}
	sq, err := toom.New(toom.WithThresholds(t), toom.WithMultiplier(m), toom.WithLogger(logger))
	if err != nil {
		return orchestration.Engines{}, apperrors.WrapError(err, "squaring thresholds")
	}
	return orchestration.Engines{
		Arith:      natural.New(natural.WithExactEngine(ex), natural.WithSquarer(sq)),
		Multiplier: m,
	}, nil
}

// Run executes the sub-command and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)
	zerolog.SetGlobalLevel(a.Config.ZerologLevel())

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.MetricsAddr != "" {
		stop, err := a.recorder.Serve(ctx, a.Config.MetricsAddr)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		defer stop()
		a.logger.Info("serving metrics", logging.String("addr", a.Config.MetricsAddr))
	}

	switch a.Config.Command {
	case config.CmdCalibrate:
		return a.runCalibration(ctx, out)
	case config.CmdVerify:
		if a.Config.TUI {
			return a.runTUI(ctx)
		}
		return a.runVerify(ctx, out)
	default:
		return a.runSingle(ctx, orchestration.Kind(a.Config.Command), out)
	}
}

// runCalibration measures the thresholds and saves the profile.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	var opts []calibration.Option
	opts = append(opts, calibration.WithLogger(a.logger))
	if !a.Config.Quiet && !a.Config.JSON {
		opts = append(opts, calibration.WithProgress(func(name string, done float64) {
			a.logger.Debug("calibrating", logging.String("selector", name), logging.Float64("done", done))
		}))
	}
	report := out
	if a.Config.JSON {
		report = io.Discard
	}
	p, err := calibration.RunCalibration(ctx, a.Config, report, opts...)
	if a.Config.JSON && p != nil {
		if werr := cli.WriteJSON(out, p); werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	return apperrors.ExitSuccess
}

// IsHelpError reports whether err comes from -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
