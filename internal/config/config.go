// Package config parses the limbcalc command line. Values come from flags,
// then from LIMBCALC_* environment variables, then from a calibration
// profile, then from hardware estimates, and finally from the engines'
// built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/exact"
	"github.com/agbru/limbcalc/internal/mul"
	"github.com/agbru/limbcalc/internal/toom"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LIMBCALC_"

// Sub-commands.
const (
	CmdSquare    = "square"
	CmdDivExact  = "divexact"
	CmdInvert    = "invert"
	CmdVerify    = "verify"
	CmdCalibrate = "calibrate"
)

// Commands lists the sub-commands in usage order.
var Commands = []string{CmdSquare, CmdDivExact, CmdInvert, CmdVerify, CmdCalibrate}

// StrategyAll selects every strategy that supports the operation.
const StrategyAll = "all"

const (
	defaultLimbs        = 1000
	defaultDivisorLimbs = 400
	defaultRounds       = 3
	defaultTimeout      = 5 * time.Minute
)

// Thresholds holds the per-selector overrides. Zero keeps the value from the
// calibration profile or the built-in default.
type Thresholds struct {
	SqrBasecase int
	SqrToom2    int
	SqrToom3    int
	SqrToom4    int
	SqrToom6    int
	SqrToom8    int
	SqrFFT      int
	Parallel    int

	DCBdivQR    int
	DCBdivQ     int
	MuBdivQR    int
	MuBdivQ     int
	BinvNewton  int
	MulmodBlock int

	FFTThreshold int
}

// AppConfig is the fully resolved configuration of one invocation.
type AppConfig struct {
	// Command is one of Commands.
	Command string
	// Limbs is the operand length: the squared value, the exact quotient,
	// or the inverse precision.
	Limbs int
	// DivisorLimbs is the divisor length of divexact.
	DivisorLimbs int
	// Rounds is the number of random operations checked by verify.
	Rounds int
	// Repeat runs each strategy this many times and keeps the fastest.
	Repeat int
	// Seed drives operand generation. Zero picks a seed from the clock.
	Seed int64
	// Strategy is a registered strategy name or StrategyAll.
	Strategy string
	Timeout  time.Duration

	JSON     bool
	Quiet    bool
	Verbose  bool
	NoColor  bool
	TUI      bool
	LogLevel string

	// MetricsAddr, when set, serves Prometheus metrics on this address
	// while the command runs.
	MetricsAddr string
	// CalibrationProfile is the profile path; empty selects the default.
	CalibrationProfile string

	Thresholds
}

// thresholdFlag binds one override to its flag and environment key.
type thresholdFlag struct {
	flag   string
	env    string
	usage  string
	target func(*Thresholds) *int
}

var thresholdFlags = []thresholdFlag{
	{"sqr-basecase", "SQR_BASECASE", "length from which the basecase uses the diagonal square", func(t *Thresholds) *int { return &t.SqrBasecase }},
	{"sqr-toom2", "SQR_TOOM2", "Toom-2 squaring crossover in limbs", func(t *Thresholds) *int { return &t.SqrToom2 }},
	{"sqr-toom3", "SQR_TOOM3", "Toom-3 squaring crossover in limbs", func(t *Thresholds) *int { return &t.SqrToom3 }},
	{"sqr-toom4", "SQR_TOOM4", "Toom-4 squaring crossover in limbs", func(t *Thresholds) *int { return &t.SqrToom4 }},
	{"sqr-toom6", "SQR_TOOM6", "Toom-6 squaring crossover in limbs", func(t *Thresholds) *int { return &t.SqrToom6 }},
	{"sqr-toom8", "SQR_TOOM8", "Toom-8 squaring crossover in limbs", func(t *Thresholds) *int { return &t.SqrToom8 }},
	{"sqr-fft", "SQR_FFT", "length from which squaring uses the FFT multiplier", func(t *Thresholds) *int { return &t.SqrFFT }},
	{"parallel", "PARALLEL", "length from which squaring fans out to goroutines", func(t *Thresholds) *int { return &t.Parallel }},
	{"dc-bdiv-qr", "DC_BDIV_QR", "divide-and-conquer quotient+remainder crossover", func(t *Thresholds) *int { return &t.DCBdivQR }},
	{"dc-bdiv-q", "DC_BDIV_Q", "divide-and-conquer quotient crossover", func(t *Thresholds) *int { return &t.DCBdivQ }},
	{"mu-bdiv-qr", "MU_BDIV_QR", "Barrett quotient+remainder crossover", func(t *Thresholds) *int { return &t.MuBdivQR }},
	{"mu-bdiv-q", "MU_BDIV_Q", "Barrett quotient crossover", func(t *Thresholds) *int { return &t.MuBdivQ }},
	{"binv-newton", "BINV_NEWTON", "Newton inverse crossover", func(t *Thresholds) *int { return &t.BinvNewton }},
	{"mulmod-block", "MULMOD_BLOCK", "Barrett block length for products mod B^m-1", func(t *Thresholds) *int { return &t.MulmodBlock }},
	{"fft-threshold", "FFT_THRESHOLD", "multiplication FFT crossover in limbs", func(t *Thresholds) *int { return &t.FFTThreshold }},
}

// ParseConfig parses args (without the program name). The first argument
// names the sub-command; verify runs when it is missing. flag.ErrHelp is
// returned unchanged after the usage text has been written to errWriter.
func ParseConfig(programName string, args []string, errWriter io.Writer, strategies []string) (AppConfig, error) {
	cfg := AppConfig{Command: CmdVerify}
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cfg.Command, args = args[0], args[1:]
	}
	if cfg.Command == "help" {
		printUsage(errWriter, programName, nil)
		return cfg, flag.ErrHelp
	}
	if !slices.Contains(Commands, cfg.Command) {
		printUsage(errWriter, programName, nil)
		return cfg, apperrors.NewConfigError("unknown command %q", cfg.Command)
	}

	fs := flag.NewFlagSet(programName+" "+cfg.Command, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.IntVar(&cfg.Limbs, "limbs", defaultLimbs, "operand length in limbs")
	fs.IntVar(&cfg.DivisorLimbs, "divisor-limbs", defaultDivisorLimbs, "divisor length in limbs (divexact)")
	fs.IntVar(&cfg.Rounds, "rounds", defaultRounds, "random operations per kind (verify)")
	fs.IntVar(&cfg.Repeat, "repeat", 1, "runs per strategy; the fastest is reported")
	fs.Int64Var(&cfg.Seed, "seed", 0, "operand seed (0 = from the clock)")
	fs.StringVar(&cfg.Strategy, "strategy", StrategyAll, fmt.Sprintf("strategy: %s or %s", strings.Join(strategies, ", "), StrategyAll))
	fs.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "maximum run time")
	fs.BoolVar(&cfg.JSON, "json", false, "print results as JSON")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "print only the result")
	fs.BoolVar(&cfg.Quiet, "q", false, "shorthand for -quiet")
	fs.BoolVar(&cfg.Verbose, "v", false, "print full values")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable colors")
	fs.BoolVar(&cfg.TUI, "tui", false, "show the interactive dashboard (verify)")
	fs.StringVar(&cfg.LogLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", "", "calibration profile path")
	for _, tf := range thresholdFlags {
		fs.IntVar(tf.target(&cfg.Thresholds), tf.flag, 0, tf.usage)
	}
	fs.Usage = func() { printUsage(errWriter, programName, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, apperrors.ConfigError{Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return cfg, apperrors.NewConfigError("unexpected argument %q", fs.Arg(0))
	}
	if err := applyEnvOverrides(&cfg, fs); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(strategies); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func printUsage(w io.Writer, programName string, fs *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: %s <command> [flags]\n\nCommands:\n", programName)
	fmt.Fprintf(w, "  %-10s square a random operand\n", CmdSquare)
	fmt.Fprintf(w, "  %-10s divide a random multiple of a random divisor exactly\n", CmdDivExact)
	fmt.Fprintf(w, "  %-10s invert a random odd value modulo B^limbs\n", CmdInvert)
	fmt.Fprintf(w, "  %-10s cross-check every operation against the other strategies (default)\n", CmdVerify)
	fmt.Fprintf(w, "  %-10s measure the algorithm crossovers and save a profile\n", CmdCalibrate)
	if fs != nil {
		fmt.Fprintf(w, "\nFlags:\n")
		fs.PrintDefaults()
	}
	fmt.Fprintf(w, "\nEvery flag can be set through %s<NAME>, for example %sLIMBS=5000.\n", EnvPrefix, EnvPrefix)
}

// Validate checks the values that the engines do not check themselves.
func (c AppConfig) Validate(strategies []string) error {
	switch {
	case c.Limbs < 1:
		return apperrors.NewConfigError("-limbs must be at least 1, got %d", c.Limbs)
	case c.Command == CmdDivExact && c.DivisorLimbs < 1:
		return apperrors.NewConfigError("-divisor-limbs must be at least 1, got %d", c.DivisorLimbs)
	case c.Rounds < 1:
		return apperrors.NewConfigError("-rounds must be at least 1, got %d", c.Rounds)
	case c.Repeat < 1:
		return apperrors.NewConfigError("-repeat must be at least 1, got %d", c.Repeat)
	case c.Timeout <= 0:
		return apperrors.NewConfigError("-timeout must be positive, got %s", c.Timeout)
	case c.Strategy != StrategyAll && !slices.Contains(strategies, c.Strategy):
		return apperrors.NewConfigError("unknown strategy %q (available: %s)", c.Strategy, strings.Join(strategies, ", "))
	case c.JSON && c.TUI:
		return apperrors.NewConfigError("-json and -tui are exclusive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("invalid -log-level %q", c.LogLevel)
	}
	for _, tf := range thresholdFlags {
		if v := *tf.target(&c.Thresholds); v < 0 {
			return apperrors.NewConfigError("-%s must not be negative, got %d", tf.flag, v)
		}
	}
	return nil
}

// ZerologLevel returns the parsed log level, warn when it cannot be parsed.
func (c AppConfig) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.WarnLevel
	}
	return level
}

// ToThresholds returns the engine tables with every nonzero override
// applied on top of the built-in defaults.
func (c AppConfig) ToThresholds() (exact.Thresholds, toom.Thresholds) {
	e := exact.DefaultThresholds()
	override(&e.DCBdivQR, c.DCBdivQR)
	override(&e.DCBdivQ, c.DCBdivQ)
	override(&e.MuBdivQR, c.MuBdivQR)
	override(&e.MuBdivQ, c.MuBdivQ)
	override(&e.BinvNewton, c.BinvNewton)
	override(&e.MulToMulmodBnm1For2NxN, c.MulmodBlock)

	t := toom.DefaultThresholds()
	override(&t.SqrBasecase, c.SqrBasecase)
	override(&t.SqrToom2, c.SqrToom2)
	override(&t.SqrToom3, c.SqrToom3)
	override(&t.SqrToom4, c.SqrToom4)
	override(&t.SqrToom6, c.SqrToom6)
	override(&t.SqrToom8, c.SqrToom8)
	override(&t.SqrFFT, c.SqrFFT)
	override(&t.Parallel, c.Parallel)
	return e, t
}

// MultiplierOptions returns the options of the shared mul.Standard.
func (c AppConfig) MultiplierOptions() []mul.Option {
	if c.FFTThreshold > 0 {
		return []mul.Option{mul.WithFFTThreshold(c.FFTThreshold)}
	}
	return nil
}

func override(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
