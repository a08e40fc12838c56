package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/limbcalc/internal/errors"
)

// isFlagSet reports whether the flag was given on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny reports whether any of the aliases was given.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride maps an environment key (without EnvPrefix) to the flags it
// stands for.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string) error
}

func intOverride(dst func(*AppConfig) *int) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func boolOverride(dst func(*AppConfig) *bool) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		b, err := parseBoolEnv(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func stringOverride(dst func(*AppConfig) *string) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		*dst(c) = v
		return nil
	}
}

// envOverrides lists every override. The threshold entries are appended
// from thresholdFlags.
var envOverrides = append([]envOverride{
	{"LIMBS", []string{"limbs"}, intOverride(func(c *AppConfig) *int { return &c.Limbs })},
	{"DIVISOR_LIMBS", []string{"divisor-limbs"}, intOverride(func(c *AppConfig) *int { return &c.DivisorLimbs })},
	{"ROUNDS", []string{"rounds"}, intOverride(func(c *AppConfig) *int { return &c.Rounds })},
	{"REPEAT", []string{"repeat"}, intOverride(func(c *AppConfig) *int { return &c.Repeat })},
	{"SEED", []string{"seed"}, func(c *AppConfig, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			c.Seed = n
		}
		return err
	}},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) error {
		d, err := time.ParseDuration(v)
		if err == nil {
			c.Timeout = d
		}
		return err
	}},
	{"STRATEGY", []string{"strategy"}, stringOverride(func(c *AppConfig) *string { return &c.Strategy })},
	{"LOG_LEVEL", []string{"log-level"}, stringOverride(func(c *AppConfig) *string { return &c.LogLevel })},
	{"METRICS_ADDR", []string{"metrics-addr"}, stringOverride(func(c *AppConfig) *string { return &c.MetricsAddr })},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, stringOverride(func(c *AppConfig) *string { return &c.CalibrationProfile })},
	{"JSON", []string{"json"}, boolOverride(func(c *AppConfig) *bool { return &c.JSON })},
	{"QUIET", []string{"quiet", "q"}, boolOverride(func(c *AppConfig) *bool { return &c.Quiet })},
	{"VERBOSE", []string{"v"}, boolOverride(func(c *AppConfig) *bool { return &c.Verbose })},
	{"NO_COLOR", []string{"no-color"}, boolOverride(func(c *AppConfig) *bool { return &c.NoColor })},
	{"TUI", []string{"tui"}, boolOverride(func(c *AppConfig) *bool { return &c.TUI })},
}, thresholdOverrides()...)

func thresholdOverrides() []envOverride {
	out := make([]envOverride, len(thresholdFlags))
	for i, tf := range thresholdFlags {
		out[i] = envOverride{tf.env, []string{tf.flag}, intOverride(func(c *AppConfig) *int { return tf.target(&c.Thresholds) })}
	}
	return out
}

// parseBoolEnv accepts true/1/yes and false/0/no in any case.
func parseBoolEnv(val string) (bool, error) {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, strconv.ErrSyntax
}

// applyEnvOverrides applies the environment to every flag that was not given
// explicitly. A value that does not parse is a ConfigError.
func applyEnvOverrides(cfg *AppConfig, fs *flag.FlagSet) error {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		val := os.Getenv(EnvPrefix + o.envKey)
		if val == "" {
			continue
		}
		if err := o.apply(cfg, val); err != nil {
			return apperrors.NewConfigError("invalid %s%s=%q", EnvPrefix, o.envKey, val)
		}
	}
	return nil
}
