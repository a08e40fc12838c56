package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/limbcalc/internal/config"
	"github.com/agbru/limbcalc/internal/mul"
	"github.com/agbru/limbcalc/internal/sysmon"
)

// ProfilePath returns the profile path of cfg, or the default one.
func ProfilePath(cfg config.AppConfig) string {
	if cfg.CalibrationProfile != "" {
		return cfg.CalibrationProfile
	}
	return GetDefaultProfilePath()
}

// RunCalibration measures every threshold starting from the configured
// ones, prints the summary and saves the profile. The profile is returned
// even when saving fails.
func RunCalibration(ctx context.Context, cfg config.AppConfig, out io.Writer, opts ...Option) (*CalibrationProfile, error) {
	e, t := cfg.ToThresholds()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	base := []Option{
		WithMultiplier(mul.NewStandard(cfg.MultiplierOptions()...)),
		WithBase(Tuning{Exact: e, Toom: t}),
		WithRounds(cfg.Rounds),
		WithSeed(seed),
	}
	c, err := NewCalibrator(append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Calibrating %d thresholds (%d rounds per point)...\n", len(SelectorNames()), c.rounds)
	load := sysmon.Sample()
	start := time.Now()
	tuning, results, err := c.Run(ctx)
	elapsed := time.Since(start)
	printCalibrationResults(out, results)
	if err != nil {
		return nil, fmt.Errorf("calibration interrupted: %w", err)
	}

	p := NewProfile()
	p.Exact, p.Toom = tuning.Exact, tuning.Toom
	p.Results = results
	p.CalibrationTime = elapsed.Round(time.Millisecond).String()
	p.Load = &load

	path := ProfilePath(cfg)
	if err := p.SaveProfile(path); err != nil {
		return p, err
	}
	fmt.Fprintf(out, "\nProfile saved to %s (%s).\n", path, p.CalibrationTime)
	return p, nil
}

// LoadCachedCalibration fills every threshold cfg leaves at zero from the
// profile at path. It returns false, with cfg unchanged, when the profile
// is missing, stale or was measured on different hardware.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() || p.IsStale(DefaultMaxAge) {
		return cfg, false
	}
	fill := func(dst *int, v int) {
		if *dst == 0 {
			*dst = v
		}
	}
	th := &cfg.Thresholds
	fill(&th.SqrBasecase, p.Toom.SqrBasecase)
	fill(&th.SqrToom2, p.Toom.SqrToom2)
	fill(&th.SqrToom3, p.Toom.SqrToom3)
	fill(&th.SqrToom4, p.Toom.SqrToom4)
	fill(&th.SqrToom6, p.Toom.SqrToom6)
	fill(&th.SqrToom8, p.Toom.SqrToom8)
	fill(&th.SqrFFT, p.Toom.SqrFFT)
	fill(&th.Parallel, p.Toom.Parallel)
	fill(&th.DCBdivQR, p.Exact.DCBdivQR)
	fill(&th.DCBdivQ, p.Exact.DCBdivQ)
	fill(&th.MuBdivQR, p.Exact.MuBdivQR)
	fill(&th.MuBdivQ, p.Exact.MuBdivQ)
	fill(&th.BinvNewton, p.Exact.BinvNewton)
	fill(&th.MulmodBlock, p.Exact.MulToMulmodBnm1For2NxN)
	return cfg, true
}

// AnnounceCachedCalibration writes the one-line notice for a loaded
// profile.
func AnnounceCachedCalibration(path string, out io.Writer) {
	if p, err := loadProfile(path); err == nil {
		printCalibrationOutput(p, path, out)
	}
}
