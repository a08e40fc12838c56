package config

import (
	"runtime"

	"github.com/agbru/limbcalc/internal/limbs"
)

// ApplyAdaptiveThresholds fills the overrides that are still zero after
// the flags, the environment and the calibration profile with estimates
// derived from the host. The Toom crossovers are left to the built-in
// table; only calibration measures them.
func ApplyAdaptiveThresholds(cfg AppConfig) AppConfig {
	if cfg.Parallel == 0 {
		cfg.Parallel = EstimateOptimalParallelThreshold()
	}
	if cfg.FFTThreshold == 0 {
		cfg.FFTThreshold = EstimateOptimalFFTThreshold()
	}
	return cfg
}

// EstimateOptimalParallelThreshold returns the operand length in limbs from
// which squaring should fan out, based on the CPU count. On a single CPU it
// returns a length no operand reaches in practice.
func EstimateOptimalParallelThreshold() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU == 1:
		return 1 << 30
	case numCPU <= 2:
		return 16384
	case numCPU <= 4:
		return 8192
	case numCPU <= 8:
		return 4096
	case numCPU <= 16:
		return 2048
	default:
		return 1024
	}
}

// EstimateOptimalFFTThreshold returns the multiplication FFT crossover in
// limbs. The crossover sits near the same bit length on both word sizes.
func EstimateOptimalFFTThreshold() int {
	if limbs.W == 64 {
		return 1800
	}
	return 3600
}
