// This file generates the size ladders and candidate values that the
// calibration measures, scaled to the host.

package calibration

import (
	"math"
	"runtime"
	"slices"
	"strconv"

	"github.com/agbru/limbcalc/internal/config"
)

// ─────────────────────────────────────────────────────────────────────────────
// Size ladders
// ─────────────────────────────────────────────────────────────────────────────

// GenerateLadder returns about steps sizes from lo to hi inclusive spaced
// geometrically, so each octave gets the same number of samples. The result
// is sorted and free of duplicates; it is empty when hi < lo.
func GenerateLadder(lo, hi, steps int) []int {
	if hi < lo || lo < 1 {
		return nil
	}
	if steps < 2 || lo == hi {
		return []int{lo}
	}
	ratio := math.Pow(float64(hi)/float64(lo), 1/float64(steps-1))
	out := make([]int, 0, steps)
	for i := range steps {
		n := int(math.Round(float64(lo) * math.Pow(ratio, float64(i))))
		out = append(out, min(max(n, lo), hi))
	}
	out[len(out)-1] = hi
	return slices.Compact(out)
}

// ladderSteps is the number of sizes tried per selector.
func ladderSteps(quick bool) int {
	if quick {
		return 6
	}
	return 14
}

// ─────────────────────────────────────────────────────────────────────────────
// Parallel threshold candidates
// ─────────────────────────────────────────────────────────────────────────────

// Sequential is the parallel threshold that never splits.
const Sequential = 0

// GenerateParallelThresholds returns the parallel squaring thresholds worth
// trying on this machine, Sequential first. A single CPU has nothing to
// gain from goroutines; more cores make smaller splits pay off.
func GenerateParallelThresholds() []int {
	numCPU := runtime.NumCPU()
	thresholds := []int{Sequential}
	switch {
	case numCPU == 1:
		return thresholds
	case numCPU <= 4:
		thresholds = append(thresholds, 2048, 4096, 8192, 16384)
	case numCPU <= 8:
		thresholds = append(thresholds, 1024, 2048, 4096, 8192, 16384)
	case numCPU <= 16:
		thresholds = append(thresholds, 512, 1024, 2048, 4096, 8192, 16384)
	default:
		thresholds = append(thresholds, 256, 512, 1024, 2048, 4096, 8192, 16384)
	}
	return thresholds
}

// GenerateQuickParallelThresholds is the reduced candidate set for a quick
// calibration.
func GenerateQuickParallelThresholds() []int {
	switch numCPU := runtime.NumCPU(); {
	case numCPU == 1:
		return []int{Sequential}
	case numCPU <= 4:
		return []int{Sequential, 4096, 8192}
	default:
		return []int{Sequential, 2048, 4096, 8192}
	}
}

// parallelValue maps a candidate to the value stored in toom.Thresholds.
func parallelValue(candidate int) int {
	if candidate == Sequential {
		return math.MaxInt
	}
	return candidate
}

// ─────────────────────────────────────────────────────────────────────────────
// Estimates without measurement
// ─────────────────────────────────────────────────────────────────────────────

// EstimateOptimalParallelThreshold delegates to config.
func EstimateOptimalParallelThreshold() int { return config.EstimateOptimalParallelThreshold() }

// EstimateOptimalFFTThreshold delegates to config.
func EstimateOptimalFFTThreshold() int { return config.EstimateOptimalFFTThreshold() }

func limitString(v int) string {
	if v == math.MaxInt {
		return "off"
	}
	return strconv.Itoa(v)
}
