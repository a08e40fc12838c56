package limbs

import (
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUFeatures reports the instruction-set extensions that change the speed
// of the linked vector kernels. They are recorded alongside calibrated
// thresholds so that a profile measured on one machine is not reused on a
// different one.
type CPUFeatures struct {
	BMI2 bool `json:"bmi2"`
	ADX  bool `json:"adx"`
	AVX2 bool `json:"avx2"`
}

// Features returns the feature set of the running CPU. All fields are false
// on non-x86 architectures.
func Features() CPUFeatures {
	return CPUFeatures{
		BMI2: cpu.X86.HasBMI2,
		ADX:  cpu.X86.HasADX,
		AVX2: cpu.X86.HasAVX2,
	}
}

// String returns a compact list such as "bmi2+adx", or "generic".
func (f CPUFeatures) String() string {
	var parts []string
	if f.BMI2 {
		parts = append(parts, "bmi2")
	}
	if f.ADX {
		parts = append(parts, "adx")
	}
	if f.AVX2 {
		parts = append(parts, "avx2")
	}
	if len(parts) == 0 {
		return "generic"
	}
	return strings.Join(parts, "+")
}
