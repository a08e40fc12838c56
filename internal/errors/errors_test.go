package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"config", ConfigError{Message: "invalid flag value"}, "invalid flag value"},
		{"config formatted", NewConfigError("invalid value %d for flag %s", 42, "-limbs"), "invalid value 42 for flag -limbs"},
		{"calculation", CalculationError{Cause: errors.New("boom")}, "boom"},
		{"calculation with strategy", CalculationError{Strategy: "toom", Cause: errors.New("boom")}, "toom: boom"},
		{"timeout", TimeoutError{Operation: "square", Limit: 5 * time.Second}, `operation "square" timed out after 5s`},
		{"validation", ValidationError{Field: "SqrToom3", Message: "must be positive"}, `validation error for "SqrToom3": must be positive`},
		{"contract", NewContractViolation("DivExact", "divisor has %d limbs", 0), "DivExact: divisor has 0 limbs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUnwrapChains(t *testing.T) {
	t.Parallel()
	sentinel := errors.New("division not exact")

	t.Run("CalculationError unwraps its cause", func(t *testing.T) {
		t.Parallel()
		err := CalculationError{Cause: context.DeadlineExceeded}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Error("errors.Is should see through CalculationError")
		}
	})

	t.Run("ContractViolation unwraps its condition", func(t *testing.T) {
		t.Parallel()
		err := WrapError(ContractViolation{Op: "DivExact", Err: sentinel}, "strategy %s", "toom")
		if !errors.Is(err, sentinel) {
			t.Error("errors.Is should find the sentinel")
		}
		var cv ContractViolation
		if !errors.As(err, &cv) || cv.Op != "DivExact" {
			t.Errorf("errors.As = %+v", cv)
		}
	})

	t.Run("ValidationError wrapped with WrapError", func(t *testing.T) {
		t.Parallel()
		err := WrapError(ValidationError{Field: "n", Message: "too large"}, "config check failed")
		var validationErr ValidationError
		if !errors.As(err, &validationErr) {
			t.Error("errors.As should find ValidationError through WrapError")
		}
	})
}

func TestAsContractViolation(t *testing.T) {
	t.Parallel()
	recovered := func(f func()) (r any) {
		defer func() { r = recover() }()
		f()
		return nil
	}

	r := recovered(func() { panic(NewContractViolation("ModularInverse", "even divisor")) })
	if err := AsContractViolation(r); err == nil || err.Error() != "ModularInverse: even divisor" {
		t.Errorf("AsContractViolation = %v", err)
	}
	r = recovered(func() { panic("index out of range") })
	if err := AsContractViolation(r); err != nil {
		t.Errorf("foreign panic converted to %v", err)
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		original    error
		format      string
		args        []any
		expectedMsg string
		expectNil   bool
		checkIs     error
	}{
		{
			name:        "wraps error with context",
			original:    errors.New("file not found"),
			format:      "failed to load profile",
			expectedMsg: "failed to load profile: file not found",
		},
		{
			name:        "preserves error chain",
			original:    context.DeadlineExceeded,
			format:      "operation timed out",
			expectedMsg: "operation timed out: context deadline exceeded",
			checkIs:     context.DeadlineExceeded,
		},
		{
			name:      "returns nil for nil error",
			original:  nil,
			format:    "some context",
			expectNil: true,
		},
		{
			name:        "supports format arguments",
			original:    errors.New("connection reset"),
			format:      "failed to serve %s:%d",
			args:        []any{"localhost", 9090},
			expectedMsg: "failed to serve localhost:9090: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := WrapError(tt.original, tt.format, tt.args...)
			if tt.expectNil {
				if wrapped != nil {
					t.Error("WrapError(nil, ...) should return nil")
				}
				return
			}
			if wrapped == nil {
				t.Fatal("wrapped error should not be nil")
			}
			if wrapped.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, wrapped.Error())
			}
			if tt.checkIs != nil && !errors.Is(wrapped, tt.checkIs) {
				t.Errorf("wrapped error should preserve %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "operation canceled"), true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"deadline", fmt.Errorf("square: %w", context.DeadlineExceeded), ExitErrorTimeout},
		{"timeout type", TimeoutError{Operation: "divexact", Limit: time.Second}, ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"config", NewConfigError("bad -limbs"), ExitErrorConfig},
		{"validation", WrapError(ValidationError{Field: "MuBdivQ"}, "thresholds"), ExitErrorConfig},
		{"contract", NewContractViolation("DivExact", "not exact"), ExitErrorGeneric},
		{"generic", errors.New("x"), ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	t.Parallel()
	seen := make(map[int]bool)
	for _, c := range []int{ExitSuccess, ExitErrorGeneric, ExitErrorTimeout, ExitErrorMismatch, ExitErrorConfig, ExitErrorCanceled} {
		if seen[c] {
			t.Errorf("duplicate exit code %d", c)
		}
		seen[c] = true
	}
	if ExitErrorCanceled != 130 {
		t.Errorf("ExitErrorCanceled should follow the SIGINT convention, got %d", ExitErrorCanceled)
	}
}
