package cli

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/agbru/limbcalc/internal/config"
	"github.com/agbru/limbcalc/internal/exact"
	"github.com/agbru/limbcalc/internal/orchestration"
	"github.com/agbru/limbcalc/internal/toom"
)

type namedStrategy string

func (s namedStrategy) Name() string                   { return string(s) }
func (namedStrategy) Supports(orchestration.Kind) bool { return true }
func (namedStrategy) Execute(context.Context, orchestration.Operation) (*big.Int, error) {
	return new(big.Int), nil
}

func TestPrintExecutionConfig(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cfg := config.AppConfig{
		Command:      config.CmdSquare,
		Limbs:        1000,
		DivisorLimbs: 300,
		Rounds:       2,
		Timeout:      time.Minute,
	}
	PrintExecutionConfig(cfg, exact.DefaultThresholds(), toom.DefaultThresholds(), 7, &buf)

	out := buf.String()
	for _, want := range []string{
		"Execution Configuration",
		"1000",
		"divisor 300 limbs",
		"2 round(s)",
		"seed 7",
		"1m0s",
		"toom2=28",
		"binv_newton=224",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintExecutionMode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		strategies []orchestration.Strategy
		want       string
	}{
		{"none", nil, "no strategy supports"},
		{"single", []orchestration.Strategy{namedStrategy("toom")}, "single run with the"},
		{"several", []orchestration.Strategy{namedStrategy("toom"), namedStrategy("mathbig")}, "parallel comparison of 2 strategies"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			PrintExecutionMode(tt.strategies, &buf)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("got %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}
