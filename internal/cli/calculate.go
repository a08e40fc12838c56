package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/limbcalc/internal/config"
	"github.com/agbru/limbcalc/internal/exact"
	"github.com/agbru/limbcalc/internal/limbs"
	"github.com/agbru/limbcalc/internal/orchestration"
	"github.com/agbru/limbcalc/internal/toom"
	"github.com/agbru/limbcalc/internal/ui"
)

// PrintExecutionConfig writes the operand sizes, the environment and the
// thresholds in effect.
func PrintExecutionConfig(cfg config.AppConfig, e exact.Thresholds, t toom.Thresholds, seed int64, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Command %s%s%s on %s%d%s-limb operands (divisor %d limbs), %d round(s), seed %d, timeout %s%s%s.\n",
		ui.ColorMagenta(), cfg.Command, ui.ColorReset(),
		ui.ColorMagenta(), cfg.Limbs, ui.ColorReset(), cfg.DivisorLimbs, cfg.Rounds, seed,
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %d-bit limbs, %s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		limbs.W, limbs.Features())
	fmt.Fprintf(out, "Square thresholds: toom2=%d toom3=%d toom4=%d toom6=%d toom8=%d fft=%d parallel=%d limbs.\n",
		t.SqrToom2, t.SqrToom3, t.SqrToom4, t.SqrToom6, t.SqrToom8, t.SqrFFT, t.Parallel)
	fmt.Fprintf(out, "Division thresholds: dc_q=%d dc_qr=%d mu_q=%d mu_qr=%d binv_newton=%d limbs.\n",
		e.DCBdivQ, e.DCBdivQR, e.MuBdivQ, e.MuBdivQR, e.BinvNewton)
}

// PrintExecutionMode writes whether one strategy runs or several are
// compared.
func PrintExecutionMode(strategies []orchestration.Strategy, out io.Writer) {
	var mode string
	switch len(strategies) {
	case 0:
		mode = "no strategy supports this operation"
	case 1:
		mode = fmt.Sprintf("single run with the %s%s%s strategy", ui.ColorGreen(), strategies[0].Name(), ui.ColorReset())
	default:
		mode = fmt.Sprintf("parallel comparison of %d strategies", len(strategies))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", mode)
}
