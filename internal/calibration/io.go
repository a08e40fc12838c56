package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/limbcalc/internal/format"
	"github.com/agbru/limbcalc/internal/ui"
)

// printCalibrationResults writes one row per measured threshold.
func printCalibrationResults(out io.Writer, results []SelectorResult) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sThreshold%s\t%sDefault%s\t%sMeasured%s\t%sAt crossover%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", strings.Repeat("─", 12), strings.Repeat("─", 8), strings.Repeat("─", 9), strings.Repeat("─", 14))
	for _, r := range results {
		measured := ui.Paint(ui.ColorYellow(), limitString(r.Value))
		switch {
		case r.Err != nil:
			measured = ui.Paint(ui.ColorRed(), "N/A")
		case !r.Found:
			measured = ui.Paint(ui.ColorMagenta(), "kept")
		case r.Value != r.Default:
			measured += ui.Paint(ui.ColorGreen(), " (changed)")
		}
		timing := "-"
		if r.Found && len(r.Samples) > 0 {
			last := r.Samples[len(r.Samples)-1]
			timing = format.FormatExecutionDuration(last.Above)
			if last.Below > 0 {
				timing += " vs " + format.FormatExecutionDuration(last.Below)
			}
		}
		fmt.Fprintf(tw, "  %s%s%s\t%s\t%s\t%s\n", ui.ColorCyan(), r.Name, ui.ColorReset(),
			limitString(r.Default), measured, timing)
	}
	tw.Flush()
}

// printCalibrationOutput reports the thresholds taken from a cached profile.
func printCalibrationOutput(p *CalibrationProfile, path string, out io.Writer) {
	fmt.Fprintf(out, "%sCached calibration%s from %s: toom3=%s%d%s toom4=%s%d%s dc_q=%s%d%s mu_q=%s%d%s\n",
		ui.ColorGreen(), ui.ColorReset(), path,
		ui.ColorYellow(), p.Toom.SqrToom3, ui.ColorReset(),
		ui.ColorYellow(), p.Toom.SqrToom4, ui.ColorReset(),
		ui.ColorYellow(), p.Exact.DCBdivQ, ui.ColorReset(),
		ui.ColorYellow(), p.Exact.MuBdivQ, ui.ColorReset())
}
