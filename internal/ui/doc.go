// Package ui holds the color themes of limbcalc: ANSI escape codes for the
// plain text reports and lipgloss colors for the verify dashboard.
package ui
