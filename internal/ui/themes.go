package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const (
	escBold      = "\033[1m"
	escUnderline = "\033[4m"
	escReset     = "\033[0m"
)

// Theme maps the roles of the text reports to ANSI escape codes. An empty
// code disables the role.
type Theme struct {
	Name string

	Accent  string // headings, strategy names
	Muted   string // labels, secondary numbers
	Pass    string // successful verdicts
	Warn    string // skipped kinds, slow strategies
	Fail    string // errors and mismatches
	Value   string // results and sizes

	Bold, Underline, Reset string
}

// palette builds a colored theme from six xterm-256 color indices.
func palette(name string, accent, muted, pass, warn, fail, value int) Theme {
	c := func(n int) string { return fmt.Sprintf("\033[38;5;%dm", n) }
	return Theme{
		Name:      name,
		Accent:    c(accent),
		Muted:     c(muted),
		Pass:      c(pass),
		Warn:      c(warn),
		Fail:      c(fail),
		Value:     c(value),
		Bold:      escBold,
		Underline: escUnderline,
		Reset:     escReset,
	}
}

var (
	// DarkTheme is the default.
	DarkTheme = palette("dark", 39, 245, 82, 220, 196, 141)
	// LightTheme uses darker shades for light backgrounds.
	LightTheme = palette("light", 27, 240, 28, 130, 124, 54)
	// NoColorTheme is selected by -no-color and NO_COLOR.
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	mu      sync.RWMutex
	current = DarkTheme
)

// TUITheme holds the lipgloss colors of the verify dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
}

var (
	DarkTUITheme = TUITheme{
		Text:    lipgloss.Color("#D8DEE9"),
		Border:  lipgloss.Color("#5E81AC"),
		Accent:  lipgloss.Color("#88C0D0"),
		Success: lipgloss.Color("#A3BE8C"),
		Error:   lipgloss.Color("#BF616A"),
		Dim:     lipgloss.Color("#4C566A"),
	}

	NoColorTUITheme = TUITheme{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
	}
)

// GetCurrentTUITheme returns the colorless dashboard palette when the text
// theme is "none".
func GetCurrentTUITheme() TUITheme {
	if GetCurrentTheme().Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetCurrentTheme installs t. Tests use it to restore the theme they found.
func SetCurrentTheme(t Theme) {
	mu.Lock()
	current = t
	mu.Unlock()
}

// SetTheme selects a theme by name; unknown names select DarkTheme.
func SetTheme(name string) {
	t, ok := themes[name]
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme honors -no-color and NO_COLOR (https://no-color.org/) before
// LIMBCALC_THEME.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetTheme(os.Getenv("LIMBCALC_THEME"))
}
