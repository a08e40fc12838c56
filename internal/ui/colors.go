package ui

// The Color* functions return the escape code of a role in the current
// theme, or "" under NoColorTheme. Their names follow the default palette.

func ColorReset() string     { return GetCurrentTheme().Reset }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }
func ColorRed() string       { return GetCurrentTheme().Fail }
func ColorGreen() string     { return GetCurrentTheme().Pass }
func ColorYellow() string    { return GetCurrentTheme().Warn }
func ColorBlue() string      { return GetCurrentTheme().Accent }
func ColorMagenta() string   { return GetCurrentTheme().Value }
func ColorCyan() string      { return GetCurrentTheme().Muted }

// Paint wraps s in the escape code c and a reset. It returns s unchanged
// when c is empty.
func Paint(c, s string) string {
	if c == "" {
		return s
	}
	return c + s + ColorReset()
}
