// Package colors wraps fatih/color for the thinmacho CLI.
//
// Colors are disabled automatically when stdout is not a terminal. Init
// overrides that from the --color flag.
package colors

import "github.com/fatih/color"

// Init overrides the auto-detected color setting. A nil forceColor keeps it.
func Init(forceColor *bool) {
	if forceColor != nil {
		color.NoColor = !*forceColor
	}
}

// Enabled returns true if colors are currently enabled.
func Enabled() bool {
	return !color.NoColor
}

func Bold() *color.Color         { return color.New(color.Bold) }
func Faint() *color.Color        { return color.New(color.Faint) }
func FaintCyan() *color.Color    { return color.New(color.Faint, color.FgCyan) }
func FaintMagenta() *color.Color { return color.New(color.Faint, color.FgMagenta) }
func BoldGreen() *color.Color    { return color.New(color.Bold, color.FgGreen) }
func BoldHiBlue() *color.Color   { return color.New(color.Bold, color.FgHiBlue) }
