// text.go: Semantic text formatting for pfz command output.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

// Package ui formats status lines for the pfz command. Color is dropped when
// NO_COLOR is set or the output is not a terminal, leaving plain decorations.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...any) string {
	text := fmt.Sprint(a...)
	if NoColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.Sprint(fmt.Sprintf(format, a...))
}

// NoColor reports whether color output is disabled.
func NoColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Path formats file paths.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Success formats success indicators.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Error formats error indicators.
	Error = Formatter{color.New(color.FgRed), "", ""}

	// Warning formats warnings, such as a failed CRC check.
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Label formats field names in inspect output.
	Label = Formatter{color.New(color.FgCyan), "", ""}

	// Highlight formats user values like entry names.
	// Cyan with color, 'single quotes' without.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}
)
