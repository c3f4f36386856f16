package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// role names what a piece of output is, not how it looks.
type role int

const (
	roleToday role = iota
	roleEvent
	roleHeader
	roleStats
	roleMuted
)

var palette = map[role]*color.Color{
	roleToday:  color.New(color.FgCyan, color.Bold),
	roleEvent:  color.New(color.FgYellow),
	roleHeader: color.New(color.Bold),
	roleStats:  color.New(color.FgGreen),
	roleMuted:  color.New(color.FgWhite, color.Faint),
}

// paint styles s for r. Output is plain when color is disabled.
func paint(r role, s string) string {
	return palette[r].Sprint(s)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// termWidth returns the terminal width, or 80 when stdout is not a terminal.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}
