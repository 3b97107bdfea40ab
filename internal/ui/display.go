package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is the fallback terminal width when detection fails.
const DefaultTermWidth = 120

// DisplayContext holds the output width and whether output is a terminal.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext detects the dimensions of f, usually os.Stdout.
func NewDisplayContext(f *os.File) *DisplayContext {
	fd := f.Fd()
	isTTY := term.IsTerminal(fd)

	width := DefaultTermWidth
	if isTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}
	return &DisplayContext{TermWidth: width, IsTTY: isTTY}
}

// Color reports whether output may carry ANSI styling: a terminal, and
// NO_COLOR unset.
func (d *DisplayContext) Color() bool {
	return d.IsTTY && os.Getenv("NO_COLOR") == ""
}

// NewDisplayContextWithWidth creates a DisplayContext with a fixed width (for testing).
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width, IsTTY: true}
}
