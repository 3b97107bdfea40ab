package ui

import "fmt"

const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

// Success returns msg prefixed with a check mark.
func Success(msg string) string {
	return SymbolSuccess + " " + msg
}

// Successf is Success with formatting.
func Successf(format string, args ...any) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error returns msg prefixed with a cross.
func Error(msg string) string {
	return SymbolError + " " + msg
}

// Warning returns msg prefixed with a warning sign.
func Warning(msg string) string {
	return SymbolWarning + " " + msg
}

// Header returns a styled section header.
func Header(msg string) string {
	return AccentBold.Render(msg)
}

// Hint returns muted hint text.
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Count returns "1 object" or "3 objects".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
