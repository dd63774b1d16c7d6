// Package styles provides shared lipgloss styles for diagnostic output.
//
// This package centralizes color definitions so the severity prefixes on
// stderr stay visually consistent with the interactive prompt.
package styles

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Severity colors
var (
	// Info is used for informational diagnostics (gray)
	Info lipgloss.TerminalColor = lipgloss.Color("244")

	// Warning is used for recoverable problems (yellow)
	Warning lipgloss.TerminalColor = lipgloss.Color("214")

	// Error is used for fatal errors (red)
	Error lipgloss.TerminalColor = lipgloss.Color("196")

	// Success is used for the final success line (green)
	Success lipgloss.TerminalColor = lipgloss.Color("82")

	// Accent is the highlight color for entry names (pink)
	Accent lipgloss.TerminalColor = lipgloss.Color("212")
)

// Severity prefix styles
var (
	InfoStyle = lipgloss.NewStyle().Foreground(Info)

	WarningStyle = lipgloss.NewStyle().Foreground(Warning).Bold(true)

	ErrorStyle = lipgloss.NewStyle().Foreground(Error).Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)

	AccentStyle = lipgloss.NewStyle().Foreground(Accent)
)

// Colored reports whether f supports colored output. Both the terminal
// check and the environment (NO_COLOR, TERM) have to agree.
func Colored(f *os.File) bool {
	if !isatty.IsTerminal(f.Fd()) {
		return false
	}
	p := colorprofile.Detect(f, os.Environ())
	return p != colorprofile.NoTTY && p != colorprofile.Ascii
}
