package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles used for CLI messages
type Theme struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Header  lipgloss.Style
}

// DefaultTheme is the theme used unless colors are disabled
var DefaultTheme = Theme{
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
}

// PlainTheme renders text unstyled
var PlainTheme = Theme{
	Success: lipgloss.NewStyle(),
	Error:   lipgloss.NewStyle(),
	Warning: lipgloss.NewStyle(),
	Info:    lipgloss.NewStyle(),
	Header:  lipgloss.NewStyle(),
}

// CurrentTheme is the active theme
var CurrentTheme = DefaultTheme

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, CurrentTheme.Success.Render("✓ "+message))
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintln(w, CurrentTheme.Error.Render("✗ "+message))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintln(w, CurrentTheme.Warning.Render("! "+message))
}

// PrintInfo prints an informational message
func PrintInfo(w io.Writer, message string) {
	fmt.Fprintln(w, CurrentTheme.Info.Render("ℹ "+message))
}

// PrintHeader prints a section header
func PrintHeader(w io.Writer, message string) {
	fmt.Fprintln(w, CurrentTheme.Header.Render(message))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(message)))
}
