package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the core UI styles
var Theme = struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Detail     lipgloss.Style
	Help       lipgloss.Style
	Prompt     lipgloss.Style
	Info       lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
}{
	App: lipgloss.NewStyle().
		Padding(1, 2),
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7B61FF")).
		MarginBottom(1),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")).
		Bold(true),
	Unselected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CCCCCC")),
	Detail: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9")),
	Prompt: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#81A1C1")).
		Bold(true),
	Info: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#959595")),
	Warning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EBCB8B")),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5F5F")),
	Success: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")),
}

// QueueStyle frames the list of queued files
var QueueStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#7B61FF"))
