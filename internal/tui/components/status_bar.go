package components

import (
	"pdfmerge/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Level selects how a status message is rendered
type Level int

const (
	Info Level = iota
	Warning
	Error
	Success
)

type StatusBar struct {
	text    string
	level   Level
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Help

	return &StatusBar{spinner: s}
}

// SetLoading starts or stops the spinner. The returned command drives the
// animation and is nil when stopping.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	s.loading = loading
	if loading {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) Set(level Level, text string) {
	s.level = level
	s.text = text
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Level() Level {
	return s.level
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) style() lipgloss.Style {
	switch s.level {
	case Warning:
		return styles.Theme.Warning
	case Error:
		return styles.Theme.Error
	case Success:
		return styles.Theme.Success
	}
	return styles.Theme.Info
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	if s.loading {
		return s.style().Render(s.spinner.View() + " " + s.text)
	}
	return s.style().Render(s.text)
}
