package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"pdfmerge/internal/config"
	"pdfmerge/internal/dnd"
	"pdfmerge/internal/errors"
	"pdfmerge/internal/filelist"
	"pdfmerge/internal/log"
	"pdfmerge/internal/merge"
	"pdfmerge/internal/tui/common"
	"pdfmerge/internal/tui/components"
	"pdfmerge/internal/tui/messages"
	"pdfmerge/internal/tui/views"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type Model struct {
	cfg        *config.Config
	files      *filelist.List
	dispatcher *merge.Dispatcher
	sources    map[string]merge.SourceInfo

	// Core state
	mode     common.Mode
	cursor   int
	showHelp bool

	// Input state for AddPath and Output modes
	input textinput.Model
	// Destination callback handed over by the dispatcher while the output
	// prompt is open
	pending func(string)

	status *components.StatusBar
	keys   keyMap
	help   help.Model
}

// New creates a model with paths already queued
func New(cfg *config.Config, paths ...string) *Model {
	input := textinput.New()
	input.CharLimit = 4096
	input.Width = 60

	m := &Model{
		cfg:        cfg,
		files:      filelist.New(),
		dispatcher: merge.NewDispatcher(cfg),
		sources:    make(map[string]merge.SourceInfo),
		mode:       common.Normal,
		input:      input,
		status:     components.NewStatusBar(),
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
	if len(paths) > 0 {
		m.addPaths(paths)
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForResult(), m.inspect())
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.input.Width = max(20, msg.Width-12)
		return m, nil

	case messages.MergeResultMsg:
		m.applyResult(msg.Result)
		return m, m.waitForResult()

	case messages.InspectedMsg:
		for _, info := range msg.Infos {
			m.sources[info.Path] = info
		}
		return m, nil

	case messages.ErrorMsg:
		m.status.Set(components.Error, msg.Err.Error())
		return m, nil

	case spinner.TickMsg:
		return m, m.status.Update(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.cancelPrompt()
		return m, tea.Quit
	}

	switch m.mode {
	case common.AddPath:
		return m.handleAddPathKeys(msg)
	case common.Output:
		return m.handleOutputKeys(msg)
	default:
		if msg.Paste {
			return m, m.handlePaste(string(msg.Runes))
		}
		return m.handleNormalKeys(msg)
	}
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.files.Len()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.MoveUp):
		m.files.Select(m.cursor)
		if m.files.MoveUp() {
			m.cursor, _ = m.files.Selected()
		}

	case key.Matches(msg, m.keys.MoveDown):
		m.files.Select(m.cursor)
		if m.files.MoveDown() {
			m.cursor, _ = m.files.Selected()
		}

	case key.Matches(msg, m.keys.Delete):
		if m.files.RemoveAt(m.cursor) {
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Clear):
		m.files.Clear()
		m.cursor = 0

	case key.Matches(msg, m.keys.Add):
		m.openInput(common.AddPath, "Add: ", "path, folder or glob", "")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Merge):
		return m, m.startMerge()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) handleAddPathKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		m.closeInput()
		return m, m.addInput(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleOutputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		m.resolvePrompt("")
		return m, nil
	case tea.KeyEnter:
		dest := strings.TrimSpace(m.input.Value())
		m.closeInput()
		m.resolvePrompt(dest)
		if dest == "" {
			return m, nil
		}
		m.status.Set(components.Info, fmt.Sprintf("Merging %d files into %s", m.files.Len(), merge.WithPDFExt(dest)))
		return m, m.status.SetLoading(true)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) openInput(mode common.Mode, prompt, placeholder, value string) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = common.Normal
	m.input.Blur()
	m.input.Reset()
}

// resolvePrompt answers the dispatcher's destination request once
func (m *Model) resolvePrompt(dest string) {
	if m.pending == nil {
		return
	}
	done := m.pending
	m.pending = nil
	done(dest)
}

func (m *Model) cancelPrompt() {
	if m.mode == common.Output {
		m.closeInput()
	}
	m.resolvePrompt("")
}

// ChooseDestination opens the output prompt. It runs inside Update, called
// synchronously by the dispatcher, and hands done to the Enter/Esc handlers.
func (m *Model) ChooseDestination(suggested string, done func(path string)) {
	if m.cfg.Output.Directory != "" {
		suggested = filepath.Join(m.cfg.Output.Directory, suggested)
	}
	m.pending = done
	m.openInput(common.Output, "Save as: ", "output file", suggested)
}

func (m *Model) startMerge() tea.Cmd {
	if err := m.dispatcher.Merge(m.files.Snapshot(), m); err != nil {
		m.report(err)
		return nil
	}
	return textinput.Blink
}

func (m *Model) applyResult(res merge.Result) {
	m.status.SetLoading(false)
	switch res.Outcome {
	case merge.Succeeded:
		m.status.Set(components.Success, fmt.Sprintf("Merged PDF saved to %s (%d pages)", res.Destination, res.Pages))
	case merge.Failed:
		m.status.Set(components.Error, res.Err.Error())
	case merge.Cancelled:
		m.status.Set(components.Info, "")
	}
}

func (m *Model) handlePaste(data string) tea.Cmd {
	paths := dnd.SplitPDF(data)
	if len(paths) == 0 {
		m.report(errors.ErrNotPDF)
		return nil
	}
	return m.addPaths(paths)
}

// addInput queues typed input, which may name several quoted paths, folders
// or globs
func (m *Model) addInput(value string) tea.Cmd {
	args := dnd.Split(value)
	if len(args) == 0 {
		return nil
	}
	paths, err := filelist.Expand(args)
	if err != nil {
		m.report(err)
		return nil
	}
	if len(paths) == 0 {
		m.status.Set(components.Warning, "No PDF files matched.")
		return nil
	}
	return m.addPaths(paths)
}

func (m *Model) addPaths(paths []string) tea.Cmd {
	added, err := m.files.AddAll(paths)
	if err != nil {
		m.report(err)
	} else {
		m.status.Set(components.Info, fmt.Sprintf("Added %d of %d files", added, len(paths)))
	}
	log.LogWithFields(log.F("added", added), log.F("offered", len(paths))).Debug("Queued files")
	return m.inspect()
}

// report shows warning-class errors as warnings and everything else as errors
func (m *Model) report(err error) {
	if errors.IsWarning(err) {
		m.status.Set(components.Warning, warningText(err))
		return
	}
	m.status.Set(components.Error, err.Error())
}

func warningText(err error) string {
	switch errors.KindOf(err) {
	case errors.CapacityExceeded:
		return fmt.Sprintf("List is full: at most %d files can be merged.", filelist.MaxFiles)
	case errors.EmptyFileList:
		return "Nothing to merge: add at least one PDF file."
	case errors.MergeInProgress:
		return "A merge is already running."
	case errors.NotPDF:
		return "Only PDF files can be added."
	}
	return err.Error()
}

func (m *Model) clampCursor() {
	if n := m.files.Len(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *Model) waitForResult() tea.Cmd {
	results := m.dispatcher.Results()
	return func() tea.Msg {
		return messages.MergeResultMsg{Result: <-results}
	}
}

// inspect counts pages of queued files not inspected yet
func (m *Model) inspect() tea.Cmd {
	var pending []string
	for _, p := range m.files.Snapshot() {
		if _, ok := m.sources[p]; !ok {
			pending = append(pending, p)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	opts := m.dispatcher.Options()
	return func() tea.Msg {
		var infos []merge.SourceInfo
		for _, p := range pending {
			found, err := merge.Inspect(context.Background(), []string{p}, opts)
			if err != nil {
				log.LogWithError(err).Debug("Could not inspect queued file")
				continue
			}
			infos = append(infos, found...)
		}
		return messages.InspectedMsg{Infos: infos}
	}
}

// Files returns the queued file list
func (m *Model) Files() *filelist.List {
	return m.files
}

// Entries implements common.ModelReader
func (m *Model) Entries() []common.Entry {
	paths := m.files.Snapshot()
	entries := make([]common.Entry, len(paths))
	for i, p := range paths {
		info := m.sources[p]
		entries[i] = common.Entry{
			Name:  filepath.Base(p),
			Path:  p,
			Pages: info.Pages,
			Size:  info.Size,
		}
	}
	return entries
}

func (m *Model) Cursor() int {
	return m.cursor
}

func (m *Model) Mode() common.Mode {
	return m.mode
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) InputView() string {
	return m.input.View()
}

func (m *Model) StatusView() string {
	return m.status.View()
}

func (m *Model) HelpView() string {
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

// Run starts the terminal UI and blocks until it exits
func Run(cfg *config.Config, paths ...string) error {
	p := tea.NewProgram(New(cfg, paths...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
