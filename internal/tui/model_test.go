package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pdfmerge/internal/config"
	"pdfmerge/internal/filelist"
	"pdfmerge/internal/merge"
	"pdfmerge/internal/tui/common"
	"pdfmerge/internal/tui/components"
	"pdfmerge/internal/tui/messages"
	"pdfmerge/pkg/testutils"

	alsrt "github.com/alecthomas/assert"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *Model, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var model tea.Model
		model, cmd = m.Update(msg)
		require.Same(t, m, model)
	}
	return cmd
}

// awaitResult blocks on the dispatcher like the program loop does and feeds
// the result back into the model
func awaitResult(t *testing.T, m *Model) merge.Result {
	t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- m.waitForResult()() }()

	select {
	case msg := <-done:
		res, ok := msg.(messages.MergeResultMsg)
		require.True(t, ok, "expected a merge result, got %T", msg)
		press(t, m, msg)
		return res.Result
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for merge result")
	}
	return merge.Result{}
}

func queue(t *testing.T, names ...string) (*Model, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, n := range names {
		paths = append(paths, filepath.Join(dir, n))
	}
	return New(config.NewTestConfig(), paths...), paths
}

func TestModelInitialization(t *testing.T) {
	m := New(config.NewTestConfig())
	assert.NotNil(t, m)
	assert.Equal(t, common.Normal, m.Mode())
	assert.Equal(t, 0, m.Cursor())
	assert.Empty(t, m.Entries())
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "No files queued")
}

func TestNavigationAndReorder(t *testing.T) {
	m, paths := queue(t, "a.pdf", "b.pdf", "c.pdf")
	require.Equal(t, 3, m.Files().Len())

	t.Run("cursor_bounds", func(t *testing.T) {
		press(t, m, runes("k"))
		alsrt.Equal(t, 0, m.Cursor())
		press(t, m, runes("j"), runes("j"), runes("j"))
		alsrt.Equal(t, 2, m.Cursor())
	})

	t.Run("move_up_follows_entry", func(t *testing.T) {
		press(t, m, runes("K"))
		alsrt.Equal(t, []string{paths[0], paths[2], paths[1]}, m.Files().Snapshot())
		alsrt.Equal(t, 1, m.Cursor())

		press(t, m, runes("K"), runes("K"))
		alsrt.Equal(t, []string{paths[2], paths[0], paths[1]}, m.Files().Snapshot())
		alsrt.Equal(t, 0, m.Cursor())
	})

	t.Run("move_down_follows_entry", func(t *testing.T) {
		press(t, m, runes("J"))
		alsrt.Equal(t, []string{paths[0], paths[2], paths[1]}, m.Files().Snapshot())
		alsrt.Equal(t, 1, m.Cursor())
	})

	t.Run("delete_clamps_cursor", func(t *testing.T) {
		press(t, m, runes("j"), runes("d"))
		alsrt.Equal(t, []string{paths[0], paths[2]}, m.Files().Snapshot())
		alsrt.Equal(t, 1, m.Cursor())

		press(t, m, runes("d"), runes("d"))
		alsrt.Equal(t, 0, m.Files().Len())
		alsrt.Equal(t, 0, m.Cursor())

		// Empty list must not panic
		press(t, m, runes("d"), runes("K"), runes("J"), runes("j"))
		alsrt.Equal(t, 0, m.Cursor())
	})
}

func TestPasteAddsPDFs(t *testing.T) {
	dir := t.TempDir()
	m := New(config.NewTestConfig())

	a := filepath.Join(dir, "a b.pdf")
	b := filepath.Join(dir, "c.PDF")
	payload := fmt.Sprintf("'%s' %s %s", a, b, filepath.Join(dir, "notes.txt"))

	press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(payload), Paste: true})
	assert.Equal(t, []string{a, b}, m.Files().Snapshot())
	assert.Equal(t, components.Info, m.status.Level())

	press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/tmp/readme.md"), Paste: true})
	assert.Equal(t, 2, m.Files().Len())
	assert.Equal(t, components.Warning, m.status.Level())
	assert.Equal(t, "Only PDF files can be added.", m.status.Text())
}

func TestCapacityWarning(t *testing.T) {
	var names []string
	for i := 0; i < filelist.MaxFiles+1; i++ {
		names = append(names, fmt.Sprintf("%02d.pdf", i))
	}
	m, _ := queue(t, names...)

	assert.Equal(t, filelist.MaxFiles, m.Files().Len())
	assert.Equal(t, components.Warning, m.status.Level())
	assert.Contains(t, m.status.Text(), "at most 15 files")
}

func TestAddPathPrompt(t *testing.T) {
	dir := t.TempDir()
	testutils.WritePDF(t, dir, "one.pdf", 200)
	testutils.WritePDF(t, dir, "two.pdf", 200, 200)
	m := New(config.NewTestConfig())

	press(t, m, runes("a"))
	require.Equal(t, common.AddPath, m.Mode())
	assert.Contains(t, m.View(), "Add: ")

	m.input.SetValue(dir)
	cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, common.Normal, m.Mode())
	assert.Equal(t, []string{filepath.Join(dir, "one.pdf"), filepath.Join(dir, "two.pdf")}, m.Files().Snapshot())

	// The returned command inspects the new files
	require.NotNil(t, cmd)
	press(t, m, cmd())
	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[1].Pages)
	assert.Contains(t, m.View(), "(2 pages,")

	press(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, common.Normal, m.Mode())
	assert.Equal(t, 2, m.Files().Len())
}

func TestMergeEmptyList(t *testing.T) {
	m := New(config.NewTestConfig())
	press(t, m, runes("m"))

	assert.Equal(t, common.Normal, m.Mode(), "No prompt for an empty list")
	assert.Equal(t, components.Warning, m.status.Level())
	assert.False(t, m.dispatcher.Busy())
}

func TestMergeFlow(t *testing.T) {
	dir := t.TempDir()
	first := testutils.WritePDF(t, dir, "first.pdf", 200, 200)
	second := testutils.WritePDF(t, dir, "second.pdf", 300)
	m := New(config.NewTestConfig(), first, second)

	press(t, m, runes("m"))
	require.Equal(t, common.Output, m.Mode())
	assert.Equal(t, "merged.pdf", m.input.Value())
	assert.True(t, m.dispatcher.Busy(), "Prompt counts as a running merge")

	out := filepath.Join(dir, "combined")
	m.input.SetValue(out)
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, common.Normal, m.Mode())
	assert.True(t, m.status.Loading())

	res := awaitResult(t, m)
	require.NoError(t, res.Err)
	assert.Equal(t, merge.Succeeded, res.Outcome)
	assert.Equal(t, out+".pdf", res.Destination)
	assert.Equal(t, 3, res.Pages)
	assert.FileExists(t, out+".pdf")

	assert.False(t, m.status.Loading())
	assert.Equal(t, components.Success, m.status.Level())
	assert.True(t, strings.HasPrefix(m.status.Text(), "Merged PDF saved to "+out+".pdf"))
}

func TestMergeCancelled(t *testing.T) {
	dir := t.TempDir()
	m := New(config.NewTestConfig(), testutils.WritePDF(t, dir, "a.pdf", 200))

	press(t, m, runes("m"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, common.Normal, m.Mode())

	res := awaitResult(t, m)
	assert.Equal(t, merge.Cancelled, res.Outcome)
	assert.False(t, m.dispatcher.Busy())
	assert.Equal(t, []string{"a.pdf"}, testutils.ListDir(t, dir))
}

func TestMergeFailure(t *testing.T) {
	dir := t.TempDir()
	m := New(config.NewTestConfig(), filepath.Join(dir, "missing.pdf"))

	press(t, m, runes("m"))
	m.input.SetValue(filepath.Join(dir, "out.pdf"))
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	res := awaitResult(t, m)
	assert.Equal(t, merge.Failed, res.Outcome)
	assert.Equal(t, components.Error, m.status.Level())
	assert.Contains(t, m.status.Text(), "missing.pdf")
	assert.NoFileExists(t, filepath.Join(dir, "out.pdf"))
}

func TestQuit(t *testing.T) {
	m := New(config.NewTestConfig())
	cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestHelpToggle(t *testing.T) {
	m := New(config.NewTestConfig())
	short := m.HelpView()
	press(t, m, runes("?"))
	assert.True(t, m.ShowHelp())
	assert.NotEqual(t, short, m.HelpView())
	assert.Contains(t, m.HelpView(), "clear")
}
