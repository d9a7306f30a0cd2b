//go:build !nogui

package gui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pdfmerge/internal/config"
	"pdfmerge/internal/filelist"
	"pdfmerge/internal/merge"
	"pdfmerge/pkg/testutils"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a := newApp(test.NewTempApp(t), config.NewTestConfig())
	t.Cleanup(a.shutdown)
	return a
}

func uris(paths ...string) []fyne.URI {
	out := make([]fyne.URI, len(paths))
	for i, p := range paths {
		out[i] = storage.NewFileURI(p)
	}
	return out
}

func hasOverlay(a *App) bool {
	return a.mainWindow.Canvas().Overlays().Top() != nil
}

func TestNewApp(t *testing.T) {
	a := newTestApp(t)

	require.NotNil(t, a.GetMainWindow(), "Main window should be created")
	assert.Equal(t, "PDF Merge", a.GetMainWindow().Title())

	_, ok := a.GetMainWindow().Content().(*fyne.Container)
	assert.True(t, ok, "Window content should be a container")

	assert.False(t, a.mergeButton.Disabled(), "Merge stays enabled so an empty list can be explained")
	assert.Equal(t, "No files queued (up to 15)", a.statusLabel.Text)
	assert.Contains(t, a.instructions.Text, "15 PDF files")
	assert.Nil(t, a.watcher, "Test config disables the source watcher")
}

func TestDropAddsPDFs(t *testing.T) {
	dir := t.TempDir()
	pdf := testutils.WritePDF(t, dir, "a.pdf", 200, 200)
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))

	a := newTestApp(t)
	a.handleDrop(uris(pdf, txt))

	assert.Equal(t, []string{pdf}, a.files.Snapshot())
	assert.False(t, a.mergeButton.Disabled())
	assert.Equal(t, 1, a.list.Length())
	assert.Equal(t, "a.pdf", a.entryLabel(0))
	assert.False(t, hasOverlay(a), "Mixed drops skip non-PDFs silently")

	assert.Eventually(t, func() bool {
		return strings.HasPrefix(a.statusLabel.Text, "1 of 15 files · 2 pages")
	}, 5*time.Second, 20*time.Millisecond)

	// Dropping the same file again changes nothing
	a.handleDrop(uris(pdf))
	assert.Equal(t, 1, a.files.Len())
}

func TestDropOnlyNonPDFWarns(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))

	a := newTestApp(t)
	a.handleDrop(uris(txt))

	assert.Equal(t, 0, a.files.Len())
	assert.True(t, hasOverlay(a), "Expected a warning dialog")
}

func TestCapacityWarning(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < filelist.MaxFiles+1; i++ {
		paths = append(paths, filepath.Join(dir, fmt.Sprintf("%02d.pdf", i)))
	}

	a := newTestApp(t)
	assert.Equal(t, filelist.MaxFiles, a.addPaths(paths[:filelist.MaxFiles]))
	assert.False(t, hasOverlay(a))

	a.handleDrop(uris(paths[filelist.MaxFiles]))
	assert.Equal(t, filelist.MaxFiles, a.files.Len(), "Full list is unchanged")
	assert.True(t, hasOverlay(a), "Expected a capacity warning")
}

func TestReorderFollowsSelection(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.pdf"),
	}
	a := newTestApp(t)
	a.addPaths(paths)

	a.list.Select(2)
	sel, ok := a.files.Selected()
	require.True(t, ok)
	assert.Equal(t, 2, sel)

	a.moveUp()
	assert.Equal(t, []string{paths[0], paths[2], paths[1]}, a.files.Snapshot())
	sel, _ = a.files.Selected()
	assert.Equal(t, 1, sel, "Moved entry stays selected")

	a.moveUp()
	a.moveUp()
	assert.Equal(t, []string{paths[2], paths[0], paths[1]}, a.files.Snapshot(), "Top entry does not move further")

	a.moveDown()
	assert.Equal(t, []string{paths[0], paths[2], paths[1]}, a.files.Snapshot())

	a.removeSelected()
	assert.Equal(t, []string{paths[0], paths[1]}, a.files.Snapshot())
	_, ok = a.files.Selected()
	assert.False(t, ok, "Delete clears the selection")

	a.moveUp()
	assert.Equal(t, []string{paths[0], paths[1]}, a.files.Snapshot(), "No selection means no move")
}

func idle(a *App) func() bool {
	return func() bool {
		return !a.dispatcher.Busy() && !a.mergeButton.Disabled()
	}
}

func TestMergeEmptyWarns(t *testing.T) {
	a := newTestApp(t)
	test.Tap(a.mergeButton)

	assert.True(t, hasOverlay(a), "Expected an empty-list warning")
	assert.False(t, a.mergeButton.Disabled())
	assert.False(t, a.dispatcher.Busy())
}

func TestMergeDisabledWhilePromptOpen(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t)
	var pending func(string)
	a.prompter = merge.PrompterFunc(func(_ string, done func(string)) { pending = done })
	a.addPaths([]string{testutils.WritePDF(t, dir, "a.pdf", 200)})

	test.Tap(a.mergeButton)
	require.NotNil(t, pending)
	assert.True(t, a.dispatcher.Busy())
	assert.True(t, a.mergeButton.Disabled())

	pending("")
	require.Eventually(t, idle(a), 5*time.Second, 20*time.Millisecond)
}

func TestMergeSuccess(t *testing.T) {
	dir := t.TempDir()
	first := testutils.WritePDF(t, dir, "first.pdf", 200)
	second := testutils.WritePDF(t, dir, "second.pdf", 300, 300)
	out := filepath.Join(dir, "merged")

	a := newTestApp(t)
	a.prompter = merge.StaticPrompter(out)
	a.addPaths([]string{first, second})

	a.startMerge()

	require.Eventually(t, func() bool { return hasOverlay(a) }, 10*time.Second, 20*time.Millisecond, "Expected a success dialog")
	assert.True(t, idle(a)(), "Merge is re-enabled after the result")
	require.FileExists(t, out+".pdf")
	pages, err := merge.PageCount(out+".pdf", merge.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func TestMergeCancelled(t *testing.T) {
	dir := t.TempDir()
	pdf := testutils.WritePDF(t, dir, "a.pdf", 200)

	a := newTestApp(t)
	var suggested string
	a.prompter = merge.PrompterFunc(func(s string, done func(string)) {
		suggested = s
		done("")
	})
	a.addPaths([]string{pdf})

	a.startMerge()

	require.Eventually(t, idle(a), 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "merged.pdf", suggested)
	assert.False(t, hasOverlay(a), "Cancelling is silent")
	assert.Equal(t, []string{"a.pdf"}, testutils.ListDir(t, dir))
}

func TestMergeFailureShowsError(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("not a pdf"), 0644))

	a := newTestApp(t)
	a.prompter = merge.StaticPrompter(filepath.Join(dir, "out.pdf"))
	a.addPaths([]string{bad})

	a.startMerge()

	require.Eventually(t, func() bool { return hasOverlay(a) }, 10*time.Second, 20*time.Millisecond, "Expected an error dialog")
	assert.True(t, idle(a)())
	assert.NoFileExists(t, filepath.Join(dir, "out.pdf"))
}

func TestSavePrompterOpensForm(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t)
	a.addPaths([]string{testutils.WritePDF(t, dir, "a.pdf", 200)})

	test.Tap(a.mergeButton)
	assert.True(t, hasOverlay(a), "Expected the destination form")
	assert.True(t, a.dispatcher.Busy())
	assert.Equal(t, []string{"a.pdf"}, testutils.ListDir(t, dir), "Opening the form writes nothing")
}

func TestDestinationForm(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t)

	t.Run("joins folder and name", func(t *testing.T) {
		var got []string
		f := newDestinationForm(a, dir, "merged.pdf", func(p string) { got = append(got, p) })
		f.confirm(true)
		f.confirm(true)
		assert.Equal(t, []string{filepath.Join(dir, "merged.pdf")}, got, "Answers exactly once")
	})

	t.Run("absolute name wins", func(t *testing.T) {
		var got string
		other := filepath.Join(t.TempDir(), "x.pdf")
		f := newDestinationForm(a, dir, other, func(p string) { got = p })
		f.confirm(true)
		assert.Equal(t, other, got)
	})

	t.Run("cancel and empty name", func(t *testing.T) {
		got := "unset"
		f := newDestinationForm(a, dir, "merged.pdf", func(p string) { got = p })
		f.confirm(false)
		assert.Equal(t, "", got)

		got = "unset"
		f = newDestinationForm(a, dir, "  ", func(p string) { got = p })
		assert.Error(t, f.name.Validate())
		f.confirm(true)
		assert.Equal(t, "", got)
	})
}

func TestDestinationFormKeepsQueuedSource(t *testing.T) {
	dir := t.TempDir()
	first := testutils.WritePDF(t, dir, "first.pdf", 200)
	second := testutils.WritePDF(t, dir, "second.pdf", 300, 300)
	original, err := os.ReadFile(first)
	require.NoError(t, err)

	a := newTestApp(t)
	a.addPaths([]string{first, second})
	assert.Equal(t, dir, a.outputDir(), "Form starts next to the first queued file")

	var got string
	f := newDestinationForm(a, a.outputDir(), "first.pdf", func(p string) { got = p })
	f.confirm(true)

	assert.Empty(t, got, "Existing files need confirmation")
	assert.True(t, hasOverlay(a), "Expected a replace confirmation")
	content, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, original, content, "Choosing a queued source leaves it intact")

	f.replace(first, false)
	assert.Empty(t, got)

	f = newDestinationForm(a, a.outputDir(), "first.pdf", func(p string) { got = p })
	f.confirm(true)
	f.replace(first, true)
	require.Equal(t, first, got)

	res := a.dispatcher.Execute(context.Background(), merge.Request{Files: a.files.Snapshot(), Destination: got})
	require.NoError(t, res.Err)
	assert.Equal(t, merge.Succeeded, res.Outcome)
	pages, err := merge.PageCount(first, merge.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, pages, "Sources are read before the output replaces them")
}
