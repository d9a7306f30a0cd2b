//go:build !nogui

package gui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pdfmerge/internal/config"
	"pdfmerge/internal/dnd"
	"pdfmerge/internal/errors"
	"pdfmerge/internal/filelist"
	"pdfmerge/internal/log"
	"pdfmerge/internal/merge"
	"pdfmerge/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	files      *filelist.List
	dispatcher *merge.Dispatcher
	watcher    *watch.Watcher // nil when watching is disabled
	prompter   merge.Prompter

	list         *widget.List
	mergeButton  *widget.Button
	statusLabel  *widget.Label
	instructions *widget.Label

	// Guards missing and sources
	mu      sync.Mutex
	missing map[string]bool
	sources map[string]merge.SourceInfo
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config) *App {
	// Create app with a unique ID for preferences storage
	return newApp(app.NewWithID("io.github.pdfmerge"), cfg)
}

func newApp(fyneApp fyne.App, cfg *config.Config) *App {
	a := &App{
		fyneApp:    fyneApp,
		cfg:        cfg,
		files:      filelist.New(),
		dispatcher: merge.NewDispatcher(cfg),
		missing:    make(map[string]bool),
		sources:    make(map[string]merge.SourceInfo),
	}
	a.prompter = &savePrompter{app: a}

	if cfg.Watch.Enabled {
		w, err := watch.New()
		if err != nil {
			// The list still works without missing-file markers
			log.Warnf("Source watcher unavailable: %v", err)
		} else if err := w.Start(); err != nil {
			log.Warnf("Could not start source watcher: %v", err)
		} else {
			a.watcher = w
			go a.consumeSourceEvents()
		}
	}

	applyTheme(fyneApp, cfg.GUI.Theme)

	a.mainWindow = fyneApp.NewWindow("PDF Merge")
	a.mainWindow.Resize(fyne.NewSize(cfg.GUI.Width, cfg.GUI.Height))
	a.mainWindow.SetContent(a.buildContent())
	a.mainWindow.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		a.handleDrop(uris)
	})
	a.mainWindow.SetOnClosed(a.shutdown)

	a.files.OnChange(a.onListChanged)
	a.updateButtons()
	a.refreshStatus()

	go a.consumeResults()

	return a
}

func applyTheme(fyneApp fyne.App, name string) {
	switch name {
	case "light":
		fyneApp.Settings().SetTheme(theme.LightTheme())
	case "dark":
		fyneApp.Settings().SetTheme(theme.DarkTheme())
	}
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Files returns the queued file list
func (a *App) Files() *filelist.List {
	return a.files
}

// Run shows the main window and blocks until it is closed
func (a *App) Run() {
	a.mainWindow.ShowAndRun()
}

func (a *App) shutdown() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
}

// buildContent lays out the instructions, the file list and the button bar
func (a *App) buildContent() fyne.CanvasObject {
	a.instructions = widget.NewLabel(fmt.Sprintf(
		"Drag and drop up to %d PDF files here, or use Browse. Merge order is list order.",
		filelist.MaxFiles))
	a.instructions.Wrapping = fyne.TextWrapWord

	a.list = widget.NewList(
		func() int { return a.files.Len() },
		func() fyne.CanvasObject { return widget.NewLabel("template file name.pdf") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(a.entryLabel(id))
		},
	)
	a.list.OnSelected = func(id widget.ListItemID) {
		a.files.Select(id)
	}
	a.list.OnUnselected = func(id widget.ListItemID) {
		if sel, ok := a.files.Selected(); ok && sel == id {
			a.files.Unselect()
		}
	}

	upButton := widget.NewButton("↑", a.moveUp)
	downButton := widget.NewButton("↓", a.moveDown)
	deleteButton := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), a.removeSelected)
	a.mergeButton = widget.NewButtonWithIcon("Merge", theme.DocumentSaveIcon(), a.startMerge)
	a.mergeButton.Importance = widget.HighImportance
	browseButton := widget.NewButtonWithIcon("Browse", theme.FileIcon(), a.browse)
	folderButton := widget.NewButtonWithIcon("Add folder", theme.FolderOpenIcon(), a.addFolder)
	clearButton := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), a.files.Clear)

	buttons := container.NewHBox(
		upButton, downButton, deleteButton,
		layout.NewSpacer(),
		browseButton, folderButton, clearButton, a.mergeButton,
	)

	a.statusLabel = widget.NewLabel("")

	return container.NewBorder(
		a.instructions,
		container.NewVBox(buttons, widget.NewSeparator(), a.statusLabel),
		nil, nil,
		a.list,
	)
}

func (a *App) entryLabel(id widget.ListItemID) string {
	path, ok := a.files.At(id)
	if !ok {
		return ""
	}
	a.mu.Lock()
	missing := a.missing[path]
	a.mu.Unlock()
	return entryText(path, missing)
}

// onListChanged re-syncs every view of the list after a mutation
func (a *App) onListChanged() {
	a.list.Refresh()
	if sel, ok := a.files.Selected(); ok {
		a.list.Select(sel)
	} else {
		a.list.UnselectAll()
	}

	snapshot := a.files.Snapshot()
	if a.watcher != nil {
		if err := a.watcher.Sync(snapshot); err != nil {
			log.LogWithError(err).Warn("Could not watch all queued files")
		}
	}
	a.pruneState(snapshot)
	a.updateButtons()
	go a.inspectSources(snapshot)
}

// pruneState drops cached details for paths that left the list
func (a *App) pruneState(snapshot []string) {
	keep := make(map[string]bool, len(snapshot))
	for _, p := range snapshot {
		keep[p] = true
	}
	a.mu.Lock()
	for p := range a.sources {
		if !keep[p] {
			delete(a.sources, p)
		}
	}
	for p := range a.missing {
		if !keep[p] {
			delete(a.missing, p)
		}
	}
	a.mu.Unlock()
}

// inspectSources fills the page/size cache for paths not seen yet and
// refreshes the status bar
func (a *App) inspectSources(snapshot []string) {
	opts := a.dispatcher.Options()
	for _, p := range snapshot {
		a.mu.Lock()
		_, known := a.sources[p]
		a.mu.Unlock()
		if known {
			continue
		}
		infos, err := merge.Inspect(context.Background(), []string{p}, opts)
		if err != nil {
			log.LogWithError(err).Debug("Could not inspect queued file")
			continue
		}
		a.mu.Lock()
		a.sources[p] = infos[0]
		a.mu.Unlock()
	}
	runOnMain(a.refreshStatus)
}

func (a *App) refreshStatus() {
	snapshot := a.files.Snapshot()
	var infos []merge.SourceInfo
	missing := 0
	a.mu.Lock()
	for _, p := range snapshot {
		if info, ok := a.sources[p]; ok {
			infos = append(infos, info)
		}
		if a.missing[p] {
			missing++
		}
	}
	a.mu.Unlock()
	a.statusLabel.SetText(statusText(len(snapshot), infos, missing))
}

// updateButtons disables Merge while a merge is running. An empty list keeps
// it enabled so pressing it explains what is missing.
func (a *App) updateButtons() {
	if a.dispatcher.Busy() {
		a.mergeButton.Disable()
	} else {
		a.mergeButton.Enable()
	}
}

func (a *App) moveUp() {
	a.files.MoveUp()
}

func (a *App) moveDown() {
	a.files.MoveDown()
}

func (a *App) removeSelected() {
	a.files.RemoveSelected()
}

// addPaths queues paths and reports a full list or unusable input
func (a *App) addPaths(paths []string) int {
	added, err := a.files.AddAll(paths)
	if err != nil {
		a.notify(err)
	}
	log.LogWithFields(log.F("added", added), log.F("offered", len(paths))).Debug("Queued files")
	return added
}

func (a *App) handleDrop(uris []fyne.URI) {
	local := dnd.FromURIs(uris)
	pdfs := dnd.FilterPDF(local)
	if len(pdfs) == 0 {
		if len(local) > 0 {
			a.notify(errors.ErrNotPDF)
		}
		return
	}
	a.addPaths(pdfs)
}

// browse opens a file picker filtered to PDFs
func (a *App) browse() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.addPaths([]string{path})
	}, a.mainWindow)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf", ".PDF"}))
	if loc := a.startLocation(); loc != nil {
		d.SetLocation(loc)
	}
	d.Show()
}

// addFolder queues every PDF in a chosen directory
func (a *App) addFolder() {
	d := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if dir == nil {
			return
		}
		paths, err := filelist.PDFsInDir(dir.Path())
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if len(paths) == 0 {
			dialog.ShowInformation("No PDF files",
				fmt.Sprintf("%s contains no PDF files.", filepath.Base(dir.Path())), a.mainWindow)
			return
		}
		a.addPaths(paths)
	}, a.mainWindow)
	if loc := a.startLocation(); loc != nil {
		d.SetLocation(loc)
	}
	d.Show()
}

// outputDir is where the destination form starts: the configured
// directory, else the folder of the first queued file, else home
func (a *App) outputDir() string {
	if a.cfg.Output.Directory != "" {
		return a.cfg.Output.Directory
	}
	if first, ok := a.files.At(0); ok {
		return filepath.Dir(first)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func (a *App) startLocation() fyne.ListableURI {
	if a.cfg.Output.Directory == "" {
		return nil
	}
	loc, err := storage.ListerForURI(storage.NewFileURI(a.cfg.Output.Directory))
	if err != nil {
		log.Debugf("Ignoring start directory %s: %v", a.cfg.Output.Directory, err)
		return nil
	}
	return loc
}

// startMerge hands the current list to the dispatcher. The button stays
// disabled until the result arrives.
func (a *App) startMerge() {
	a.mergeButton.Disable()
	if err := a.dispatcher.Merge(a.files.Snapshot(), a.prompter); err != nil {
		if !errors.IsMergeInProgress(err) {
			a.updateButtons()
		}
		a.notify(err)
	}
}

// runOnMain is the one place background goroutines touch widgets. fyne 2.5
// widgets are safe to update from any goroutine, so fn runs directly; a
// fyne release with fyne.Do needs the marshal added here only.
func runOnMain(fn func()) {
	fn()
}

// consumeResults applies merge outcomes to the window. The merge worker
// itself only sends results.
func (a *App) consumeResults() {
	for res := range a.dispatcher.Results() {
		runOnMain(func() { a.showResult(res) })
	}
}

func (a *App) showResult(res merge.Result) {
	a.updateButtons()
	switch res.Outcome {
	case merge.Succeeded:
		dialog.ShowInformation("Merge complete", successText(res), a.mainWindow)
	case merge.Failed:
		dialog.ShowError(res.Err, a.mainWindow)
	case merge.Cancelled:
		log.LogWithFields(log.F("job", res.ID)).Debug("Merge cancelled")
	}
}

func (a *App) consumeSourceEvents() {
	for ev := range a.watcher.Events() {
		a.mu.Lock()
		a.missing[ev.Path] = ev.Gone
		if !ev.Gone {
			delete(a.sources, ev.Path)
		}
		a.mu.Unlock()
		log.LogWithFields(log.F("file", ev.Path), log.F("gone", ev.Gone)).Info("Queued file changed on disk")
		runOnMain(a.list.Refresh)
		if ev.Gone {
			runOnMain(a.refreshStatus)
		} else {
			go a.inspectSources(a.files.Snapshot())
		}
	}
}

// notify shows warnings as information dialogs and everything else as errors
func (a *App) notify(err error) {
	if errors.IsWarning(err) {
		dialog.ShowInformation("Warning", warningText(err), a.mainWindow)
		return
	}
	dialog.ShowError(err, a.mainWindow)
}
