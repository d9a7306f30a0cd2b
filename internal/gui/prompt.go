//go:build !nogui

package gui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pdfmerge/internal/errors"
	"pdfmerge/internal/log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// savePrompter asks for the merge destination. It only collects a path:
// nothing is created or truncated until the merge renames its finished
// output into place, so choosing one of the queued sources is safe.
type savePrompter struct {
	app *App
}

func (p *savePrompter) ChooseDestination(suggested string, done func(path string)) {
	newDestinationForm(p.app, p.app.outputDir(), suggested, done).Show()
}

// destinationForm is the "Save merged PDF" dialog: a file name entry and a
// folder picker
type destinationForm struct {
	app    *App
	dir    string
	name   *widget.Entry
	folder *widget.Label
	dialog *dialog.FormDialog

	once sync.Once
	done func(path string)
}

func newDestinationForm(a *App, dir, suggested string, done func(path string)) *destinationForm {
	f := &destinationForm{app: a, done: done}

	f.name = widget.NewEntry()
	f.name.SetText(suggested)
	f.name.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("enter a file name")
		}
		return nil
	}

	f.folder = widget.NewLabel("")
	f.folder.Truncation = fyne.TextTruncateEllipsis
	f.setDir(dir)

	choose := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), f.chooseFolder)

	items := []*widget.FormItem{
		widget.NewFormItem("File name", f.name),
		widget.NewFormItem("Folder", container.NewBorder(nil, nil, nil, choose, f.folder)),
	}
	f.dialog = dialog.NewForm("Save merged PDF", "Save", "Cancel", items, f.confirm, a.mainWindow)
	f.dialog.Resize(fyne.NewSize(480, 200))
	return f
}

func (f *destinationForm) Show() {
	f.dialog.Show()
}

func (f *destinationForm) setDir(dir string) {
	f.dir = dir
	f.folder.SetText(dir)
}

func (f *destinationForm) chooseFolder() {
	d := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, f.app.mainWindow)
			return
		}
		if dir != nil {
			f.setDir(dir.Path())
		}
	}, f.app.mainWindow)
	if loc := f.app.startLocation(); loc != nil {
		d.SetLocation(loc)
	}
	d.Show()
}

// path joins the folder and the entered name. An absolute name wins over
// the folder.
func (f *destinationForm) path() string {
	name := strings.TrimSpace(f.name.Text)
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(f.dir, name)
}

// confirm handles the form buttons. An existing file is only replaced after
// the user agrees.
func (f *destinationForm) confirm(ok bool) {
	path := f.path()
	if !ok || path == "" {
		f.finish("")
		return
	}
	if _, err := os.Stat(path); err == nil {
		dialog.ShowConfirm("Replace file?",
			fmt.Sprintf("%s already exists. Replace it?", filepath.Base(path)),
			func(yes bool) { f.replace(path, yes) }, f.app.mainWindow)
		return
	}
	f.finish(path)
}

func (f *destinationForm) replace(path string, yes bool) {
	if yes {
		f.finish(path)
	} else {
		f.finish("")
	}
}

// finish answers the dispatcher exactly once
func (f *destinationForm) finish(path string) {
	f.once.Do(func() {
		log.LogWithFields(log.F("destination", path)).Debug("Destination chosen")
		f.done(path)
	})
}
