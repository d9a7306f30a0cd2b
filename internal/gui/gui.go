//go:build !nogui

package gui

import (
	"pdfmerge/internal/config"
)

// StartGUI opens the main window and blocks until it is closed
func StartGUI(cfg *config.Config, files ...string) error {
	ui, err := NewFactory(cfg).Create(files...)
	if err != nil {
		return err
	}
	ui.Run()
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
