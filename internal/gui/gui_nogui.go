//go:build nogui

package gui

import (
	"fmt"

	"pdfmerge/internal/config"
)

// StartGUI is a stub implementation for builds with GUI disabled
func StartGUI(_ *config.Config, _ ...string) error {
	fmt.Println("GUI is disabled in this build. Use `pdfmerge tui` or `pdfmerge merge`.")
	return fmt.Errorf("GUI not available in this build")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
