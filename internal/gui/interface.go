//go:build !nogui

package gui

import (
	"pdfmerge/internal/config"
)

// Interface defines the contract for GUI operations
type Interface interface {
	Run()
}

// Factory creates GUI instances
type Factory struct {
	config *config.Config
}

// NewFactory creates a new GUI factory
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{config: cfg}
}

// Create returns a new GUI instance with files already queued
func (f *Factory) Create(files ...string) (Interface, error) {
	a := NewApp(f.config)
	if len(files) > 0 {
		a.addPaths(files)
	}
	return a, nil
}
