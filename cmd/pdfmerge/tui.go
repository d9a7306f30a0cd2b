package main

import (
	"io"

	"pdfmerge/internal/tui"

	"github.com/spf13/cobra"
)

// newTUICmd creates the terminal UI command
func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [files, folders or globs...]",
		Short: "Launch the terminal user interface",
		Long: `Manage the merge list in the terminal. Paste dropped file paths
straight into the window, reorder with K/J and press m to merge.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandArgs(args)
			if err != nil {
				return err
			}
			// The terminal UI owns the screen; logs only go to the log file
			configureLogging(io.Discard)
			return tui.Run(cfg, paths...)
		},
	}
}
