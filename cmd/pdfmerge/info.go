package main

import (
	"fmt"
	"path/filepath"

	"pdfmerge/cmd/pdfmerge/cli"
	"pdfmerge/internal/merge"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// newInfoCmd prints page counts and sizes of PDF files
func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [files, folders or globs...]",
		Short: "Show page counts and sizes of PDF files",
		Long:  `Validate PDF files and show what a merge of them would contain.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			paths, err := expandArgs(args)
			if err != nil {
				return err
			}

			d := merge.NewDispatcher(cfg)
			infos, err := merge.Inspect(cmd.Context(), paths, d.Options())
			if err != nil {
				return err
			}

			cli.PrintHeader(out, fmt.Sprintf("%d PDF files", len(infos)))
			var total int64
			for i, info := range infos {
				total += info.Size
				fmt.Fprintf(out, "%3d  %-40s %6d pages  %10s\n",
					i+1, filepath.Base(info.Path), info.Pages, humanize.Bytes(uint64(info.Size)))
			}
			fmt.Fprintf(out, "     %-40s %6d pages  %10s\n", "total", merge.TotalPages(infos), humanize.Bytes(uint64(total)))
			return nil
		},
	}
}
