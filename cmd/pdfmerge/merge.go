package main

import (
	"fmt"
	"os"
	"path/filepath"

	"pdfmerge/cmd/pdfmerge/cli"
	"pdfmerge/internal/errors"
	"pdfmerge/internal/filelist"
	"pdfmerge/internal/merge"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// newMergeCmd merges files without any UI
func newMergeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge [files, folders or globs...]",
		Short: "Merge PDF files into one",
		Long: `Merge PDF files in argument order. Folders contribute their PDF files
in name order and globs such as 'scans/*.pdf' are expanded.`,
		Example: `  pdfmerge merge -o report.pdf cover.pdf body.pdf appendix.pdf
  pdfmerge merge -o scans.pdf 'scans/page-*.pdf'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			paths, err := expandArgs(args)
			if err != nil {
				return err
			}

			list := filelist.New()
			added, err := list.AddAll(paths)
			if err != nil {
				return err
			}
			if skipped := len(paths) - added; skipped > 0 {
				cli.PrintWarning(out, fmt.Sprintf("Skipped %d duplicate or non-PDF arguments", skipped))
			}

			if output == "" {
				output = filepath.Join(cfg.Output.Directory, cfg.OutputName())
			}

			d := merge.NewDispatcher(cfg)
			if err := d.Merge(list.Snapshot(), merge.StaticPrompter(output)); err != nil {
				return err
			}

			res := <-d.Results()
			if res.Outcome != merge.Succeeded {
				return res.Err
			}

			size := ""
			if st, err := os.Stat(res.Destination); err == nil {
				size = ", " + humanize.Bytes(uint64(st.Size()))
			}
			cli.PrintSuccess(out, fmt.Sprintf("Merged %d files into %s (%d pages%s)",
				res.Sources, res.Destination, res.Pages, size))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (default from config, merged.pdf)")

	return cmd
}

// expandArgs resolves folders and globs and rejects an empty result
func expandArgs(args []string) ([]string, error) {
	paths, err := filelist.Expand(args)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 && len(paths) == 0 {
		return nil, errors.ErrEmptyFileList
	}
	return paths, nil
}
