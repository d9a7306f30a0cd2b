package gui

import (
	"fmt"
	"path/filepath"
	"strings"

	"pdfmerge/internal/errors"
	"pdfmerge/internal/filelist"
	"pdfmerge/internal/merge"

	"github.com/dustin/go-humanize"
)

// entryText is the list label for a queued path
func entryText(path string, missing bool) string {
	name := filepath.Base(path)
	if missing {
		return name + " (missing)"
	}
	return name
}

// statusText summarises the queue for the status bar. infos holds the
// sources inspected so far and may be shorter than count.
func statusText(count int, infos []merge.SourceInfo, missing int) string {
	if count == 0 {
		return fmt.Sprintf("No files queued (up to %d)", filelist.MaxFiles)
	}

	parts := []string{fmt.Sprintf("%d of %d files", count, filelist.MaxFiles)}
	if len(infos) > 0 {
		var size int64
		for _, info := range infos {
			size += info.Size
		}
		pages := merge.TotalPages(infos)
		if len(infos) < count {
			parts = append(parts, fmt.Sprintf("%d+ pages", pages))
		} else {
			parts = append(parts, fmt.Sprintf("%d pages", pages))
		}
		parts = append(parts, humanize.Bytes(uint64(size)))
	}
	if missing > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", missing))
	}
	return strings.Join(parts, " · ")
}

// successText names the merged file and its size
func successText(res merge.Result) string {
	msg := fmt.Sprintf("Merged PDF saved to %s", res.Destination)
	if res.Pages > 0 {
		msg += fmt.Sprintf(" (%s pages)", humanize.Comma(int64(res.Pages)))
	}
	return msg
}

// warningText turns warning-class errors into user-facing sentences
func warningText(err error) string {
	switch errors.KindOf(err) {
	case errors.CapacityExceeded:
		return fmt.Sprintf("You can merge at most %d files.", filelist.MaxFiles)
	case errors.EmptyFileList:
		return "Add at least one PDF file before merging."
	case errors.MergeInProgress:
		return "A merge is already running."
	case errors.NotPDF:
		return "Only PDF files can be added."
	}
	return err.Error()
}
