package views

import (
	"fmt"
	"strings"

	"pdfmerge/internal/filelist"
	"pdfmerge/internal/tui/common"
	"pdfmerge/internal/tui/styles"

	"github.com/dustin/go-humanize"
)

func RenderMainView(m common.ModelReader) string {
	var sb strings.Builder

	sb.WriteString(styles.Theme.Title.Render("PDF Merge"))
	sb.WriteString("\n")
	sb.WriteString(styles.QueueStyle.Render(RenderQueue(m.Entries(), m.Cursor())))
	sb.WriteString("\n")

	if m.Mode() != common.Normal {
		sb.WriteString(m.InputView() + "\n")
	}
	if status := m.StatusView(); status != "" {
		sb.WriteString(status + "\n")
	}

	sb.WriteString("\n" + m.HelpView())

	return styles.Theme.App.Render(sb.String())
}

// RenderQueue lists the queued files in merge order with the cursor row
// highlighted
func RenderQueue(entries []common.Entry, cursor int) string {
	if len(entries) == 0 {
		return styles.Theme.Detail.Render(fmt.Sprintf(
			"No files queued. Paste paths, press a to add, up to %d files.", filelist.MaxFiles))
	}

	var sb strings.Builder
	sb.WriteString(styles.Theme.Detail.Render(fmt.Sprintf("%d/%d files", len(entries), filelist.MaxFiles)))
	for i, e := range entries {
		sb.WriteString("\n")
		line := fmt.Sprintf("%2d. %s", i+1, e.Name)
		if i == cursor {
			sb.WriteString(styles.Theme.Selected.Render("> " + line))
		} else {
			sb.WriteString(styles.Theme.Unselected.Render("  " + line))
		}
		if detail := entryDetail(e); detail != "" {
			sb.WriteString(" " + styles.Theme.Detail.Render(detail))
		}
	}
	return sb.String()
}

func entryDetail(e common.Entry) string {
	if e.Pages == 0 {
		return ""
	}
	unit := "pages"
	if e.Pages == 1 {
		unit = "page"
	}
	return fmt.Sprintf("(%d %s, %s)", e.Pages, unit, humanize.Bytes(uint64(e.Size)))
}
