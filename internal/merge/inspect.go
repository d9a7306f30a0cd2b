package merge

import (
	"context"
	"io"

	"pdfmerge/internal/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"
)

// inspectWorkers bounds how many sources are parsed at once.
const inspectWorkers = 4

// SourceInfo describes one queued source.
type SourceInfo struct {
	Path  string
	Pages int
	Size  int64
}

// Inspect validates every source and counts its pages. Results keep the
// order of paths. The first failing source cancels the rest and is named in
// the returned error.
func Inspect(ctx context.Context, paths []string, opts Options) ([]SourceInfo, error) {
	infos := make([]SourceInfo, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(inspectWorkers)

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := inspectOne(p, opts)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

// TotalPages sums the page counts of infos.
func TotalPages(infos []SourceInfo) int {
	total := 0
	for _, info := range infos {
		total += info.Pages
	}
	return total
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string, opts Options) (int, error) {
	info, err := inspectOne(path, opts)
	if err != nil {
		return 0, err
	}
	return info.Pages, nil
}

func inspectOne(path string, opts Options) (SourceInfo, error) {
	f, err := openSource(path)
	if err != nil {
		return SourceInfo{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return SourceInfo{}, errors.NewFileError("cannot stat source", path, errors.FileAccessDenied, err)
	}
	if st.IsDir() {
		return SourceInfo{}, errors.NewFileError("source is a directory", path, errors.InvalidPath, nil)
	}

	// Sniff the header first so a renamed file gets a clear error instead of
	// a parser failure
	mime, err := mimetype.DetectReader(f)
	if err != nil {
		return SourceInfo{}, errors.NewFileError("cannot read source", path, errors.FileAccessDenied, err)
	}
	if !mime.Is("application/pdf") {
		return SourceInfo{}, errors.NewFileError("not a PDF file (content is "+mime.String()+")", path, errors.NotPDF, nil)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return SourceInfo{}, errors.NewFileError("cannot rewind source", path, errors.FileAccessDenied, err)
	}

	pages, err := api.PageCount(f, newConfiguration(opts))
	if err != nil {
		return SourceInfo{}, errors.NewFileError("unreadable PDF", path, errors.NotPDF, err)
	}

	return SourceInfo{Path: path, Pages: pages, Size: st.Size()}, nil
}
