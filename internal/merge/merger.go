package merge

import (
	"io"
	"os"
	"sync"

	"pdfmerge/internal/errors"
	"pdfmerge/internal/log"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Merger concatenates PDF documents page-wise. Sources are appended one at
// a time in output order; Finalize writes the combined document and Close
// releases every opened source.
type Merger interface {
	// Append opens the source at path and queues its pages.
	Append(path string) error

	// Finalize writes all queued pages, in append order, to w.
	Finalize(w io.Writer) error

	// Close releases the merge handle. It is safe to call more than once.
	Close() error
}

// Options tune the underlying PDF library.
type Options struct {
	// Validation is "relaxed" or "strict".
	Validation string
	// Preflight validates and counts pages of every source before merging.
	Preflight bool
}

var disableConfigDir sync.Once

// newConfiguration returns a fresh pdfcpu configuration. pdfcpu mutates the
// configuration it is handed, so every operation gets its own.
func newConfiguration(opts Options) *model.Configuration {
	// Keep pdfcpu from creating its own config directory under the user's home
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	if opts.Validation == "strict" {
		conf.ValidationMode = model.ValidationStrict
	} else {
		conf.ValidationMode = model.ValidationRelaxed
	}
	return conf
}

type pdfcpuMerger struct {
	opts    Options
	sources []*os.File
	paths   []string
}

// NewPDFCPUMerger returns a Merger backed by pdfcpu.
func NewPDFCPUMerger(opts Options) Merger {
	return &pdfcpuMerger{opts: opts}
}

func (m *pdfcpuMerger) Append(path string) error {
	f, err := openSource(path)
	if err != nil {
		return err
	}
	m.sources = append(m.sources, f)
	m.paths = append(m.paths, path)
	log.Debugf("queued %s (%d sources)", path, len(m.sources))
	return nil
}

func (m *pdfcpuMerger) Finalize(w io.Writer) error {
	if len(m.sources) == 0 {
		return errors.ErrEmptyFileList
	}

	rsc := make([]io.ReadSeeker, len(m.sources))
	for i, f := range m.sources {
		rsc[i] = f
	}

	if err := api.MergeRaw(rsc, w, false, newConfiguration(m.opts)); err != nil {
		return errors.Wrap(err, "pdfcpu merge")
	}
	return nil
}

func (m *pdfcpuMerger) Close() error {
	var first error
	for _, f := range m.sources {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	m.sources = nil
	m.paths = nil
	return first
}

func openSource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, errors.NewFileError("source not found", path, errors.FileNotFound, err)
		case os.IsPermission(err):
			return nil, errors.NewFileError("source not readable", path, errors.FileAccessDenied, err)
		default:
			return nil, errors.NewFileError("cannot open source", path, errors.FileAccessDenied, err)
		}
	}
	return f, nil
}
