// Package merge hands the queued PDF list to the merge routine off the
// interactive goroutine and reports back how it went.
//
// A Dispatcher runs at most one merge at a time. Each attempt posts exactly
// one Result on the Results channel; front ends read that channel and apply
// the outcome on their own UI goroutine, so the worker never touches UI
// state.
package merge

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"pdfmerge/internal/config"
	"pdfmerge/internal/errors"
	"pdfmerge/internal/log"

	"github.com/google/uuid"
)

// Outcome is the terminal state of one merge attempt.
type Outcome int

const (
	Succeeded Outcome = iota
	Cancelled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Request is one merge job: an ordered copy of the file list and where to
// write the result.
type Request struct {
	ID          string
	Files       []string
	Destination string
}

// Result reports how a Request ended.
type Result struct {
	ID          string
	Destination string
	Outcome     Outcome
	Err         error
	Sources     int
	Pages       int
	Duration    time.Duration
}

// Prompter asks the user where to write the merged PDF. done must be called
// exactly once, with an empty path when the user cancels.
type Prompter interface {
	ChooseDestination(suggested string, done func(path string))
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(suggested string, done func(path string))

func (f PrompterFunc) ChooseDestination(suggested string, done func(path string)) {
	f(suggested, done)
}

// StaticPrompter always answers with the same destination.
type StaticPrompter string

func (p StaticPrompter) ChooseDestination(_ string, done func(path string)) {
	done(string(p))
}

// Dispatcher validates merge requests and runs them on a worker goroutine.
type Dispatcher struct {
	opts      Options
	suggested string
	newMerger MergerFactory
	busy      atomic.Bool
	results   chan Result
}

// NewDispatcher creates a Dispatcher configured from cfg.
func NewDispatcher(cfg *config.Config) *Dispatcher {
	return &Dispatcher{
		opts: Options{
			Validation: cfg.PDF.Validation,
			Preflight:  cfg.PDF.Preflight,
		},
		suggested: cfg.OutputName(),
		newMerger: CurrentMergerFactory,
		results:   make(chan Result, 4),
	}
}

// Options returns the PDF options merges run with.
func (d *Dispatcher) Options() Options {
	return d.opts
}

// Results delivers one Result per merge attempt.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Busy reports whether a merge attempt is in progress, including while the
// destination prompt is open.
func (d *Dispatcher) Busy() bool {
	return d.busy.Load()
}

// Merge starts a merge of files. It returns an EmptyFileList error when
// there is nothing to merge and a MergeInProgress error while another
// attempt is running; in both cases nothing else happens. Otherwise the
// prompter is asked for a destination and the outcome arrives on Results.
func (d *Dispatcher) Merge(files []string, p Prompter) error {
	if len(files) == 0 {
		return errors.ErrEmptyFileList
	}
	if !d.busy.CompareAndSwap(false, true) {
		return errors.ErrMergeInProgress
	}

	req := Request{
		ID:    uuid.NewString(),
		Files: append([]string(nil), files...),
	}

	p.ChooseDestination(d.suggested, func(dest string) {
		if dest == "" {
			log.LogWithFields(log.F("job", req.ID)).Debug("destination prompt cancelled")
			d.finish(Result{ID: req.ID, Outcome: Cancelled, Sources: len(req.Files)})
			return
		}
		req.Destination = WithPDFExt(dest)
		go d.run(req)
	})
	return nil
}

func (d *Dispatcher) run(req Request) {
	d.finish(d.Execute(context.Background(), req))
}

func (d *Dispatcher) finish(res Result) {
	d.busy.Store(false)
	d.results <- res
}

// Execute runs req synchronously on the calling goroutine. The destination
// is only replaced once the merged document has been written completely.
func (d *Dispatcher) Execute(ctx context.Context, req Request) Result {
	start := time.Now()
	logger := log.LogWithFields(
		log.F("job", req.ID),
		log.F("sources", len(req.Files)),
		log.F("destination", req.Destination),
	)
	logger.Info("merge started")

	res := Result{
		ID:          req.ID,
		Destination: req.Destination,
		Sources:     len(req.Files),
	}
	fail := func(err error) Result {
		res.Outcome = Failed
		res.Err = errors.NewMergeError(req.Destination, err)
		res.Duration = time.Since(start)
		logger.WithError(res.Err).Error("merge failed")
		return res
	}

	if len(req.Files) == 0 {
		return fail(errors.ErrEmptyFileList)
	}

	if d.opts.Preflight {
		infos, err := Inspect(ctx, req.Files, d.opts)
		if err != nil {
			return fail(err)
		}
		res.Pages = TotalPages(infos)
	}

	m := d.newMerger(d.opts)
	defer func() {
		if err := m.Close(); err != nil {
			logger.WithError(err).Warn("closing merge sources")
		}
	}()

	for _, f := range req.Files {
		if err := m.Append(f); err != nil {
			return fail(err)
		}
	}

	if err := writeAtomic(req.Destination, m.Finalize); err != nil {
		return fail(err)
	}

	if res.Pages == 0 {
		if n, err := PageCount(req.Destination, d.opts); err == nil {
			res.Pages = n
		}
	}

	res.Outcome = Succeeded
	res.Duration = time.Since(start)
	logger.With(log.F("pages", res.Pages), log.F("duration", res.Duration.String())).Info("merge finished")
	return res
}

// WithPDFExt appends .pdf to path when it has no extension.
func WithPDFExt(path string) string {
	if filepath.Ext(path) == "" {
		return path + ".pdf"
	}
	return path
}

// writeAtomic writes through a temp file in dest's directory and renames it
// over dest on success. On failure dest is left untouched and the temp file
// is removed.
func writeAtomic(dest string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return errors.NewFileError("cannot write to destination directory", dir, errors.FileAccessDenied, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "flushing merged PDF")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing merged PDF")
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrap(err, "setting permissions on merged PDF")
	}
	if err = os.Rename(tmpName, dest); err != nil {
		return errors.NewFileError("cannot replace destination", dest, errors.FileAccessDenied, err)
	}
	return nil
}
