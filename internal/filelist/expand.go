package filelist

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pdfmerge/internal/errors"

	"github.com/gobwas/glob"
)

var pdfGlob = glob.MustCompile("*.pdf")

// Expand resolves command-line style arguments into PDF paths. A directory
// contributes its PDFs in name order, an argument containing glob
// metacharacters is matched against the entries of its directory, and
// anything else is taken as a file path. An argument naming an existing
// file or directory is never treated as a pattern. Matching is
// case-insensitive.
func Expand(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		paths, err := expandOne(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, paths...)
	}
	return out, nil
}

// PDFsInDir returns the PDF files directly inside dir, sorted by name.
func PDFsInDir(dir string) ([]string, error) {
	return matchDir(dir, pdfGlob)
}

func expandOne(arg string) ([]string, error) {
	// An existing path is taken literally, even when its name contains
	// pattern characters such as "report [final].pdf"
	info, err := os.Stat(arg)
	if err == nil {
		if info.IsDir() {
			return PDFsInDir(arg)
		}
		return []string{arg}, nil
	}
	if !hasMeta(arg) {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("file not found", arg, errors.FileNotFound, err)
		}
		return nil, errors.NewFileError("cannot access", arg, errors.FileAccessDenied, err)
	}

	dir, pattern := filepath.Split(arg)
	if dir == "" {
		dir = "."
	}
	if hasMeta(dir) {
		return nil, errors.NewFileError("patterns are only supported in the file name", arg, errors.InvalidPath, nil)
	}

	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, errors.NewFileError("invalid pattern", arg, errors.InvalidPath, err)
	}
	return matchDir(dir, g)
}

func matchDir(dir string, g glob.Glob) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewFileError("error reading directory", dir, errors.FileAccessDenied, err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if g.Match(name) && IsPDF(name) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
