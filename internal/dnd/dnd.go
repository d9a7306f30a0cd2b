// Package dnd turns drag-and-drop payloads into individual file paths.
//
// Drop sources encode file lists differently: Tk sends a Tcl list where
// names containing spaces are wrapped in braces, X11 and most browsers send
// text/uri-list, and terminals paste shell-quoted paths. Split accepts all
// three.
package dnd

import (
	"net/url"
	"runtime"
	"strings"
	"unicode"

	"pdfmerge/internal/filelist"

	"fyne.io/fyne/v2"
)

// Split decodes a drop payload into paths, preserving order.
func Split(data string) []string {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil
	}
	if isURIList(data) {
		return splitURIList(data)
	}
	return splitWords(data)
}

// SplitPDF decodes a drop payload and keeps only PDF paths.
func SplitPDF(data string) []string {
	return FilterPDF(Split(data))
}

// FilterPDF keeps the paths with a .pdf extension, ignoring case.
func FilterPDF(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if filelist.IsPDF(p) {
			out = append(out, p)
		}
	}
	return out
}

// FromURIs converts dropped fyne URIs to local paths. Non-file URIs are
// dropped.
func FromURIs(uris []fyne.URI) []string {
	out := make([]string, 0, len(uris))
	for _, u := range uris {
		if u == nil || u.Scheme() != "file" {
			continue
		}
		out = append(out, u.Path())
	}
	return out
}

func isURIList(data string) bool {
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return strings.HasPrefix(line, "file://")
	}
	return false
}

func splitURIList(data string) []string {
	var paths []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, err := url.Parse(line)
		if err != nil || u.Scheme != "file" {
			continue
		}
		p := u.Path
		// file:///C:/x.pdf parses to /C:/x.pdf
		if runtime.GOOS == "windows" && len(p) > 2 && p[0] == '/' && p[2] == ':' {
			p = p[1:]
		}
		paths = append(paths, p)
	}
	return paths
}

// escapable lists the runes a backslash escapes. Any other backslash is
// kept literally so Windows paths survive.
const escapable = " \t'\"{}\\()[]&;!$`"

// splitWords tokenizes a Tcl list or a shell paste: whitespace separates
// words, {braces} group with nesting, quotes group, backslash escapes.
func splitWords(data string) []string {
	var words []string
	var cur strings.Builder
	inWord := false
	runes := []rune(data)

	flush := func() {
		if inWord {
			words = append(words, cur.String())
			cur.Reset()
			inWord = false
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			flush()

		case r == '{' && !inWord:
			depth := 1
			inWord = true
			for i++; i < len(runes); i++ {
				if runes[i] == '{' {
					depth++
				} else if runes[i] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				cur.WriteRune(runes[i])
			}

		case r == '\'' || r == '"':
			inWord = true
			for i++; i < len(runes) && runes[i] != r; i++ {
				if r == '"' && runes[i] == '\\' && i+1 < len(runes) && strings.ContainsRune(`"\$`+"`", runes[i+1]) {
					i++
				}
				cur.WriteRune(runes[i])
			}

		case r == '\\' && i+1 < len(runes) && strings.ContainsRune(escapable, runes[i+1]):
			inWord = true
			i++
			cur.WriteRune(runes[i])

		default:
			inWord = true
			cur.WriteRune(r)
		}
	}
	flush()

	return words
}
