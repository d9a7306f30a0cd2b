package messages

import (
	"pdfmerge/internal/merge"
)

type ErrorMsg struct {
	Err error
}

// MergeResultMsg carries the outcome of a merge attempt
type MergeResultMsg struct {
	Result merge.Result
}

// InspectedMsg carries page counts and sizes for queued sources
type InspectedMsg struct {
	Infos []merge.SourceInfo
}
