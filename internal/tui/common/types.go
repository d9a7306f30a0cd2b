package common

type Mode int

const (
	Normal Mode = iota
	// AddPath reads a path, directory or glob to queue
	AddPath
	// Output reads the merge destination
	Output
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Entries() []Entry
	Cursor() int
	Mode() Mode
	ShowHelp() bool
	InputView() string
	StatusView() string
	HelpView() string
}

// Entry is one queued source as the views show it. Pages is zero until
// the file has been inspected.
type Entry struct {
	Name  string
	Path  string
	Pages int
	Size  int64
}
