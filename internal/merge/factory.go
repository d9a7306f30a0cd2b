package merge

// MergerFactory creates a Merger. Tests swap it to inject failures.
type MergerFactory func(opts Options) Merger

// DefaultMergerFactory creates pdfcpu-backed mergers
var DefaultMergerFactory MergerFactory = NewPDFCPUMerger

// CurrentMergerFactory is the factory new dispatchers pick up
var CurrentMergerFactory = DefaultMergerFactory

// SetMergerFactory sets a custom merger factory for dependency injection
func SetMergerFactory(factory MergerFactory) {
	CurrentMergerFactory = factory
}

// ResetMergerFactory resets to the default merger factory
func ResetMergerFactory() {
	CurrentMergerFactory = DefaultMergerFactory
}
