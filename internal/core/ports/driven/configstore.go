package driven

// ConfigStore provides persisted defaults for CLI flags. Values are
// read once at startup; flags always win over stored defaults.
type ConfigStore interface {
	// OutputDir returns the default directory for cropped bags.
	OutputDir() string

	// MaxSegmentBytes returns the default segment size cap for
	// bag writers.
	MaxSegmentBytes() int64
}
