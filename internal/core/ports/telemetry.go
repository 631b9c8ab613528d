package ports

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Recorder reports scan progress. It carries no analytic semantics; a no-op
// implementation is always a valid choice.
type Recorder interface {
	// Package starts a progress entry for one candidate package.
	Package(name string) Entry

	// Close flushes and closes the recording session.
	Close() error
}

// Entry tracks a single package's scan.
type Entry interface {
	// Done completes the entry, with the package's scan error if any.
	Done(err error)
}
