package telemetry

import "github.com/arcfield/sdkkit/internal/core/ports"

// Noop is a Recorder that discards everything. Used for quiet and non-TTY
// runs.
type Noop struct{}

// NewNoop creates a no-op recorder.
func NewNoop() ports.Recorder {
	return Noop{}
}

// Package returns an entry that ignores completion.
func (Noop) Package(string) ports.Entry {
	return noopEntry{}
}

// Close is a no-op.
func (Noop) Close() error {
	return nil
}

type noopEntry struct{}

func (noopEntry) Done(error) {}
