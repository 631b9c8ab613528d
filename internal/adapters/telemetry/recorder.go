// Package telemetry reports scan progress through progrock.
package telemetry

import (
	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"

	"github.com/arcfield/sdkkit/internal/core/ports"
)

var _ ports.Recorder = (*Recorder)(nil)

// Recorder implements ports.Recorder on a progrock tape: one vertex per
// scanned package, completed with the package's parse error if any.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder with a default tape.
func New() ports.Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Package starts a vertex for one candidate package.
func (r *Recorder) Package(name string) ports.Entry {
	v := r.rec.Vertex(digest.FromString(name), name)
	return &entry{vertex: v}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

type entry struct {
	vertex *progrock.VertexRecorder
}

func (e *entry) Done(err error) {
	e.vertex.Done(err)
}
