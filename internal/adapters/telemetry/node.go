package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"

	"github.com/arcfield/sdkkit/internal/core/ports"
)

const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Recorder]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Recorder, error) {
			if isTerminal(os.Stdout) {
				return New(), nil
			}
			return NewNoop(), nil
		},
	})
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
