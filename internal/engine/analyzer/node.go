package analyzer

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/arcfield/sdkkit/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"github.com/arcfield/sdkkit/internal/core/ports"
)

// NodeID is the unique identifier for the analyzer Graft node.
const NodeID graft.ID = "engine.analyzer"

func init() {
	graft.Register(graft.Node[*Analyzer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Analyzer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
