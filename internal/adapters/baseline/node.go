package baseline

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/arcfield/sdkkit/internal/adapters/logger"
	"github.com/arcfield/sdkkit/internal/core/ports"
)

const NodeID graft.ID = "adapter.baseline_store"

func init() {
	graft.Register(graft.Node[ports.BaselineStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.BaselineStore, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(log), nil
		},
	})
}
