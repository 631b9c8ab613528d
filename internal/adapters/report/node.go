package report

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/arcfield/sdkkit/internal/core/ports"
)

const NodeID graft.ID = "adapter.report_renderer"

func init() {
	graft.Register(graft.Node[ports.Renderer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Renderer, error) {
			return NewHTMLRenderer()
		},
	})
}
