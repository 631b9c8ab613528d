package fs

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/arcfield/sdkkit/internal/core/ports"
)

// HasherNodeID is the unique identifier for the file hasher Graft node.
const HasherNodeID graft.ID = "adapter.fs_hasher"

func init() {
	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
