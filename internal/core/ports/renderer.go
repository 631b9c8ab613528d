package ports

import (
	"io"

	"github.com/arcfield/sdkkit/internal/core/domain"
)

// Renderer writes a human-readable report of a completed analysis.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	Render(w io.Writer, report *domain.Report) error
}
