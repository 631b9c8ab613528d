package ports

import "github.com/arcfield/sdkkit/internal/core/domain"

// ManifestParser extracts a package's declared version and raw requirement
// strings from one candidate path (a package directory in source mode, an
// archive file in wheel mode).
//
//go:generate mockgen -source=parser.go -destination=mocks/mock_parser.go -package=mocks
type ManifestParser interface {
	// Parse reads the manifest at path. A failure applies to that package
	// only; callers record it and continue with the remaining candidates.
	Parse(path string) (*domain.Package, []string, error)
}
