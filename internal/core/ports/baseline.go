package ports

import "github.com/arcfield/sdkkit/internal/core/domain"

// BaselineStore loads and rewrites the frozen requirements file.
//
//go:generate mockgen -source=baseline.go -destination=mocks/mock_baseline.go -package=mocks
type BaselineStore interface {
	// Load reads the baseline at path. A missing file is not an error: it
	// yields an empty baseline and (true) absent.
	Load(path string) (baseline *domain.Baseline, absent bool, err error)

	// Save rewrites the baseline file wholesale with the given
	// name -> specifier mapping, one line per requirement, names sorted.
	Save(path string, specs map[string]string) error
}
