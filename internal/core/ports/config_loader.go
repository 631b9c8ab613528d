package ports

import "github.com/arcfield/sdkkit/internal/core/domain"

// ConfigLoader defines the interface for loading the tool configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration. Implementations apply defaults when no
	// configuration file exists.
	Load() (*domain.Config, error)
}
