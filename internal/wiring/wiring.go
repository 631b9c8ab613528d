// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/arcfield/sdkkit/internal/adapters/baseline"
	_ "github.com/arcfield/sdkkit/internal/adapters/config"
	_ "github.com/arcfield/sdkkit/internal/adapters/fs"
	_ "github.com/arcfield/sdkkit/internal/adapters/logger"
	_ "github.com/arcfield/sdkkit/internal/adapters/report"
	_ "github.com/arcfield/sdkkit/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "github.com/arcfield/sdkkit/internal/app"
	_ "github.com/arcfield/sdkkit/internal/engine/analyzer"
)
