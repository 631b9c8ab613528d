package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/arcfield/sdkkit/internal/adapters/baseline"  //nolint:depguard // Wired in app layer
	"github.com/arcfield/sdkkit/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"github.com/arcfield/sdkkit/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"github.com/arcfield/sdkkit/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"github.com/arcfield/sdkkit/internal/adapters/report"    //nolint:depguard // Wired in app layer
	"github.com/arcfield/sdkkit/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"github.com/arcfield/sdkkit/internal/core/ports"
	"github.com/arcfield/sdkkit/internal/engine/analyzer"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles the initialized application with the adapters the CLI
// needs direct access to.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			analyzer.NodeID,
			baseline.NodeID,
			report.NodeID,
			telemetry.NodeID,
			fs.HasherNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: application, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	az, err := graft.Dep[*analyzer.Analyzer](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.BaselineStore](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[ports.Recorder](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, az, store, renderer, recorder, hasher, log), nil
}
