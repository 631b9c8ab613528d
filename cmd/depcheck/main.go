// Package main is the entry point for the depcheck CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"github.com/arcfield/sdkkit/cmd/depcheck/commands"
	"github.com/arcfield/sdkkit/internal/app"
	"github.com/arcfield/sdkkit/internal/core/domain"
	_ "github.com/arcfield/sdkkit/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App)
	cli.SetConfigHook(components.App.SetConfigPath)

	if err := cli.Execute(ctx); err != nil {
		if isAnalysisFailure(err) {
			// The summary output already describes the failure.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}

// isAnalysisFailure reports whether the error is an expected analysis
// outcome rather than an operational fault.
func isAnalysisFailure(err error) bool {
	return errors.Is(err, domain.ErrInconsistentSpecifiers) ||
		errors.Is(err, domain.ErrUnfrozenRequirements) ||
		errors.Is(err, domain.ErrBaselineMismatch) ||
		errors.Is(err, domain.ErrFreezeRefused)
}
