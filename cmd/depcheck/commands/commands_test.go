package commands_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/arcfield/sdkkit/cmd/depcheck/commands"
	"github.com/arcfield/sdkkit/internal/adapters/baseline"
	"github.com/arcfield/sdkkit/internal/adapters/fs"
	"github.com/arcfield/sdkkit/internal/adapters/telemetry"
	"github.com/arcfield/sdkkit/internal/app"
	"github.com/arcfield/sdkkit/internal/core/domain"
	"github.com/arcfield/sdkkit/internal/core/ports/mocks"
	"github.com/arcfield/sdkkit/internal/engine/analyzer"
)

func newTestApp(t *testing.T, cfg *domain.Config) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().Load().Return(cfg, nil).AnyTimes()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	return app.New(
		mockLoader,
		analyzer.New(mockLogger),
		baseline.NewStore(mockLogger),
		nil,
		telemetry.NewNoop(),
		fs.NewHasher(),
		mockLogger,
	)
}

func writeTree(t *testing.T) *domain.Config {
	t.Helper()
	root := t.TempDir()

	dir := filepath.Join(root, "azure-foo")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create package dir: %v", err)
	}
	manifest := "setup(\n    version='1.0.0',\n    install_requires=['requests>=2.0'],\n)\n"
	if err := os.WriteFile(filepath.Join(dir, "setup.py"), []byte(manifest), 0o600); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	baselinePath := filepath.Join(root, "shared_requirements.txt")
	if err := os.WriteFile(baselinePath, []byte("requests>=2.0\n"), 0o600); err != nil {
		t.Fatalf("failed to write baseline: %v", err)
	}

	return &domain.Config{
		Root:     root,
		Baseline: baselinePath,
		Manifest: "setup.py",
		Patterns: []string{"azure*"},
	}
}

func TestAnalyze(t *testing.T) {
	cfg := writeTree(t)
	a := newTestApp(t, cfg)
	a.SetOutput(io.Discard)

	cli := commands.New(a)
	cli.SetArgs([]string{"analyze"})

	if err := cli.Execute(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAnalyze_Freeze(t *testing.T) {
	cfg := writeTree(t)
	if err := os.Remove(cfg.Baseline); err != nil {
		t.Fatalf("failed to remove baseline: %v", err)
	}

	a := newTestApp(t, cfg)
	a.SetOutput(io.Discard)

	cli := commands.New(a)
	cli.SetArgs([]string{"analyze", "--freeze"})

	if err := cli.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(cfg.Baseline)
	if err != nil {
		t.Fatalf("baseline not written: %v", err)
	}
	if string(data) != "requests>=2.0\n" {
		t.Errorf("baseline = %q", data)
	}
}

func TestAnalyze_ReportWithoutRenderer(t *testing.T) {
	cfg := writeTree(t)
	a := newTestApp(t, cfg)

	cli := commands.New(a)
	cli.SetArgs([]string{"analyze", "--out", filepath.Join(t.TempDir(), "report.html")})

	err := cli.Execute(context.Background())
	if !errors.Is(err, domain.ErrRendererUnavailable) {
		t.Errorf("error = %v, want ErrRendererUnavailable", err)
	}
}

func TestAnalyze_RejectsPositionalArgs(t *testing.T) {
	cfg := writeTree(t)
	a := newTestApp(t, cfg)

	cli := commands.New(a)
	cli.SetArgs([]string{"analyze", "azure-foo"})

	if err := cli.Execute(context.Background()); err == nil {
		t.Error("expected error for positional arguments")
	}
}

func TestVersion(t *testing.T) {
	cfg := writeTree(t)
	a := newTestApp(t, cfg)

	cli := commands.New(a)
	cli.SetArgs([]string{"version"})

	if err := cli.Execute(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigHook(t *testing.T) {
	cfg := writeTree(t)
	a := newTestApp(t, cfg)
	a.SetOutput(io.Discard)

	var got string
	cli := commands.New(a)
	cli.SetConfigHook(func(path string) { got = path })
	cli.SetArgs([]string{"analyze", "-c", "custom.yaml"})

	if err := cli.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "custom.yaml" {
		t.Errorf("config hook received %q, want custom.yaml", got)
	}
}
