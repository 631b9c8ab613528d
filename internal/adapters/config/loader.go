// Package config provides the configuration loader for depcheck.
package config

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/arcfield/sdkkit/internal/core/domain"
	"github.com/arcfield/sdkkit/internal/core/ports"
)

var _ ports.ConfigLoader = (*FileLoader)(nil)

// Default returns the built-in configuration used when no file is present.
func Default() *domain.Config {
	return &domain.Config{
		Root:     ".",
		Baseline: "shared_requirements.txt",
		Manifest: "setup.py",
		Patterns: []string{"azure*", "sdk/*/azure*"},
		SkipNames: []string{
			"azure-mgmt-documentdb",          // deprecated
			"azure-sdk-for-python",           // top-level package
			"azure-sdk-tools",                // internal tooling
			"azure-servicemanagement-legacy", // legacy, not officially deprecated
		},
		SkipSuffixes: []string{"-nspkg"},
	}
}

// FileLoader implements ports.ConfigLoader using a YAML file.
type FileLoader struct {
	Filename string
}

// NewLoader creates a loader reading depcheck.yaml from the working
// directory.
func NewLoader() *FileLoader {
	return &FileLoader{Filename: "depcheck.yaml"}
}

// Load reads the configuration file.
func (l *FileLoader) Load() (*domain.Config, error) {
	return Load(l.Filename)
}

// Load reads a configuration file from the given path. Fields not set in the
// file keep their defaults; a missing file is not an error.
func Load(path string) (*domain.Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	if file.Root != "" {
		cfg.Root = file.Root
	}
	if file.Baseline != "" {
		cfg.Baseline = file.Baseline
	}
	if file.Manifest != "" {
		cfg.Manifest = file.Manifest
	}
	if len(file.Patterns) > 0 {
		cfg.Patterns = file.Patterns
	}
	if file.Skip != nil {
		cfg.SkipNames = file.Skip
	}
	if file.SkipSuffixes != nil {
		cfg.SkipSuffixes = file.SkipSuffixes
	}

	return cfg, nil
}
