// Package fs implements filesystem discovery and fingerprinting adapters.
package fs

import (
	"path/filepath"
	"sort"

	"go.trai.ch/zerr"
)

// SourceLocator finds package directories by globbing for a manifest file
// under each configured pattern.
type SourceLocator struct {
	// Manifest is the filename globbed for inside each pattern match.
	Manifest string

	// Patterns are directory globs relative to the scan root.
	Patterns []string
}

// NewSourceLocator creates a locator for source-tree manifests.
func NewSourceLocator(manifest string, patterns []string) *SourceLocator {
	return &SourceLocator{Manifest: manifest, Patterns: patterns}
}

// Locate returns the sorted directories under root that contain a manifest.
func (l *SourceLocator) Locate(root string) ([]string, error) {
	var dirs []string
	for _, pattern := range l.Patterns {
		matches, err := filepath.Glob(filepath.Join(root, pattern, l.Manifest))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "bad package pattern"), "pattern", pattern)
		}
		for _, m := range matches {
			dirs = append(dirs, filepath.Dir(m))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// WheelLocator finds built distribution archives in a flat directory.
type WheelLocator struct{}

// NewWheelLocator creates a locator for prebuilt archives.
func NewWheelLocator() *WheelLocator {
	return &WheelLocator{}
}

// Locate returns the sorted *.whl files directly under root.
func (l *WheelLocator) Locate(root string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(root, "*.whl"))
	if err != nil {
		return nil, zerr.Wrap(err, "bad wheel glob")
	}
	sort.Strings(matches)
	return matches, nil
}
