package domain

import "strings"

// Config is the effective tool configuration after defaults are applied.
type Config struct {
	// Root is the directory the scan starts from.
	Root string

	// Baseline is the frozen requirements file path, relative to the
	// working directory unless absolute.
	Baseline string

	// Manifest is the build-manifest filename looked for in source mode.
	Manifest string

	// Patterns are the package-directory globs, relative to Root.
	Patterns []string

	// SkipNames are exact package names excluded from analysis.
	SkipNames []string

	// SkipSuffixes exclude packages whose name ends with any entry.
	SkipSuffixes []string
}

// Skip reports whether the named package is excluded from analysis.
func (c *Config) Skip(name string) bool {
	for _, n := range c.SkipNames {
		if n == name {
			return true
		}
	}
	for _, suffix := range c.SkipSuffixes {
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			return true
		}
	}
	return false
}
