package domain

import (
	"sort"
	"time"
)

// SpecChange describes one requirement whose current specifier set differs
// from its frozen specifier.
type SpecChange struct {
	Name       string
	FrozenSpec string

	// Current is the full sorted specifier set observed in the scan.
	Current []string

	// Violations maps each unmatched specifier to the packages declaring it
	// that are not excused by an override. Specifiers whose declarers are
	// all excused appear with an empty slice.
	Violations map[string][]string
}

// Failed reports whether the change carries at least one non-excused
// declaration.
func (c SpecChange) Failed() bool {
	for _, pkgs := range c.Violations {
		if len(pkgs) > 0 {
			return true
		}
	}
	return false
}

// Diff is the outcome of comparing the aggregated scan against the frozen
// baseline.
type Diff struct {
	// Missing holds frozen-only requirement names. Informational: a frozen
	// requirement no current package declares does not fail the run.
	Missing []string

	// New holds current-only requirement names; any entry fails the run.
	New []string

	// Changed holds requirements present on both sides whose specifier sets
	// differ.
	Changed []SpecChange
}

// ViolationCount returns the number of changed requirements with at least
// one non-excused unmatched specifier.
func (d Diff) ViolationCount() int {
	n := 0
	for _, c := range d.Changed {
		if c.Failed() {
			n++
		}
	}
	return n
}

// Report is the full analysis result handed to the renderer and to verbose
// output.
type Report struct {
	GeneratedAt time.Time

	// Packages is keyed by package name.
	Packages map[string]Package

	Dependencies DependencyMap
	Inconsistent []string
	Baseline     *Baseline
	Diff         *Diff

	// Failures lists the per-package scan errors that were skipped.
	Failures []ScanResult
}

// External returns the sorted requirement names that are not themselves
// scanned packages.
func (r *Report) External() []string {
	var names []string
	for name := range r.Dependencies {
		if _, ok := r.Packages[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// PackageNames returns the scanned package names in sorted order.
func (r *Report) PackageNames() []string {
	names := make([]string, 0, len(r.Packages))
	for name := range r.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
