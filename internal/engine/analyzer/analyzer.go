// Package analyzer implements requirement aggregation, consistency checking
// and baseline diffing.
package analyzer

import (
	"fmt"
	"sort"

	"github.com/arcfield/sdkkit/internal/core/domain"
	"github.com/arcfield/sdkkit/internal/core/ports"
)

// Analyzer aggregates scanned packages into a dependency map and compares it
// against a frozen baseline.
type Analyzer struct {
	logger ports.Logger
}

// New creates an Analyzer.
func New(logger ports.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Aggregate builds the dependency map from the successful scan results. Each
// raw requirement string is normalized; unparseable requirements are logged
// and contribute nothing.
func (a *Analyzer) Aggregate(results []domain.ScanResult) (map[string]domain.Package, domain.DependencyMap) {
	packages := make(map[string]domain.Package)
	deps := make(domain.DependencyMap)

	for _, res := range results {
		if res.Err != nil || res.Pkg == nil {
			continue
		}
		packages[res.Pkg.Name] = *res.Pkg
		for _, raw := range res.Requirements {
			req, err := domain.ParseRequirement(raw)
			if err != nil {
				if a.logger != nil {
					a.logger.Warn(fmt.Sprintf("failed to parse requirement %q declared by %s", raw, res.Pkg.Name))
				}
				continue
			}
			deps.Record(req.Name, req.Spec, res.Pkg.Name)
		}
	}
	return packages, deps
}

// Diff classifies the aggregated dependencies against the frozen baseline.
func (a *Analyzer) Diff(deps domain.DependencyMap, base *domain.Baseline) *domain.Diff {
	diff := &domain.Diff{}
	if base.Empty() {
		return diff
	}

	flat := deps.Flatten()

	for name := range base.Specs {
		if _, ok := flat[name]; !ok {
			diff.Missing = append(diff.Missing, name)
		}
	}
	sort.Strings(diff.Missing)

	for name := range flat {
		if _, ok := base.Specs[name]; !ok {
			diff.New = append(diff.New, name)
		}
	}
	sort.Strings(diff.New)

	for _, name := range deps.Names() {
		frozen, ok := base.Specs[name]
		if !ok {
			continue
		}
		current := flat[name]
		if len(current) == 1 && current[0] == frozen {
			continue
		}

		change := domain.SpecChange{
			Name:       name,
			FrozenSpec: frozen,
			Current:    current,
			Violations: make(map[string][]string),
		}
		for _, spec := range current {
			if spec == frozen {
				continue
			}
			change.Violations[spec] = subtract(deps[name][spec], base.Overridden(name, spec))
		}
		diff.Changed = append(diff.Changed, change)
	}

	return diff
}

// FreezeSpecs selects the specifier to freeze for every requirement: the
// lexicographically smallest, so the choice is deterministic even if callers
// bypass the consistency gate. Requirements frozen unconstrained are
// reported through the returned list.
func (a *Analyzer) FreezeSpecs(deps domain.DependencyMap) (specs map[string]string, unconstrained []string) {
	specs = make(map[string]string, len(deps))
	for _, name := range deps.Names() {
		all := deps.Specs(name)
		specs[name] = all[0]
		if all[0] == "" {
			unconstrained = append(unconstrained, name)
		}
	}
	sort.Strings(unconstrained)
	return specs, unconstrained
}

// subtract returns the members of set that are not in excused, preserving
// set's order.
func subtract(set, excused []string) []string {
	if len(excused) == 0 {
		out := make([]string, len(set))
		copy(out, set)
		return out
	}
	skip := make(map[string]bool, len(excused))
	for _, e := range excused {
		skip[e] = true
	}
	out := []string{}
	for _, s := range set {
		if !skip[s] {
			out = append(out, s)
		}
	}
	return out
}
