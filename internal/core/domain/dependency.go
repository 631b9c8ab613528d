package domain

import "sort"

// DependencyMap maps a requirement name to the version specifiers it was
// declared with, and each specifier to the ordered list of packages that
// declared it. A name with more than one specifier key is inconsistent.
//
// Record appends without deduplicating across calls; callers register each
// (package, requirement) pair exactly once per scan.
type DependencyMap map[string]map[string][]string

// Record inserts pkg under deps[name][spec], creating intermediate
// containers as needed.
func (d DependencyMap) Record(name, spec, pkg string) {
	specs, ok := d[name]
	if !ok {
		specs = make(map[string][]string)
		d[name] = specs
	}
	specs[spec] = append(specs[spec], pkg)
}

// Names returns all requirement names in sorted order.
func (d DependencyMap) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Specs returns the sorted specifier set declared for name.
func (d DependencyMap) Specs(name string) []string {
	specs := make([]string, 0, len(d[name]))
	for spec := range d[name] {
		specs = append(specs, spec)
	}
	sort.Strings(specs)
	return specs
}

// Inconsistent returns the sorted names declared with more than one distinct
// specifier.
func (d DependencyMap) Inconsistent() []string {
	var names []string
	for name, specs := range d {
		if len(specs) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Flatten reduces the map to name -> sorted specifier list, the shape the
// baseline diff compares against.
func (d DependencyMap) Flatten() map[string][]string {
	flat := make(map[string][]string, len(d))
	for name := range d {
		flat[name] = d.Specs(name)
	}
	return flat
}
