package domain

import "sort"

// Baseline is the frozen requirement set loaded from the shared requirements
// file, plus the manually declared overrides that permit specific packages
// to deviate from it.
type Baseline struct {
	// Specs maps a requirement name to its single frozen specifier.
	Specs map[string]string

	// Overrides maps requirement name -> specifier -> packages allowed to
	// declare that specifier even though it differs from the frozen one.
	Overrides DependencyMap
}

// NewBaseline returns an empty baseline.
func NewBaseline() *Baseline {
	return &Baseline{
		Specs:     make(map[string]string),
		Overrides: make(DependencyMap),
	}
}

// Empty reports whether the baseline holds no frozen requirements.
func (b *Baseline) Empty() bool {
	return b == nil || len(b.Specs) == 0
}

// Names returns the frozen requirement names in sorted order.
func (b *Baseline) Names() []string {
	names := make([]string, 0, len(b.Specs))
	for name := range b.Specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Overridden returns the packages permitted to declare spec for name.
func (b *Baseline) Overridden(name, spec string) []string {
	return b.Overrides[name][spec]
}
