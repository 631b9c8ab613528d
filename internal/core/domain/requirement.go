package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Requirement is a declared dependency on another package: a canonical name
// plus the version-specifier portion of the declaration. An empty Spec means
// the requirement is unconstrained.
type Requirement struct {
	Name string
	Spec string
}

// String renders the requirement the way it appears in the baseline file:
// the name immediately followed by the specifier, with no separator.
func (r Requirement) String() string {
	return r.Name + r.Spec
}

// ParseRequirement normalizes a raw requirement string such as
// "Foo.Bar[extra] >=1.0, <2.0" into its canonical (name, specifier) pair.
//
// The name is the leading run of letters, digits, dots, hyphens and
// underscores, canonicalized by lowercasing and collapsing separator runs to
// a single hyphen. An optional bracketed extras list after the name is
// consumed and discarded. The specifier is everything after the name with
// whitespace removed; it is rebuilt from the remainder rather than by
// deleting the name substring, so a name that also occurs inside the
// specifier cannot corrupt it.
func ParseRequirement(raw string) (Requirement, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Requirement{}, zerr.With(zerr.Wrap(ErrRequirementUnparseable, ""), "raw", raw)
	}

	end := 0
	for end < len(s) && isNameByte(s[end]) {
		end++
	}
	if end == 0 {
		return Requirement{}, zerr.With(zerr.Wrap(ErrRequirementUnparseable, ""), "raw", raw)
	}

	rest := strings.TrimLeft(s[end:], " \t")

	// Extras ("foo[security,tests]") select optional features of the target
	// package; they do not affect the version constraint.
	if strings.HasPrefix(rest, "[") {
		close := strings.IndexByte(rest, ']')
		if close < 0 {
			return Requirement{}, zerr.With(zerr.Wrap(ErrRequirementUnparseable, ""), "raw", raw)
		}
		rest = rest[close+1:]
	}

	spec := stripSpace(rest)
	if spec != "" && !isSpecStart(spec[0]) {
		return Requirement{}, zerr.With(zerr.Wrap(ErrRequirementUnparseable, ""), "raw", raw)
	}

	return Requirement{Name: CanonicalName(s[:end]), Spec: spec}, nil
}

// CanonicalName lowercases a package name and collapses every run of the
// separator characters '-', '_' and '.' into a single hyphen.
func CanonicalName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r == '-' || r == '_' || r == '.' {
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingSep = false
		b.WriteRune(r)
	}
	return b.String()
}

func isNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.':
		return true
	}
	return false
}

// isSpecStart reports whether c can open a version specifier.
func isSpecStart(c byte) bool {
	switch c {
	case '<', '>', '=', '!', '~', '(':
		return true
	}
	return false
}

func stripSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
