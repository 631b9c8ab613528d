// Package manifest extracts declared metadata from source-tree build
// manifests without executing them.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arcfield/sdkkit/internal/core/domain"
	"github.com/arcfield/sdkkit/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestParser = (*Parser)(nil)

// Parser reads a package directory's build manifest and recovers the
// declared version and requirement strings from the literal arguments of
// its setup call.
type Parser struct {
	// Manifest is the filename looked for inside the package directory.
	Manifest string

	hasher ports.Hasher
}

// NewParser creates a source-mode parser.
func NewParser(manifest string, hasher ports.Hasher) *Parser {
	return &Parser{Manifest: manifest, hasher: hasher}
}

// Parse reads dir's manifest. The package name is the directory basename;
// relative paths inside the manifest never matter because nothing is
// evaluated.
func (p *Parser) Parse(dir string) (*domain.Package, []string, error) {
	path := filepath.Join(dir, p.Manifest)

	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the locator
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}

	kwargs, err := extractSetupArgs(string(data))
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, ""), "path", path)
	}

	version, ok := kwargs["version"]
	if !ok || version.kind != kindString || version.str == "" {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrVersionMissing, ""), "path", path)
	}

	var requires []string
	if install, ok := kwargs["install_requires"]; ok {
		if install.kind != kindList {
			return nil, nil, zerr.With(zerr.New("install_requires is not a literal list"), "path", path)
		}
		requires = append(requires, install.strings()...)
	}
	if extras, ok := kwargs["extras_require"]; ok {
		if extras.kind != kindDict {
			return nil, nil, zerr.With(zerr.New("extras_require is not a literal dict"), "path", path)
		}
		for _, extra := range sortedKeys(extras.dict) {
			requires = append(requires, extras.dict[extra].strings()...)
		}
	}

	pkg := &domain.Package{
		Name:    filepath.Base(dir),
		Version: version.str,
		Source:  dir,
	}
	if p.hasher != nil {
		if sum, err := p.hasher.ComputeFileHash(path); err == nil {
			pkg.Digest = fmt.Sprintf("%016x", sum)
		}
	}
	return pkg, requires, nil
}

// extractSetupArgs walks the top-level statements of the manifest source. It
// collects NAME = <literal> assignments for constant folding and stops at
// the first top-level setup(...) call, whose foldable keyword arguments it
// returns.
func extractSetupArgs(src string) (map[string]value, error) {
	s := newScanner(src)

	for !s.eof() {
		// Only column-zero statements are top level; anything indented
		// belongs to a def/class/if body and is skipped wholesale.
		if c := s.peek(); c == ' ' || c == '\t' || c == '\n' || c == '#' || c == '\r' || !isIdentStart(c) {
			s.skipStatement()
			continue
		}

		mark := s.pos
		name := s.ident()
		s.skipSpace(false)

		if name == "setup" && s.peek() == '(' {
			return s.parseCallKwargs(), nil
		}

		if s.peek() == '=' && !isDoubleEq(s.src, s.pos) {
			s.pos++
			v := s.parseValue(false)
			if v.kind != kindOpaque {
				s.consts[name] = v
			}
			s.skipStatement()
			continue
		}

		s.pos = mark
		s.skipStatement()
	}

	return nil, domain.ErrNoSetupCall
}

// isDoubleEq reports whether the '=' at pos opens a '==' comparison.
func isDoubleEq(src string, pos int) bool {
	return pos+1 < len(src) && src[pos+1] == '='
}

// parseCallKwargs consumes a call's argument list, returning the keyword
// arguments whose values folded to literals. Positional arguments and
// non-literal values are consumed and dropped.
func (s *scanner) parseCallKwargs() map[string]value {
	kwargs := make(map[string]value)
	s.pos++ // '('

	for {
		s.skipSpace(true)
		if s.eof() {
			return kwargs
		}
		if s.peek() == ')' {
			s.pos++
			return kwargs
		}
		if s.peek() == '*' {
			// *args / **kwargs forwarding
			s.skipExpr(true)
		} else if isIdentStart(s.peek()) {
			mark := s.pos
			key := s.ident()
			s.skipSpace(true)
			if s.peek() == '=' && !isDoubleEq(s.src, s.pos) {
				s.pos++
				v := s.parseValue(true)
				if v.kind != kindOpaque {
					kwargs[key] = v
				}
			} else {
				s.pos = mark
				s.skipExpr(true)
			}
		} else {
			s.skipExpr(true)
		}

		s.skipSpace(true)
		if s.peek() == ',' {
			s.pos++
		}
	}
}

func sortedKeys(m map[string]value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
