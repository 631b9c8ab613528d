// Package wheel extracts declared metadata from built distribution archives.
package wheel

import (
	"archive/zip"
	"bufio"
	"fmt"
	"net/textproto"
	"strings"

	"github.com/arcfield/sdkkit/internal/core/domain"
	"github.com/arcfield/sdkkit/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestParser = (*Parser)(nil)

// Parser reads a wheel archive's embedded metadata block.
type Parser struct {
	hasher ports.Hasher
}

// NewParser creates an archive-mode parser.
func NewParser(hasher ports.Hasher) *Parser {
	return &Parser{hasher: hasher}
}

// Parse opens the archive at path and reads Name, Version and every
// Requires-Dist line from its dist-info METADATA file. Requirement lines are
// stripped of environment markers, whitespace and parentheses.
func (p *Parser) Parse(path string) (*domain.Package, []string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, "failed to open wheel"), "path", path)
	}
	defer r.Close() //nolint:errcheck // Read-only archive

	header, err := readMetadata(&r.Reader)
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, ""), "path", path)
	}

	name := header.Get("Name")
	version := header.Get("Version")
	if name == "" {
		return nil, nil, zerr.With(zerr.New("metadata has no Name"), "path", path)
	}
	if version == "" {
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrVersionMissing, ""), "path", path)
	}

	requires := make([]string, 0, len(header["Requires-Dist"]))
	for _, raw := range header["Requires-Dist"] {
		requires = append(requires, cleanRequirement(raw))
	}

	pkg := &domain.Package{
		Name:    name,
		Version: version,
		Source:  path,
	}
	if p.hasher != nil {
		if sum, err := p.hasher.ComputeFileHash(path); err == nil {
			pkg.Digest = fmt.Sprintf("%016x", sum)
		}
	}
	return pkg, requires, nil
}

// readMetadata locates the *.dist-info/METADATA entry and parses its RFC-822
// header block.
func readMetadata(r *zip.Reader) (textproto.MIMEHeader, error) {
	for _, f := range r.File {
		dir, base, ok := strings.Cut(f.Name, "/")
		if !ok || base != "METADATA" || !strings.HasSuffix(dir, ".dist-info") {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to open METADATA")
		}
		defer rc.Close() //nolint:errcheck // Read-only archive entry

		header, err := textproto.NewReader(bufio.NewReader(rc)).ReadMIMEHeader()
		if err != nil && len(header) == 0 {
			return nil, zerr.Wrap(err, "failed to parse METADATA")
		}
		return header, nil
	}
	return nil, zerr.New("no dist-info METADATA in wheel")
}

// cleanRequirement truncates the environment marker (after ';') and strips
// whitespace and parentheses, so "foo (>=1.0) ; python_version<'3'" becomes
// "foo>=1.0".
func cleanRequirement(raw string) string {
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		raw = raw[:i]
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case ' ', '\t', '(', ')':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
