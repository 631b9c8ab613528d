// Package baseline implements the frozen requirements file store.
package baseline

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arcfield/sdkkit/internal/core/domain"
	"github.com/arcfield/sdkkit/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BaselineStore = (*Store)(nil)

// overridePrefix marks the comment form that declares a deviation permit:
//
//	#override <package-name> <requirement+specifier>
const overridePrefix = "#override"

// Store reads and rewrites the flat-text frozen requirements file. Each line
// is a requirement name immediately followed by its specifier; '#' lines are
// comments except the #override form.
type Store struct {
	logger ports.Logger
}

// NewStore creates a baseline store.
func NewStore(logger ports.Logger) *Store {
	return &Store{logger: logger}
}

// Load reads the baseline at path. A missing file yields an empty baseline
// and absent=true; the caller decides whether that skips validation.
func (s *Store) Load(path string) (*domain.Baseline, bool, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewBaseline(), true, nil
		}
		return nil, false, zerr.Wrap(err, "failed to open baseline file")
	}
	defer f.Close() //nolint:errcheck // Read-only file

	b := domain.NewBaseline()
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}

		switch {
		case strings.HasPrefix(line, overridePrefix+" "):
			if err := s.recordOverride(b, line); err != nil {
				return nil, false, err
			}
		case strings.HasPrefix(line, "#"), strings.TrimSpace(line) == "":
			// comment
		default:
			req, err := domain.ParseRequirement(line)
			if err != nil {
				return nil, false, zerr.With(zerr.Wrap(err, "bad baseline line"), "line", line)
			}
			if _, dup := b.Specs[req.Name]; dup && s.logger != nil {
				s.logger.Warn(fmt.Sprintf("duplicate baseline entry for %s, keeping the last", req.Name))
			}
			b.Specs[req.Name] = req.Spec
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, false, zerr.Wrap(err, "failed to read baseline file")
	}
	return b, false, nil
}

func (s *Store) recordOverride(b *domain.Baseline, line string) error {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 3 {
		return zerr.With(zerr.New("malformed override line"), "line", line)
	}
	pkg := fields[1]
	req, err := domain.ParseRequirement(strings.TrimSpace(fields[2]))
	if err != nil {
		return zerr.With(zerr.Wrap(err, "bad override requirement"), "line", line)
	}
	b.Overrides.Record(req.Name, req.Spec, pkg)
	return nil
}

// Save rewrites the baseline file wholesale: one "name+specifier" line per
// requirement, names sorted. Comment and override lines are not preserved.
func (s *Store) Save(path string, specs map[string]string) error {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(specs[name])
		b.WriteByte('\n')
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return zerr.Wrap(err, "failed to create baseline directory")
		}
	}
	//nolint:gosec // Path comes from configuration
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return zerr.Wrap(err, "failed to write baseline file")
	}
	return nil
}
