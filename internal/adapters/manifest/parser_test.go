package manifest_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/arcfield/sdkkit/internal/adapters/fs"
	"github.com/arcfield/sdkkit/internal/adapters/manifest"
	"github.com/arcfield/sdkkit/internal/core/domain"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create package dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "setup.py"), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return dir
}

func TestParse_Basic(t *testing.T) {
	dir := writeManifest(t, "azure-foo", `
from setuptools import setup, find_packages

setup(
    name='azure-foo',
    version='1.2.3',
    packages=find_packages(),
    install_requires=[
        'msrest>=0.5.0',
        'requests >= 2.0, < 3.0',
    ],
)
`)

	p := manifest.NewParser("setup.py", fs.NewHasher())
	pkg, requires, err := p.Parse(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pkg.Name != "azure-foo" {
		t.Errorf("Name = %q", pkg.Name)
	}
	if pkg.Version != "1.2.3" {
		t.Errorf("Version = %q", pkg.Version)
	}
	if pkg.Digest == "" {
		t.Error("expected a content digest")
	}
	want := []string{"msrest>=0.5.0", "requests >= 2.0, < 3.0"}
	if !reflect.DeepEqual(requires, want) {
		t.Errorf("requires = %v, want %v", requires, want)
	}
}

func TestParse_ConstantFolding(t *testing.T) {
	dir := writeManifest(t, "azure-bar", `
PACKAGE_NAME = "azure-bar"
VERSION = "2.0.0"
REQUIRES = ["six>=1.10"]

setup(
    name=PACKAGE_NAME,
    version=VERSION,
    install_requires=REQUIRES,
)
`)

	p := manifest.NewParser("setup.py", nil)
	pkg, requires, err := p.Parse(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg.Version != "2.0.0" {
		t.Errorf("Version = %q", pkg.Version)
	}
	if !reflect.DeepEqual(requires, []string{"six>=1.10"}) {
		t.Errorf("requires = %v", requires)
	}
}

func TestParse_StringConcatenation(t *testing.T) {
	dir := writeManifest(t, "azure-baz", `
setup(
    version='1.0' + '.1',
    install_requires=[
        'azure-common'
        '~=1.1',
        u'msrestazure>=0.4.32,<2.0.0',
    ],
)
`)

	p := manifest.NewParser("setup.py", nil)
	pkg, requires, err := p.Parse(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg.Version != "1.0.1" {
		t.Errorf("Version = %q", pkg.Version)
	}
	want := []string{"azure-common~=1.1", "msrestazure>=0.4.32,<2.0.0"}
	if !reflect.DeepEqual(requires, want) {
		t.Errorf("requires = %v, want %v", requires, want)
	}
}

func TestParse_ExtrasRequire(t *testing.T) {
	dir := writeManifest(t, "azure-qux", `
setup(
    version='0.1.0',
    install_requires=['requests>=2.0'],
    extras_require={
        ':python_version<"3.0"': ['futures'],
        'security': ['cryptography>=2.1.4', 'pyopenssl>=17.5.0'],
    },
)
`)

	p := manifest.NewParser("setup.py", nil)
	_, requires, err := p.Parse(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// install_requires first, then extras in sorted key order.
	want := []string{"requests>=2.0", "futures", "cryptography>=2.1.4", "pyopenssl>=17.5.0"}
	if !reflect.DeepEqual(requires, want) {
		t.Errorf("requires = %v, want %v", requires, want)
	}
}

func TestParse_TupleAndTripleQuotes(t *testing.T) {
	dir := writeManifest(t, "azure-quux", `
DESCRIPTION = """multi
line"""

setup(
    version=('3.0.0'),
    install_requires=('msrest>=0.5.0',),
    long_description=DESCRIPTION,
)
`)

	p := manifest.NewParser("setup.py", nil)
	pkg, requires, err := p.Parse(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A parenthesized string without a trailing comma is a string, not a
	// one-element tuple.
	if pkg.Version != "3.0.0" {
		t.Errorf("Version = %q", pkg.Version)
	}
	if !reflect.DeepEqual(requires, []string{"msrest>=0.5.0"}) {
		t.Errorf("requires = %v", requires)
	}
}

func TestParse_SkipsIndentedAndHelperCode(t *testing.T) {
	dir := writeManifest(t, "azure-corge", `
import re
import os.path

with open('README.md') as f:
    readme = f.read()

def read_version():
    return re.search(r'\d+', 'x')

if os.path.exists('HISTORY.rst'):
    pass

setup(
    version='4.0.0',
    cmdclass=build_command,
    install_requires=[],
)
`)

	p := manifest.NewParser("setup.py", nil)
	pkg, requires, err := p.Parse(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkg.Version != "4.0.0" {
		t.Errorf("Version = %q", pkg.Version)
	}
	if len(requires) != 0 {
		t.Errorf("requires = %v, want empty", requires)
	}
}

func TestParse_VersionMissing(t *testing.T) {
	cases := map[string]string{
		"computed": `
version = re.search(r'(\d+\.\d+\.\d+)', content).group(1)

setup(
    name='azure-grault',
    version=version,
)
`,
		"absent": `
setup(name='azure-grault')
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := writeManifest(t, "azure-grault", content)
			p := manifest.NewParser("setup.py", nil)
			_, _, err := p.Parse(dir)
			if !errors.Is(err, domain.ErrVersionMissing) {
				t.Errorf("error = %v, want ErrVersionMissing", err)
			}
		})
	}
}

func TestParse_NoSetupCall(t *testing.T) {
	dir := writeManifest(t, "azure-garply", `
print("this manifest never calls the build declaration")
`)

	p := manifest.NewParser("setup.py", nil)
	_, _, err := p.Parse(dir)
	if !errors.Is(err, domain.ErrNoSetupCall) {
		t.Errorf("error = %v, want ErrNoSetupCall", err)
	}
}

func TestParse_MissingManifest(t *testing.T) {
	p := manifest.NewParser("setup.py", nil)
	_, _, err := p.Parse(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
