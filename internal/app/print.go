package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arcfield/sdkkit/internal/core/domain"
)

// User-facing summary output. Mirrors the plain-text layout the tool has
// always produced; structured diagnostics go through the logger instead.

func (a *App) printPackages(report *domain.Report) {
	fmt.Fprintln(a.stdout, "Packages analyzed:")
	for _, name := range report.PackageNames() {
		pkg := report.Packages[name]
		fmt.Fprintf(a.stdout, "%s %s\n", pkg.Name, pkg.Version)
		fmt.Fprintf(a.stdout, "  from %s", pkg.Source)
		if pkg.Digest != "" {
			fmt.Fprintf(a.stdout, " (xxh64 %s)", pkg.Digest)
		}
		fmt.Fprintln(a.stdout)
	}

	if len(report.Failures) > 0 {
		fmt.Fprintln(a.stdout, "\nPackages skipped due to parse failures:")
		for _, res := range report.Failures {
			fmt.Fprintf(a.stdout, "  * %s: %v\n", res.Path, res.Err)
		}
	}
}

func (a *App) printRequirements(report *domain.Report) {
	fmt.Fprintln(a.stdout, "\n\nRequirements discovered:")
	for _, name := range report.Dependencies.Names() {
		fmt.Fprintf(a.stdout, "\n%s\n", name)
		for _, spec := range report.Dependencies.Specs(name) {
			fmt.Fprintln(a.stdout, friendly(spec, "(empty)"))
			for _, pkg := range report.Dependencies[name][spec] {
				fmt.Fprintf(a.stdout, "  * %s\n", pkg)
			}
		}
	}
}

func (a *App) printInconsistencies(report *domain.Report, verbose bool) {
	if len(report.Inconsistent) == 0 {
		fmt.Fprintln(a.stdout, "\n\nAll library dependencies verified, no incompatible versions detected")
		return
	}

	if !verbose {
		fmt.Fprintln(a.stdout, "\n\nIncompatible dependency versions detected in libraries, run with --verbose for details")
		return
	}

	for _, name := range report.Inconsistent {
		specs := report.Dependencies.Specs(name)
		fmt.Fprintf(a.stdout, "\n\nRequirement '%s' has %d unique specifiers:\n", name, len(specs))
		for _, spec := range specs {
			display := friendly(spec, "(none)")
			fmt.Fprintf(a.stdout, "\n  '%s'\n", display)
			fmt.Fprintf(a.stdout, "  %s\n", strings.Repeat("-", len(display)+2))
			pkgs := append([]string(nil), report.Dependencies[name][spec]...)
			sort.Strings(pkgs)
			for _, pkg := range pkgs {
				fmt.Fprintf(a.stdout, "    * %s\n", pkg)
			}
		}
	}
}

func (a *App) printDiff(report *domain.Report, verbose bool) {
	diff, base := report.Diff, report.Baseline
	if diff == nil {
		return
	}

	if verbose && len(base.Overrides) > 0 {
		fmt.Fprintln(a.stdout, "\nThe following requirement overrides are in place:")
		for _, name := range base.Overrides.Names() {
			for _, spec := range base.Overrides.Specs(name) {
				pkgs := append([]string(nil), base.Overrides[name][spec]...)
				sort.Strings(pkgs)
				fmt.Fprintf(a.stdout, "  * %s%s is allowed for %s\n", name, spec, strings.Join(pkgs, ", "))
			}
		}
	}

	if verbose && len(diff.Missing) > 0 {
		fmt.Fprintln(a.stdout, "\nThe following requirements are frozen but do not exist in any current library:")
		for _, name := range diff.Missing {
			fmt.Fprintf(a.stdout, "  * %s%s\n", name, base.Specs[name])
		}
	}

	if verbose {
		for _, name := range diff.New {
			for _, spec := range report.Dependencies.Specs(name) {
				fmt.Fprintf(a.stdout, "\nRequirement '%s%s' is declared in the following libraries but has not been frozen:\n", name, spec)
				for _, pkg := range report.Dependencies[name][spec] {
					fmt.Fprintf(a.stdout, "  * %s\n", pkg)
				}
			}
		}

		for _, change := range diff.Changed {
			for _, spec := range change.Current {
				pkgs := change.Violations[spec]
				if len(pkgs) == 0 {
					continue
				}
				fmt.Fprintf(a.stdout, "\nThe following libraries declare requirement '%s%s' which does not match the frozen requirement '%s%s':\n",
					change.Name, spec, change.Name, change.FrozenSpec)
				for _, pkg := range pkgs {
					fmt.Fprintf(a.stdout, "  * %s\n", pkg)
				}
			}
		}
	}
}

func friendly(spec, placeholder string) string {
	if spec == "" {
		return placeholder
	}
	return spec
}
