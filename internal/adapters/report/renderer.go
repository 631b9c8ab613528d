// Package report renders an analysis as a standalone HTML document.
package report

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/arcfield/sdkkit/internal/core/domain"
	"github.com/arcfield/sdkkit/internal/core/ports"
	"go.trai.ch/zerr"
)

//go:embed report.html.tmpl
var reportTemplate string

var _ ports.Renderer = (*HTMLRenderer)(nil)

// HTMLRenderer writes the dependency report as HTML.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"friendly": friendlySpec,
		"contains": func(names []string, name string) bool {
			for _, n := range names {
				if n == name {
					return true
				}
			}
			return false
		},
	}).Parse(reportTemplate)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to parse report template")
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render writes the report to w.
func (r *HTMLRenderer) Render(w io.Writer, report *domain.Report) error {
	if err := r.tmpl.Execute(w, report); err != nil {
		return zerr.Wrap(err, "failed to render report")
	}
	return nil
}

func friendlySpec(spec string) string {
	if spec == "" {
		return "(none)"
	}
	return spec
}
