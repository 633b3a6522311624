package template

import (
	"io"
)

// TemplateRenderer is the seam list partials render through. Data is
// converted to a template context; rendered output is returned and, when
// writers are passed, also written to each of them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
