package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-pagegen/pkg/assemble"
)

// TemplateNotFoundError reports a template that could not be read. It wraps
// the underlying filesystem error so errors.Is(err, fs.ErrNotExist) holds for
// missing files.
type TemplateNotFoundError struct {
	Name string
	Err  error
}

func (e *TemplateNotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("templates: template %q not found", e.Name)
	}
	return fmt.Sprintf("templates: template %q not found: %v", e.Name, e.Err)
}

func (e *TemplateNotFoundError) Unwrap() error {
	return e.Err
}

// Set holds templates read up front so rendering never touches storage.
type Set struct {
	names     []string
	templates map[string]assemble.Template
}

// Load reads every named template from fsys. The first template that cannot
// be read aborts the load with a *TemplateNotFoundError. Names repeated in
// the list are read once.
func Load(fsys fs.FS, names ...string) (*Set, error) {
	if fsys == nil {
		return nil, errors.New("templates: filesystem is required")
	}

	set := &Set{templates: make(map[string]assemble.Template, len(names))}
	for _, raw := range names {
		name := cleanName(raw)
		if name == "" {
			return nil, errors.New("templates: template name is required")
		}
		if _, ok := set.templates[name]; ok {
			continue
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, &TemplateNotFoundError{Name: name, Err: err}
		}
		set.templates[name] = assemble.Template{Name: name, Body: string(data)}
		set.names = append(set.names, name)
	}
	return set, nil
}

// Get returns a loaded template.
func (s *Set) Get(name string) (assemble.Template, error) {
	if s == nil {
		return assemble.Template{}, &TemplateNotFoundError{Name: name}
	}
	clean := cleanName(name)
	tmpl, ok := s.templates[clean]
	if !ok {
		return assemble.Template{}, &TemplateNotFoundError{Name: clean, Err: fs.ErrNotExist}
	}
	return tmpl, nil
}

// Names returns the loaded template names in load order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Len reports how many templates the set holds.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

func cleanName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return path.Clean(strings.TrimPrefix(trimmed, "/"))
}
