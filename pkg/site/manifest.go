package site

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pagegen/pkg/assemble"
)

// Manifest declares how a page is put together: the base template, the
// page-wide values substituted into it, and the sections in page order.
type Manifest struct {
	Name               string             `yaml:"name"`
	Base               string             `yaml:"base"`
	ContentPlaceholder string             `yaml:"content_placeholder"`
	Vars               map[string]Binding `yaml:"vars"`
	Wrapper            string             `yaml:"wrapper"`
	Separator          string             `yaml:"separator"`
	Sections           []SectionSpec      `yaml:"sections"`
}

// SectionSpec describes one section of the page.
type SectionSpec struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`

	// When names a content path; the section is skipped if it is absent or
	// empty.
	When string `yaml:"when"`

	// Lenient renders missing fields and lists as empty strings instead of
	// failing.
	Lenient bool `yaml:"lenient"`

	Fields   map[string]Binding     `yaml:"fields"`
	Lists    map[string]ListBinding `yaml:"lists"`
	Rewrites []Rewrite              `yaml:"rewrites"`
}

// Binding resolves one placeholder to a scalar content value.
type Binding struct {
	// Path is a dotted content path.
	Path string `yaml:"path"`

	// Where, when set, treats Path as a list and picks the first record
	// matching this CEL predicate.
	Where string `yaml:"where"`

	// Field reads a dotted path inside the record picked by Where.
	Field string `yaml:"field"`

	// Default replaces a missing value. A nil Default makes the field
	// required.
	Default *string `yaml:"default"`

	// Unmatched replaces the value when Where selects no record, taking
	// precedence over Default in that case.
	Unmatched *string `yaml:"unmatched"`
}

// UnmarshalYAML accepts the `placeholder: content.path` shorthand.
func (b *Binding) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		b.Path = strings.TrimSpace(node.Value)
		return nil
	}
	type plain Binding
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*b = Binding(decoded)
	return nil
}

// ListBinding renders a content list into one placeholder.
type ListBinding struct {
	Path      string `yaml:"path"`
	Where     string `yaml:"where"`
	Partial   string `yaml:"partial"`
	Separator string `yaml:"separator"`
}

// Rewrite is a literal replacement applied to a section after substitution.
type Rewrite struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ParseManifest decodes a YAML (or JSON) manifest.
func ParseManifest(data []byte, source string) (Manifest, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Manifest{}, fmt.Errorf("site: manifest %s is empty", source)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("site: parse manifest %s: %w", source, err)
	}
	if manifest.ContentPlaceholder == "" {
		manifest.ContentPlaceholder = assemble.DefaultContentPlaceholder
	}
	return manifest, nil
}

// Validator compiles record filters so a bad expression fails before
// rendering starts.
type Validator interface {
	Validate(expression string) error
}

// Validate checks the manifest is complete and returns the section catalog
// in declared order.
func (m Manifest) Validate(filters Validator) (*Catalog, error) {
	var errs []error
	if strings.TrimSpace(m.Base) == "" {
		errs = append(errs, errors.New("base template is required"))
	}
	if len(m.Sections) == 0 {
		errs = append(errs, errors.New("at least one section is required"))
	}
	for name, binding := range m.Vars {
		errs = append(errs, validateBinding("vars."+name, binding, filters)...)
	}

	catalog := NewCatalog()
	for i, spec := range m.Sections {
		label := fmt.Sprintf("sections[%d]", i)
		if spec.Name != "" {
			label = fmt.Sprintf("section %q", spec.Name)
		}
		if err := catalog.Register(spec); err != nil {
			errs = append(errs, err)
		}
		if strings.TrimSpace(spec.Template) == "" {
			errs = append(errs, fmt.Errorf("%s: template is required", label))
		}
		for placeholder, binding := range spec.Fields {
			errs = append(errs, validateBinding(label+" field "+placeholder, binding, filters)...)
		}
		for placeholder, list := range spec.Lists {
			if strings.TrimSpace(list.Path) == "" {
				errs = append(errs, fmt.Errorf("%s list %s: path is required", label, placeholder))
			}
			if strings.TrimSpace(list.Partial) == "" {
				errs = append(errs, fmt.Errorf("%s list %s: partial is required", label, placeholder))
			}
			if filters != nil {
				if err := filters.Validate(list.Where); err != nil {
					errs = append(errs, fmt.Errorf("%s list %s: %w", label, placeholder, err))
				}
			}
		}
		for j, rewrite := range spec.Rewrites {
			if rewrite.From == "" {
				errs = append(errs, fmt.Errorf("%s rewrite %d: from is required", label, j))
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("site: invalid manifest %q: %w", m.Name, err)
	}
	return catalog, nil
}

func validateBinding(label string, binding Binding, filters Validator) []error {
	var errs []error
	if strings.TrimSpace(binding.Path) == "" {
		errs = append(errs, fmt.Errorf("%s: path is required", label))
	}
	if binding.Field != "" && binding.Where == "" {
		errs = append(errs, fmt.Errorf("%s: field requires where", label))
	}
	if binding.Unmatched != nil && binding.Where == "" {
		errs = append(errs, fmt.Errorf("%s: unmatched requires where", label))
	}
	if filters != nil {
		if err := filters.Validate(binding.Where); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
		}
	}
	return errs
}

// TemplateNames lists the base template followed by every section template
// in declared order, without duplicates.
func (m Manifest) TemplateNames() []string {
	names := make([]string, 0, len(m.Sections)+1)
	seen := make(map[string]struct{}, len(m.Sections)+1)
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	add(m.Base)
	for _, spec := range m.Sections {
		add(spec.Template)
	}
	return names
}

// Partials lists the partial names referenced by list bindings in declared
// section order, placeholders within a section taken alphabetically.
func (m Manifest) Partials() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, spec := range m.Sections {
		for _, placeholder := range sortedKeys(spec.Lists) {
			partial := strings.TrimSpace(spec.Lists[placeholder].Partial)
			if partial == "" {
				continue
			}
			if _, ok := seen[partial]; ok {
				continue
			}
			seen[partial] = struct{}{}
			names = append(names, partial)
		}
	}
	return names
}
