package site

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-pagegen/pkg/assemble"
	"github.com/goliatone/go-pagegen/pkg/content"
	rendertemplate "github.com/goliatone/go-pagegen/pkg/render/template"
)

// Matcher selects records with a predicate expression.
type Matcher interface {
	Match(expression string, record any, index int) (bool, error)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger attaches a logger for per-section debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer turns section specs into rendered sections.
type Renderer struct {
	partials rendertemplate.TemplateRenderer
	filters  Matcher
	logger   *zap.Logger
}

// NewRenderer builds a section renderer. partials renders list items and
// filters evaluates where predicates.
func NewRenderer(partials rendertemplate.TemplateRenderer, filters Matcher, options ...Option) (*Renderer, error) {
	if partials == nil {
		return nil, errors.New("site: partial renderer is required")
	}
	if filters == nil {
		return nil, errors.New("site: record matcher is required")
	}
	r := &Renderer{
		partials: partials,
		filters:  filters,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r, nil
}

// RenderSection renders spec against doc using tmpl. The boolean result is
// false when the section was skipped because its When path has no content.
func (r *Renderer) RenderSection(doc content.Document, spec SectionSpec, tmpl assemble.Template) (assemble.Section, bool, error) {
	if spec.When != "" && !doc.Present(spec.When) {
		r.logger.Debug("section skipped", zap.String("section", spec.Name), zap.String("when", spec.When))
		return assemble.Section{}, false, nil
	}

	mapping, err := r.ResolveFields(doc, spec.Fields, spec.Lenient)
	if err != nil {
		return assemble.Section{}, false, fmt.Errorf("site: section %q: %w", spec.Name, err)
	}

	for _, placeholder := range sortedKeys(spec.Lists) {
		markup, err := r.renderList(doc, spec.Lists[placeholder], spec.Lenient)
		if err != nil {
			return assemble.Section{}, false, fmt.Errorf("site: section %q list %s: %w", spec.Name, placeholder, err)
		}
		mapping[placeholder] = markup
	}

	html := tmpl.Substitute(mapping)
	for _, rewrite := range spec.Rewrites {
		html = strings.ReplaceAll(html, rewrite.From, rewrite.To)
	}

	r.logger.Debug("section rendered",
		zap.String("section", spec.Name),
		zap.String("template", tmpl.Name),
		zap.Int("bytes", len(html)),
	)
	return assemble.Section{Name: spec.Name, HTML: html}, true, nil
}

// ResolveFields resolves every binding to a string. With lenient set,
// missing fields without a default resolve to "".
func (r *Renderer) ResolveFields(doc content.Document, fields map[string]Binding, lenient bool) (map[string]string, error) {
	mapping := make(map[string]string, len(fields))
	for _, placeholder := range sortedKeys(fields) {
		binding := fields[placeholder]
		value, err := r.resolve(doc, binding)
		if err != nil {
			var missing *content.MissingFieldError
			if !errors.As(err, &missing) {
				return nil, fmt.Errorf("field %s: %w", placeholder, err)
			}
			var unmatched *noMatchError
			switch {
			case binding.Unmatched != nil && errors.As(err, &unmatched):
				value = *binding.Unmatched
			case binding.Default != nil:
				value = *binding.Default
			case lenient:
				value = ""
			default:
				return nil, err
			}
		}
		mapping[placeholder] = value
	}
	return mapping, nil
}

func (r *Renderer) resolve(doc content.Document, binding Binding) (string, error) {
	if binding.Where == "" {
		return doc.String(binding.Path)
	}

	records, err := doc.List(binding.Path)
	if err != nil {
		return "", err
	}
	for i, record := range records {
		ok, err := r.filters.Match(binding.Where, record, i)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		if binding.Field == "" {
			return content.Stringify(record), nil
		}
		missing := &content.MissingFieldError{Path: missingRecordPath(binding)}
		fields, isMap := record.(map[string]any)
		if !isMap {
			return "", missing
		}
		value, err := content.New(doc.Source(), fields).String(binding.Field)
		if err != nil {
			if errors.As(err, new(*content.MissingFieldError)) {
				return "", missing
			}
			return "", err
		}
		return value, nil
	}
	return "", &noMatchError{missing: &content.MissingFieldError{Path: missingRecordPath(binding)}}
}

// noMatchError reports a where binding that selected no record.
type noMatchError struct {
	missing *content.MissingFieldError
}

func (e *noMatchError) Error() string { return e.missing.Error() }
func (e *noMatchError) Unwrap() error { return e.missing }

func (r *Renderer) renderList(doc content.Document, list ListBinding, lenient bool) (string, error) {
	records, err := doc.List(list.Path)
	if err != nil {
		var missing *content.MissingFieldError
		if lenient && errors.As(err, &missing) {
			return "", nil
		}
		return "", err
	}

	selected := make([]any, 0, len(records))
	for i, record := range records {
		ok, err := r.filters.Match(list.Where, record, i)
		if err != nil {
			return "", err
		}
		if ok {
			selected = append(selected, record)
		}
	}

	return assemble.RenderList(selected, func(i int, record any) (string, error) {
		return r.partials.RenderTemplate(list.Partial, map[string]any{
			"item":   record,
			"index":  i,
			"number": i + 1,
			"first":  i == 0,
			"last":   i == len(selected)-1,
		})
	}, list.Separator)
}

func missingRecordPath(binding Binding) string {
	path := binding.Path + "[" + binding.Where + "]"
	if binding.Field != "" {
		path += "." + binding.Field
	}
	return path
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
