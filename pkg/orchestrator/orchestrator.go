package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-pagegen/internal/loader"
	"github.com/goliatone/go-pagegen/pkg/assemble"
	"github.com/goliatone/go-pagegen/pkg/content"
	"github.com/goliatone/go-pagegen/pkg/expr"
	"github.com/goliatone/go-pagegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-pagegen/pkg/site"
	"github.com/goliatone/go-pagegen/pkg/source"
	"github.com/goliatone/go-pagegen/pkg/templates"
)

const (
	defaultHTTPTimeout = 30 * time.Second

	// pageGlobal is the partial variable holding the resolved page vars.
	pageGlobal = "page"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects the loader used for content and manifest sources.
func WithLoader(loader source.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithManifest replaces the embedded page manifest.
func WithManifest(manifest site.Manifest) Option {
	return func(o *Orchestrator) {
		o.manifest = &manifest
		o.manifestSource = nil
	}
}

// WithManifestSource reads the manifest through the loader on each Generate
// call instead of using the embedded one.
func WithManifestSource(src source.Source) Option {
	return func(o *Orchestrator) {
		o.manifestSource = src
		o.manifest = nil
	}
}

// WithTemplatesFS supplies the base and section templates. Without it the
// embedded theme is used.
func WithTemplatesFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.templatesFS = fsys
	}
}

// WithPartialsFS layers list partials over the embedded ones. A partial in
// fsys wins over an embedded partial of the same name.
func WithPartialsFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.partialsFS = fsys
	}
}

// WithPartialsDir layers list partials from a directory on disk over the
// embedded ones and over any WithPartialsFS bundle.
func WithPartialsDir(dir string) Option {
	return func(o *Orchestrator) {
		o.partialsDir = dir
	}
}

// WithGlobals exposes values to every list partial. The resolved page vars
// are always available to partials as page.
func WithGlobals(globals map[string]any) Option {
	return func(o *Orchestrator) {
		o.globals = globals
	}
}

// WithSanitizer cleans every content string before rendering. Passing nil
// selects content.MarkupPolicy.
func WithSanitizer(sanitizer content.Sanitizer) Option {
	return func(o *Orchestrator) {
		if sanitizer == nil {
			sanitizer = content.MarkupPolicy()
		}
		o.sanitizer = sanitizer
	}
}

// WithLogger attaches a zap logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator runs the page pipeline: manifest, templates, content,
// sections, assembly. The zero configuration renders the embedded theme.
type Orchestrator struct {
	loader         source.Loader
	manifest       *site.Manifest
	manifestSource source.Source
	templatesFS    fs.FS
	partialsFS     fs.FS
	partialsDir    string
	globals        map[string]any
	sanitizer      content.Sanitizer
	logger         *zap.Logger

	filters       *expr.Evaluator
	renderer      *site.Renderer
	partials      *gotemplate.Engine
	initialiseErr error
}

// New constructs an Orchestrator applying any provided options. Construction
// errors are reported by Generate.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one page to render.
type Request struct {
	// Content identifies where the content document lives. Optional when
	// Document is supplied.
	Content source.Source

	// Document bypasses the loader when the caller already holds parsed
	// content.
	Document *content.Document
}

// Generate renders the page for req. Every template and partial is resolved
// before content is read, so a missing template fails without touching the
// content source.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if req.Content == nil && req.Document == nil {
		return nil, errors.New("orchestrator: content source or document is required")
	}

	manifest, err := o.resolveManifest(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := manifest.Validate(o.filters)
	if err != nil {
		return nil, err
	}

	set, err := templates.Load(o.templatesFS, manifest.TemplateNames()...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load templates: %w", err)
	}
	for _, partial := range manifest.Partials() {
		if !o.partials.HasTemplate(partial) {
			return nil, fmt.Errorf("orchestrator: load partials: %w", &templates.TemplateNotFoundError{
				Name: partial + ".tpl",
				Err:  fs.ErrNotExist,
			})
		}
	}
	o.logger.Info("templates loaded",
		zap.Int("templates", set.Len()),
		zap.Int("partials", len(manifest.Partials())),
	)

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	if o.sanitizer != nil {
		doc = doc.Sanitize(o.sanitizer)
	}

	vars, err := o.renderer.ResolveFields(doc, manifest.Vars, false)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: page vars: %w", err)
	}
	if err := o.partials.GlobalContext(map[string]any{pageGlobal: vars}); err != nil {
		return nil, fmt.Errorf("orchestrator: page vars: %w", err)
	}

	sections := make([]assemble.Section, 0, catalog.Len())
	for _, spec := range catalog.Sections() {
		tmpl, err := set.Get(spec.Template)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: section %q: %w", spec.Name, err)
		}
		section, ok, err := o.renderer.RenderSection(doc, spec, tmpl)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		if ok {
			sections = append(sections, section)
		}
	}

	base, err := set.Get(manifest.Base)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: base template: %w", err)
	}
	html, err := assemble.Assemble(assemble.Page{
		Base:               base,
		ContentPlaceholder: manifest.ContentPlaceholder,
		Vars:               vars,
		Wrapper:            manifest.Wrapper,
		Separator:          manifest.Separator,
		Sections:           sections,
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	o.logger.Info("page assembled",
		zap.String("manifest", manifest.Name),
		zap.Int("sections", len(sections)),
		zap.Int("bytes", len(html)),
	)
	return []byte(html), nil
}

func (o *Orchestrator) resolveManifest(ctx context.Context) (site.Manifest, error) {
	if o.manifest != nil {
		return *o.manifest, nil
	}
	if o.manifestSource == nil {
		return site.DefaultManifest()
	}
	data, err := o.loader.Load(ctx, o.manifestSource)
	if err != nil {
		return site.Manifest{}, fmt.Errorf("orchestrator: load manifest: %w", err)
	}
	return site.ParseManifest(data, o.manifestSource.Location())
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (content.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	o.logger.Info("loading content", zap.String("source", req.Content.Location()))
	data, err := o.loader.Load(ctx, req.Content)
	if err != nil {
		return content.Document{}, fmt.Errorf("orchestrator: load content: %w", err)
	}
	doc, err := content.Parse(data, req.Content.Location())
	if err != nil {
		return content.Document{}, fmt.Errorf("orchestrator: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.loader == nil {
		o.loader = internalLoader.New(source.NewLoaderOptions(
			source.WithHTTPFallback(defaultHTTPTimeout),
		))
	}
	if o.templatesFS == nil {
		o.templatesFS = site.ThemeFS()
	}

	filters, err := expr.NewEvaluator()
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: %w", err)
		return
	}
	o.filters = filters

	engineOptions := []gotemplate.Option{gotemplate.WithGlobalData(o.globals)}
	if o.partialsDir != "" {
		engineOptions = append(engineOptions, gotemplate.WithBaseDir(o.partialsDir))
	}
	if o.partialsFS != nil {
		engineOptions = append(engineOptions, gotemplate.WithFS(o.partialsFS))
	}
	engineOptions = append(engineOptions, gotemplate.WithFS(site.PartialsFS()))
	engine, err := gotemplate.New(engineOptions...)
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: partial engine: %w", err)
		return
	}
	o.partials = engine

	renderer, err := site.NewRenderer(engine, filters, site.WithLogger(o.logger))
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: %w", err)
		return
	}
	o.renderer = renderer
}
