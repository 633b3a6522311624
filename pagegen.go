package pagegen

import (
	"context"
	"io/fs"

	internalLoader "github.com/goliatone/go-pagegen/internal/loader"
	"github.com/goliatone/go-pagegen/pkg/content"
	"github.com/goliatone/go-pagegen/pkg/orchestrator"
	"github.com/goliatone/go-pagegen/pkg/site"
	"github.com/goliatone/go-pagegen/pkg/source"
)

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...source.LoaderOption) source.Loader {
	cfg := source.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// GenerateHTML loads the content behind src and renders the page. With no
// options it uses the embedded manifest and theme.
func GenerateHTML(ctx context.Context, src source.Source, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{Content: src})
}

// GenerateHTMLFromDocument renders a page from already parsed content,
// bypassing the loader stage.
func GenerateHTMLFromDocument(ctx context.Context, doc content.Document, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{Document: &doc})
}

// EmbeddedTheme exposes the bundled base and section templates so callers
// can copy or extend them.
func EmbeddedTheme() fs.FS {
	return site.ThemeFS()
}

// EmbeddedPartials exposes the bundled list item partials.
func EmbeddedPartials() fs.FS {
	return site.PartialsFS()
}
