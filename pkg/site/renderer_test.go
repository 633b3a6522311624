package site_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-pagegen/pkg/assemble"
	"github.com/goliatone/go-pagegen/pkg/content"
	"github.com/goliatone/go-pagegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-pagegen/pkg/site"
	"github.com/goliatone/go-pagegen/pkg/templates"
	"github.com/goliatone/go-pagegen/pkg/testsupport"
)

func strPtr(s string) *string { return &s }

func newRenderer(t *testing.T, partials fstest.MapFS) *site.Renderer {
	t.Helper()
	engine, err := gotemplate.New(gotemplate.WithFS(partials))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	renderer, err := site.NewRenderer(engine, newEvaluator(t))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

var rowPartials = fstest.MapFS{
	"row.tpl": {Data: []byte(`{% autoescape off %}<li data-index="{{ index }}">{{ number }}:{{ item.name }}{% if last %}.{% endif %}</li>{% endautoescape %}`)},
}

func TestNewRenderer_RequiresCollaborators(t *testing.T) {
	if _, err := site.NewRenderer(nil, newEvaluator(t)); err == nil {
		t.Fatalf("expected error without partial renderer")
	}
	engine, err := gotemplate.New(gotemplate.WithFS(rowPartials))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := site.NewRenderer(engine, nil); err == nil {
		t.Fatalf("expected error without matcher")
	}
}

func TestRenderSection_FieldsListsAndRewrites(t *testing.T) {
	renderer := newRenderer(t, rowPartials)
	doc := content.New("inline", map[string]any{
		"title": "Rows",
		"items": []any{
			map[string]any{"kind": "row", "name": "a"},
			map[string]any{"kind": "skip", "name": "b"},
			map[string]any{"kind": "row", "name": "c"},
		},
	})
	spec := site.SectionSpec{
		Name:   "rows",
		Fields: map[string]site.Binding{"title": {Path: "title"}},
		Lists: map[string]site.ListBinding{
			"rows": {Path: "items", Where: `item.kind == "row"`, Partial: "row", Separator: "|"},
		},
		Rewrites: []site.Rewrite{{From: `class="old"`, To: `class="new"`}},
	}
	tmpl := assemble.Template{Name: "rows.html", Body: `<ul class="old" title="{{title}}">{{rows}}</ul>`}

	section, rendered, err := renderer.RenderSection(doc, spec, tmpl)
	if err != nil {
		t.Fatalf("render section: %v", err)
	}
	if !rendered {
		t.Fatalf("section should render")
	}
	want := `<ul class="new" title="Rows"><li data-index="0">1:a</li>|<li data-index="1">2:c.</li></ul>`
	if section.HTML != want {
		t.Fatalf("section mismatch\nwant: %q\n got: %q", want, section.HTML)
	}
	if section.Name != "rows" {
		t.Fatalf("unexpected section name %q", section.Name)
	}
}

func TestRenderSection_SkipsWhenAbsent(t *testing.T) {
	renderer := newRenderer(t, rowPartials)
	tmpl := assemble.Template{Name: "x.html", Body: "{{title}}"}
	spec := site.SectionSpec{
		Name:   "optional",
		When:   "optional",
		Fields: map[string]site.Binding{"title": {Path: "optional.title"}},
	}

	for name, root := range map[string]map[string]any{
		"missing": {},
		"empty":   {"optional": map[string]any{}},
		"blank":   {"optional": ""},
	} {
		t.Run(name, func(t *testing.T) {
			_, rendered, err := renderer.RenderSection(content.New(name, root), spec, tmpl)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if rendered {
				t.Fatalf("section should be skipped")
			}
		})
	}
}

func TestRenderSection_MissingRequiredField(t *testing.T) {
	renderer := newRenderer(t, rowPartials)
	spec := site.SectionSpec{
		Name:   "hero",
		Fields: map[string]site.Binding{"hero_title": {Path: "hero.title"}},
	}
	_, _, err := renderer.RenderSection(content.New("inline", map[string]any{}), spec, assemble.Template{Body: "{{hero_title}}"})

	var missing *content.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Path != "hero.title" {
		t.Fatalf("unexpected missing path %q", missing.Path)
	}
	if !strings.Contains(err.Error(), `section "hero"`) {
		t.Fatalf("error should name the section: %v", err)
	}
}

func TestRenderSection_LenientAndDefaults(t *testing.T) {
	renderer := newRenderer(t, rowPartials)
	spec := site.SectionSpec{
		Name:    "footer",
		Lenient: true,
		Fields: map[string]site.Binding{
			"brand":   {Path: "footer.brand", Default: strPtr("Brand")},
			"tagline": {Path: "footer.tagline"},
		},
		Lists: map[string]site.ListBinding{
			"rows": {Path: "footer.rows", Partial: "row"},
		},
	}
	tmpl := assemble.Template{Body: "[{{brand}}][{{tagline}}][{{rows}}]"}

	section, rendered, err := renderer.RenderSection(content.New("inline", map[string]any{}), spec, tmpl)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !rendered {
		t.Fatalf("lenient section without when should render")
	}
	if section.HTML != "[Brand][][]" {
		t.Fatalf("unexpected lenient output %q", section.HTML)
	}
}

func TestRenderSection_MissingListIsRequiredUnlessLenient(t *testing.T) {
	renderer := newRenderer(t, rowPartials)
	spec := site.SectionSpec{
		Name:  "rows",
		Lists: map[string]site.ListBinding{"rows": {Path: "items", Partial: "row"}},
	}
	_, _, err := renderer.RenderSection(content.New("inline", map[string]any{}), spec, assemble.Template{Body: "{{rows}}"})
	var missing *content.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
}

func TestResolveFields_WhereField(t *testing.T) {
	renderer := newRenderer(t, rowPartials)
	doc := content.New("inline", map[string]any{
		"blocks": []any{
			map[string]any{"type": "issue", "title": "first"},
			map[string]any{"type": "subcopy", "title": "Heading", "meta": map[string]any{"tone": "calm"}},
			map[string]any{"type": "subcopy", "title": "Later"},
		},
	})

	mapping, err := renderer.ResolveFields(doc, map[string]site.Binding{
		"heading": {Path: "blocks", Where: `item.type == "subcopy"`, Field: "title"},
		"tone":    {Path: "blocks", Where: `item.type == "subcopy"`, Field: "meta.tone"},
		"second":  {Path: "blocks", Where: "index == 1", Field: "title"},
		"absent":  {Path: "blocks", Where: `item.type == "nope"`, Field: "title", Default: strPtr("fallback")},
	}, false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := map[string]string{"heading": "Heading", "tone": "calm", "second": "Heading", "absent": "fallback"}
	for key, value := range want {
		if mapping[key] != value {
			t.Fatalf("%s = %q, want %q", key, mapping[key], value)
		}
	}

	_, err = renderer.ResolveFields(doc, map[string]site.Binding{
		"heading": {Path: "blocks", Where: `item.type == "nope"`, Field: "title"},
	}, false)
	var missing *content.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Path != `blocks[item.type == "nope"].title` {
		t.Fatalf("unexpected missing path %q", missing.Path)
	}
}

func TestDefaultManifest_DilemmaTitle(t *testing.T) {
	manifest, err := site.DefaultManifest()
	if err != nil {
		t.Fatalf("default manifest: %v", err)
	}
	var fields map[string]site.Binding
	for _, spec := range manifest.Sections {
		if spec.Name == "dilemma" {
			fields = map[string]site.Binding{"dilemma_title": spec.Fields["dilemma_title"]}
		}
	}
	if fields == nil {
		t.Fatalf("dilemma section not declared")
	}

	renderer := newRenderer(t, rowPartials)
	cases := []struct {
		name   string
		blocks []any
		want   string
	}{
		{
			name: "subcopy title",
			blocks: []any{
				map[string]any{"group": "dilemma", "type": "subcopy", "title": "Both roads are hard."},
			},
			want: "Both roads are hard.",
		},
		{
			name: "subcopy without title",
			blocks: []any{
				map[string]any{"group": "dilemma", "type": "subcopy"},
			},
			want: "進むも退くも、茨の道。",
		},
		{
			name: "no subcopy block",
			blocks: []any{
				map[string]any{"group": "dilemma", "type": "conclusion", "text": []any{"done"}},
			},
			want: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := content.New("inline", map[string]any{"intro": map[string]any{"blocks": tc.blocks}})
			mapping, err := renderer.ResolveFields(doc, fields, false)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got := mapping["dilemma_title"]; got != tc.want {
				t.Fatalf("dilemma_title = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDilemmaBlock_TaskImageKeyPresence(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithFS(site.PartialsFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	issue := func(extra map[string]any) map[string]any {
		item := map[string]any{"type": "issue", "number": int64(1), "title": "T", "text": []any{"x"}}
		for k, v := range extra {
			item[k] = v
		}
		return map[string]any{"item": item}
	}

	cases := []struct {
		name      string
		data      map[string]any
		wantImage bool
		wantTasks bool
	}{
		{name: "empty task image still renders", data: issue(map[string]any{"task_image": ""}), wantImage: true},
		{name: "task image wins over tasks", data: issue(map[string]any{"task_image": "t.png", "tasks": []any{map[string]any{"label": "a"}}}), wantImage: true},
		{name: "tasks without task image", data: issue(map[string]any{"tasks": []any{map[string]any{"label": "a"}}}), wantTasks: true},
		{name: "neither", data: issue(nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.RenderTemplate("dilemma_block", tc.data)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if has := strings.Contains(got, `class="issue-task-image"`); has != tc.wantImage {
				t.Fatalf("task image rendered = %v, want %v:\n%s", has, tc.wantImage, got)
			}
			if has := strings.Contains(got, `class="issue-tasks"`); has != tc.wantTasks {
				t.Fatalf("task list rendered = %v, want %v:\n%s", has, tc.wantTasks, got)
			}
		})
	}
}

func TestRenderSection_ListItemsAreNotRescanned(t *testing.T) {
	renderer := newRenderer(t, rowPartials)
	doc := content.New("inline", map[string]any{
		"title": "{{rows}}",
		"items": []any{map[string]any{"name": "{{title}}"}},
	})
	spec := site.SectionSpec{
		Name:   "rows",
		Fields: map[string]site.Binding{"title": {Path: "title"}},
		Lists:  map[string]site.ListBinding{"rows": {Path: "items", Partial: "row"}},
	}
	section, _, err := renderer.RenderSection(doc, spec, assemble.Template{Body: "{{title}}/{{rows}}"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `{{rows}}/<li data-index="0">1:{{title}}.</li>`
	if section.HTML != want {
		t.Fatalf("substituted values were rescanned\nwant: %q\n got: %q", want, section.HTML)
	}
}

func TestDefaultTheme_RendersSections(t *testing.T) {
	manifest, err := site.DefaultManifest()
	if err != nil {
		t.Fatalf("default manifest: %v", err)
	}
	set, err := templates.Load(site.ThemeFS(), manifest.TemplateNames()...)
	if err != nil {
		t.Fatalf("load theme: %v", err)
	}
	engine, err := gotemplate.New(gotemplate.WithFS(site.PartialsFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	renderer, err := site.NewRenderer(engine, newEvaluator(t))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "content.json"))

	rendered := map[string]string{}
	for _, spec := range manifest.Sections {
		tmpl, err := set.Get(spec.Template)
		if err != nil {
			t.Fatalf("template %s: %v", spec.Template, err)
		}
		section, ok, err := renderer.RenderSection(doc, spec, tmpl)
		if err != nil {
			t.Fatalf("render %s: %v", spec.Name, err)
		}
		if ok {
			rendered[spec.Name] = section.HTML
		}
	}

	for _, skipped := range []string{"circulation", "scenes", "examples", "media"} {
		if _, ok := rendered[skipped]; ok {
			t.Fatalf("section %s should be skipped without content", skipped)
		}
	}

	checks := map[string][]string{
		"hero": {`<h1 class="hero-title">楽市へようこそ</h1>`, `<img src="images/hero.jpg"`},
		"intro": {
			`class="philosophy-vertical"`,
			`<!-- Block 1: origin_tool -->`,
			`<p>Points keep the exchange moving.</p>`,
		},
		"dilemma": {
			`<h2 class="section-title">Stay or leave, both are hard.</h2>`,
			`<div class="dilemma-intro">`,
			`<div class="dilemma-issue image-left">`,
			`<div class="dilemma-issue image-right">`,
			`<strong>Rent：</strong><span>higher every year</span>`,
			`<img src="images/tasks.png" alt="ビジネスの課題"`,
			`<p>Something has to change.</p>`,
			`<div class="dilemma-conclusion">`,
		},
		"crevasse":    {"<p>First paragraph.</p>\n                <p>Second paragraph.</p>\n            </div>"},
		"explanation": {`<div class="comparison-card points">`, `<p class="comparison-text">Spent again and again.</p>`},
		"philosophy":  {`<p>Give first.</p>`, `<h3>Balance</h3>`},
		"system":      {`<div class="limit-value-label">+30,000</div>`, `<h4>Prevent debt</h4>`},
		"vision":      {`<p>✓ Local first</p>`, `<p>✓ Open to all</p>`},
		"join":        {`mailto:hello@example.com`, `>お問い合わせ</a>`, `<h3>Helper</h3>`},
		"footer":      {`<div class="footer-brand">楽市</div>`, `© Rakuichi`},
	}
	for name, fragments := range checks {
		html, ok := rendered[name]
		if !ok {
			t.Fatalf("section %s did not render", name)
		}
		for _, fragment := range fragments {
			if !strings.Contains(html, fragment) {
				t.Fatalf("section %s missing %q:\n%s", name, fragment, html)
			}
		}
		if strings.Contains(html, "{%") || strings.Contains(html, "{{ ") {
			t.Fatalf("section %s leaked template syntax:\n%s", name, html)
		}
	}

	if strings.Contains(rendered["dilemma"], "<p></p>") {
		t.Fatalf("empty paragraphs should be dropped:\n%s", rendered["dilemma"])
	}
	if strings.Contains(rendered["intro"], "Stay or leave") {
		t.Fatalf("intro must only list philosophy blocks")
	}
}
