// Package assemble turns templates and rendered sections into a single page.
//
// Templates use {{name}} placeholders. Substitute replaces the placeholders it
// has values for and copies every other token through untouched, so a
// template can be filled in stages or shipped with placeholders reserved for
// client-side tooling. RenderList maps a slice of records into concatenated
// markup, and Assemble injects ordered sections into the base template's
// content placeholder.
//
//	html := assemble.Substitute("<p>{{x}}</p>", map[string]string{"x": "hi"})
//	// <p>hi</p>
package assemble
