// Package content holds the structured description a page is rendered from.
//
// A Document is decoded once from JSON or YAML and then only read. Fields are
// addressed with dotted paths; a path that does not resolve produces a
// *MissingFieldError so callers can tell absent content apart from malformed
// content:
//
//	doc, err := content.Parse(raw, "content.json")
//	title, err := doc.String("hero.title")
//	var missing *content.MissingFieldError
//	if errors.As(err, &missing) { ... }
package content
