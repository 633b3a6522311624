// Package template defines the renderer contract used for list item partials.
// The pongo2-backed implementation lives in the gotemplate subpackage.
package template
