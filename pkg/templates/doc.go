// Package templates loads the page's {{placeholder}} templates from an fs.FS.
// Every template a manifest names is read before rendering starts, so a
// missing file aborts the run before any output exists.
package templates
