package assemble

import (
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Template is a named text blob holding {{name}} placeholders.
type Template struct {
	Name string
	Body string
}

// Placeholders lists the distinct placeholder names in the template body in
// order of first appearance.
func (t Template) Placeholders() []string {
	return Placeholders(t.Body)
}

// Substitute fills the template body using mapping. See Substitute.
func (t Template) Substitute(mapping map[string]string) string {
	return Substitute(t.Body, mapping)
}

// Substitute replaces every {{name}} token whose name is a key of mapping with
// the mapped value. Tokens without a mapping entry are left as-is. The body is
// scanned once from left to right and substituted values are never rescanned,
// so the result does not depend on map iteration order. Whitespace inside the
// braces is ignored when resolving the name.
func Substitute(body string, mapping map[string]string) string {
	if len(mapping) == 0 || !strings.Contains(body, openDelim) {
		return body
	}
	return fasttemplate.ExecuteFuncString(body, openDelim, closeDelim, func(w io.Writer, tag string) (int, error) {
		name := strings.TrimSpace(tag)
		if value, ok := mapping[name]; ok && name != "" {
			return io.WriteString(w, value)
		}
		return io.WriteString(w, openDelim+tag+closeDelim)
	})
}

// Placeholders returns the distinct placeholder names found in body, in order
// of first appearance.
func Placeholders(body string) []string {
	var (
		names []string
		seen  = make(map[string]struct{})
	)
	_, _ = fasttemplate.ExecuteFunc(body, openDelim, closeDelim, io.Discard, func(_ io.Writer, tag string) (int, error) {
		name := strings.TrimSpace(tag)
		if name == "" {
			return 0, nil
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		return 0, nil
	})
	return names
}
