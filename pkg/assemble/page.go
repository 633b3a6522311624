package assemble

import (
	"fmt"
	"strings"
)

const (
	// DefaultContentPlaceholder is the base template token receiving the
	// concatenated sections.
	DefaultContentPlaceholder = "content"

	// SectionsPlaceholder is the wrapper template token receiving the
	// concatenated sections.
	SectionsPlaceholder = "sections"
)

// Section is the rendered markup of one logical block of the page.
type Section struct {
	Name string
	HTML string
}

// Page describes the final document: a base template, the page-wide values
// substituted into it, and the rendered sections in declared order.
type Page struct {
	Base Template

	// ContentPlaceholder names the base template token that receives the
	// sections. Defaults to DefaultContentPlaceholder.
	ContentPlaceholder string

	// Vars are substituted into the base template alongside the content.
	Vars map[string]string

	// Wrapper, when set, frames the concatenated sections. It must contain a
	// {{sections}} placeholder.
	Wrapper string

	// Separator is written before every section. Sections are otherwise
	// concatenated verbatim.
	Separator string

	Sections []Section
}

// Join concatenates the sections in slice order, writing sep before each one.
func Join(sections []Section, sep string) string {
	var b strings.Builder
	for _, section := range sections {
		b.WriteString(sep)
		b.WriteString(section.HTML)
	}
	return b.String()
}

// Assemble concatenates the page sections in order and substitutes the result
// into the base template's content placeholder. Page vars are substituted in
// the same pass so section markup is never rescanned for placeholders.
func Assemble(page Page) (string, error) {
	placeholder := strings.TrimSpace(page.ContentPlaceholder)
	if placeholder == "" {
		placeholder = DefaultContentPlaceholder
	}
	if !hasPlaceholder(page.Base.Body, placeholder) {
		return "", fmt.Errorf("assemble: base template %q has no {{%s}} placeholder", page.Base.Name, placeholder)
	}

	content := Join(page.Sections, page.Separator)
	if page.Wrapper != "" {
		if !hasPlaceholder(page.Wrapper, SectionsPlaceholder) {
			return "", fmt.Errorf("assemble: wrapper has no {{%s}} placeholder", SectionsPlaceholder)
		}
		content = Substitute(page.Wrapper, map[string]string{SectionsPlaceholder: content})
	}

	mapping := make(map[string]string, len(page.Vars)+1)
	for key, value := range page.Vars {
		mapping[key] = value
	}
	mapping[placeholder] = content

	return Substitute(page.Base.Body, mapping), nil
}

func hasPlaceholder(body, name string) bool {
	for _, found := range Placeholders(body) {
		if found == name {
			return true
		}
	}
	return false
}
