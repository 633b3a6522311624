package site

import (
	"fmt"
	"strings"
)

// Catalog stores section specs by name while remembering declaration order.
// Duplicate names are rejected so every section renders exactly once.
type Catalog struct {
	order    []string
	sections map[string]SectionSpec
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		sections: make(map[string]SectionSpec),
	}
}

// Register appends a section spec. Empty and duplicate names return an error.
func (c *Catalog) Register(spec SectionSpec) error {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return fmt.Errorf("site: section name is required")
	}
	if _, exists := c.sections[name]; exists {
		return fmt.Errorf("site: section %q already registered", name)
	}
	spec.Name = name
	c.sections[name] = spec
	c.order = append(c.order, name)
	return nil
}

// Sections returns the specs in declaration order.
func (c *Catalog) Sections() []SectionSpec {
	out := make([]SectionSpec, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.sections[name])
	}
	return out
}

// Len reports how many sections are registered.
func (c *Catalog) Len() int {
	return len(c.order)
}
