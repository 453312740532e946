// Package categories holds the set of categories an expense may be filed under.
package categories

import (
	"strings"

	"github.com/sleekspend/sleekspend/internal/model"
)

// Catalog provides in-memory lookup over the known categories.
type Catalog struct {
	names  []string
	byFold map[string]string
}

// NewCatalog creates a Catalog from names, dropping blanks and case-insensitive duplicates.
// The first spelling of a name wins.
func NewCatalog(names []string) *Catalog {
	c := &Catalog{byFold: make(map[string]string, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := c.byFold[key]; ok {
			continue
		}
		c.byFold[key] = n
		c.names = append(c.names, n)
	}
	return c
}

// Default returns the built-in categories followed by extra.
func Default(extra ...string) *Catalog {
	return NewCatalog(append(model.Categories(), extra...))
}

// All returns all category names in catalog order.
func (c *Catalog) All() []string {
	return append([]string(nil), c.names...)
}

// Resolve returns the canonical spelling of name, matched case-insensitively.
func (c *Catalog) Resolve(name string) (string, bool) {
	canonical, ok := c.byFold[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}
