// Package catalog holds the set of building prototypes a lot is screened
// against. A Catalog is immutable once built and safe to share across
// concurrent evaluations.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/twd38/alamo-app-sub003/pkg/site"
)

//go:embed default.yaml
var defaultCatalogYAML []byte

// File is the on-disk shape of a scheme catalog.
type File struct {
	Version string                `yaml:"version" json:"version"`
	Schemes []site.SchemeTemplate `yaml:"schemes" json:"schemes"`
}

// Catalog is an ordered, name-keyed set of scheme templates.
type Catalog struct {
	version string
	order   []string
	byName  map[string]site.SchemeTemplate
}

// New builds a catalog. Scheme names must be non-empty and unique.
func New(version string, schemes ...site.SchemeTemplate) (*Catalog, error) {
	c := &Catalog{
		version: version,
		order:   make([]string, 0, len(schemes)),
		byName:  make(map[string]site.SchemeTemplate, len(schemes)),
	}
	for i, s := range schemes {
		if s.Name == "" {
			return nil, fmt.Errorf("scheme %d has no name", i)
		}
		if _, dup := c.byName[s.Name]; dup {
			return nil, fmt.Errorf("duplicate scheme %q", s.Name)
		}
		c.order = append(c.order, s.Name)
		c.byName[s.Name] = s
	}
	return c, nil
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	return New(f.Version, f.Schemes...)
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default catalog is invalid: %v", err))
	}
	return c
}

// ForProject resolves the catalog a project should be screened against:
// inline schemes first, then the project's catalog file, then fallback.
func ForProject(p *site.Project, fallback *Catalog) (*Catalog, error) {
	if len(p.Schemes) > 0 {
		return New("inline", p.Schemes...)
	}
	if p.Catalog != "" {
		return Load(p.Catalog)
	}
	return fallback, nil
}

// Version identifies the catalog revision.
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of schemes.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Names returns scheme names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Get returns the scheme with the given name.
func (c *Catalog) Get(name string) (site.SchemeTemplate, bool) {
	s, ok := c.byName[name]
	return s, ok
}

// Schemes returns a copy of every scheme in catalog order.
func (c *Catalog) Schemes() []site.SchemeTemplate {
	out := make([]site.SchemeTemplate, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	return out
}

// Select returns the named schemes in the order requested. With no names it
// returns the whole catalog.
func (c *Catalog) Select(names ...string) ([]site.SchemeTemplate, error) {
	if len(names) == 0 {
		return c.Schemes(), nil
	}
	out := make([]site.SchemeTemplate, 0, len(names))
	for _, name := range names {
		s, ok := c.byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown scheme %q", name)
		}
		out = append(out, s)
	}
	return out, nil
}
