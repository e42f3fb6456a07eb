// Package category holds the fixed registry of known mod categories.
// The registry is loaded once per run and read-only afterwards; it is passed
// explicitly to every component that validates category identifiers.
package category

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/modcabinet/cabinetsorter/internal/errors"
)

// Category is one registry-defined classification tag. Title carries the
// full display title; a "Prefix: Title" form is split for hierarchical
// grouping on index pages.
type Category struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Prefix      string `yaml:"-" json:"prefix,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// FullTitle returns the display title including the prefix, if any.
func (c Category) FullTitle() string {
	if c.Prefix != "" {
		return c.Prefix + ": " + c.Title
	}
	return c.Title
}

// Registry is the immutable set of known categories, in declaration order.
type Registry struct {
	order []string
	byID  map[string]Category
}

type registryFile struct {
	Categories []Category `yaml:"categories"`
}

// Load reads a registry from a YAML file. Duplicate identifiers fail the
// load immediately; this is a fatal configuration error, not a per-mod one.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfig(err, fmt.Sprintf("unreadable category registry %s", path))
	}
	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, errors.WrapConfig(err, fmt.Sprintf("malformed category registry %s", path))
	}
	if len(rf.Categories) == 0 {
		return nil, errors.Config(fmt.Sprintf("category registry %s defines no categories", path))
	}
	return FromCategories(rf.Categories)
}

// FromCategories builds a registry from an ordered category list, splitting
// "Prefix: Title" display titles and rejecting duplicate identifiers.
func FromCategories(cats []Category) (*Registry, error) {
	r := &Registry{byID: make(map[string]Category, len(cats))}
	for _, c := range cats {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, errors.Config(fmt.Sprintf("category with title %q has an empty identifier", c.Title))
		}
		if _, dup := r.byID[id]; dup {
			return nil, errors.Config(fmt.Sprintf("duplicate category identifier %q", id))
		}
		c.ID = id
		if c.Prefix == "" {
			if prefix, title, ok := strings.Cut(c.Title, ": "); ok {
				c.Prefix = prefix
				c.Title = title
			}
		}
		r.byID[id] = c
		r.order = append(r.order, id)
	}
	return r, nil
}

// Resolve returns the category for an identifier, or a validation error when
// the identifier is unknown. Unknown categories are per-mod diagnostics, not
// fatal to the run.
func (r *Registry) Resolve(id string) (Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return Category{}, errors.Validation(fmt.Sprintf("unknown category %q", id))
	}
	return c, nil
}

// Has reports whether an identifier is known.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns every category in declaration order.
func (r *Registry) All() []Category {
	out := make([]Category, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered categories.
func (r *Registry) Len() int { return len(r.order) }
