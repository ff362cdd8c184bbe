package kontent

import "slices"

// Collection is the language partitioned content set of one run.
type Collection struct {
	DefaultLanguage string
	Languages       []string // non-default languages, in configured order
	Items           map[string][]*ItemNode
	Types           []*TypeNode
	Taxonomies      []*TaxonomyNode
}

// NewCollection returns an empty collection for the given languages.
func NewCollection(defaultLanguage string, others []string) *Collection {
	return &Collection{
		DefaultLanguage: defaultLanguage,
		Languages:       slices.Clone(others),
		Items:           make(map[string][]*ItemNode, len(others)+1),
	}
}

// Partitions lists the default language followed by the others.
func (c *Collection) Partitions() []string {
	return append([]string{c.DefaultLanguage}, c.Languages...)
}

// ItemsIn returns the items of one language partition.
func (c *Collection) ItemsIn(language string) []*ItemNode {
	return c.Items[language]
}

// AllItems returns every item, default language first.
func (c *Collection) AllItems() []*ItemNode {
	var all []*ItemNode
	for _, lang := range c.Partitions() {
		all = append(all, c.Items[lang]...)
	}
	return all
}

// Clone returns a deep copy that shares no mutable state with c.
func (c *Collection) Clone() *Collection {
	if c == nil {
		return nil
	}
	out := NewCollection(c.DefaultLanguage, c.Languages)
	for lang, items := range c.Items {
		cloned := make([]*ItemNode, len(items))
		for i, item := range items {
			cloned[i] = item.Clone()
		}
		out.Items[lang] = cloned
	}
	if c.Types != nil {
		out.Types = make([]*TypeNode, len(c.Types))
		for i, t := range c.Types {
			out.Types[i] = t.Clone()
		}
	}
	if c.Taxonomies != nil {
		out.Taxonomies = make([]*TaxonomyNode, len(c.Taxonomies))
		for i, t := range c.Taxonomies {
			out.Taxonomies[i] = t.Clone()
		}
	}
	return out
}

// Counts reports the number of nodes per kind.
func (c *Collection) Counts() map[string]int {
	return map[string]int{
		"types":      len(c.Types),
		"taxonomies": len(c.Taxonomies),
		"items":      len(c.AllItems()),
	}
}
