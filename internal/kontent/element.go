package kontent

import (
	"encoding/json"
	"maps"
	"slices"

	"git.home.luguber.info/inful/kontentsource/internal/delivery"
)

// ElementType tags the kind of an item element.
type ElementType string

const (
	ElementText           ElementType = "text"
	ElementRichText       ElementType = "rich_text"
	ElementNumber         ElementType = "number"
	ElementMultipleChoice ElementType = "multiple_choice"
	ElementDateTime       ElementType = "date_time"
	ElementAsset          ElementType = "asset"
	ElementLinkedItems    ElementType = "linked_items"
	ElementTaxonomy       ElementType = "taxonomy"
	ElementURLSlug        ElementType = "url_slug"
	ElementCustom         ElementType = "custom"
)

// ParseElementType maps a wire element type onto ElementType.
// Unknown types are treated as custom elements.
func ParseElementType(raw string) ElementType {
	switch t := ElementType(raw); t {
	case ElementText, ElementRichText, ElementNumber, ElementMultipleChoice,
		ElementDateTime, ElementAsset, ElementLinkedItems, ElementTaxonomy,
		ElementURLSlug, ElementCustom:
		return t
	case "modular_content":
		return ElementLinkedItems
	default:
		return ElementCustom
	}
}

// RelationField is an ordered list of target node ids.
type RelationField []string

// Contains reports whether id is already a target.
func (r RelationField) Contains(id string) bool {
	return slices.Contains(r, id)
}

// With returns r extended by ids that are not yet present.
// The result is never nil.
func (r RelationField) With(ids ...string) RelationField {
	out := make(RelationField, len(r), len(r)+len(ids))
	copy(out, r)
	for _, id := range ids {
		if id != "" && !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

func (r RelationField) clone() RelationField {
	if r == nil {
		return nil
	}
	return slices.Clone(r)
}

// Element is one normalized item element.
type Element struct {
	Name                string                   `json:"name"`
	Type                ElementType              `json:"type"`
	Value               json.RawMessage          `json:"value"`
	TaxonomyGroup       string                   `json:"taxonomy_group,omitempty"`
	LinkedItemCodenames []string                 `json:"linkedItemCodenames,omitempty"`
	ResolvedHTML        string                   `json:"resolvedHtml,omitempty"`
	Images              []delivery.Image         `json:"images,omitempty"`
	Links               map[string]delivery.Link `json:"links,omitempty"`

	// Relation is nil until a decorator resolves the element.
	Relation RelationField `json:"-"`
}

// MarshalJSON emits linked_items___NODE only once the relation is set, so an
// empty resolved relation serializes as [] rather than being omitted.
func (e Element) MarshalJSON() ([]byte, error) {
	type plain Element
	out := struct {
		plain
		Relation *RelationField `json:"linked_items___NODE,omitempty"`
	}{plain: plain(e)}
	if e.Relation != nil {
		rel := e.Relation
		out.Relation = &rel
	}
	return json.Marshal(out)
}

func (e Element) clone() Element {
	c := e
	c.Value = slices.Clone(e.Value)
	c.LinkedItemCodenames = slices.Clone(e.LinkedItemCodenames)
	c.Images = slices.Clone(e.Images)
	c.Links = maps.Clone(e.Links)
	c.Relation = e.Relation.clone()
	return c
}
