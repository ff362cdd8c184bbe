package kontent

import (
	"encoding/json"
	"strings"

	"git.home.luguber.info/inful/kontentsource/internal/delivery"
	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
	"git.home.luguber.info/inful/kontentsource/internal/richtext"
)

// Pass names of normalization reports.
const (
	PassTaxonomies = "taxonomies"
	PassTypes      = "types"
	PassItems      = "items"
)

// Normalizer turns raw Delivery API records into nodes.
type Normalizer struct {
	nodeID   NodeIDFunc
	renderer *richtext.Renderer
}

// NewNormalizer returns a Normalizer. A nil nodeID defaults to UUIDNodeID and
// a nil renderer to one with default options.
func NewNormalizer(nodeID NodeIDFunc, renderer *richtext.Renderer) *Normalizer {
	if nodeID == nil {
		nodeID = UUIDNodeID
	}
	if renderer == nil {
		renderer = richtext.NewRenderer(richtext.Options{})
	}
	return &Normalizer{nodeID: nodeID, renderer: renderer}
}

// Taxonomy builds the node of one taxonomy group.
func (n *Normalizer) Taxonomy(raw delivery.Taxonomy) (*TaxonomyNode, error) {
	codename := strings.TrimSpace(raw.System.Codename)
	if ParamCase(codename) == "" {
		return nil, errors.StructureError("taxonomy has no usable codename").
			WithContext("taxonomy_id", raw.System.ID).
			Build()
	}
	return &TaxonomyNode{
		ID:       n.nodeID(TaxonomySeed(codename)),
		System:   TypeSystem(raw.System),
		Terms:    convertTerms(raw.Terms),
		Internal: Internal{Type: TaxonomyNodeType(codename)},
	}, nil
}

func convertTerms(terms []delivery.TaxonomyTerm) []Term {
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		out = append(out, Term{Name: t.Name, Codename: t.Codename, Terms: convertTerms(t.Terms)})
	}
	return out
}

// Taxonomies builds taxonomy nodes, skipping groups that fail.
func (n *Normalizer) Taxonomies(raws []delivery.Taxonomy) ([]*TaxonomyNode, *Report) {
	report := NewReport(PassTaxonomies)
	nodes := make([]*TaxonomyNode, 0, len(raws))
	for _, raw := range raws {
		node, err := n.Taxonomy(raw)
		if err != nil {
			report.Skip("", raw.System.Codename, err)
			continue
		}
		report.Decorated("", node.System.Codename)
		nodes = append(nodes, node)
	}
	return nodes, report
}

// Type builds the node of one content type.
func (n *Normalizer) Type(raw delivery.ContentType) (*TypeNode, error) {
	codename := strings.TrimSpace(raw.System.Codename)
	if codename == "" {
		return nil, errors.StructureError("content type has no codename").
			WithContext("type_id", raw.System.ID).
			Build()
	}
	elements := raw.Elements
	if elements == nil {
		elements = map[string]delivery.TypeElement{}
	}
	return &TypeNode{
		ID:       n.nodeID(TypeSeed(codename)),
		System:   TypeSystem(raw.System),
		Elements: elements,
		Internal: Internal{Type: TypeNodeType(codename)},
	}, nil
}

// Types builds type nodes, skipping types that fail.
func (n *Normalizer) Types(raws []delivery.ContentType) ([]*TypeNode, *Report) {
	report := NewReport(PassTypes)
	nodes := make([]*TypeNode, 0, len(raws))
	for _, raw := range raws {
		node, err := n.Type(raw)
		if err != nil {
			report.Skip("", raw.System.Codename, err)
			continue
		}
		report.Decorated("", node.System.Codename)
		nodes = append(nodes, node)
	}
	return nodes, report
}

// Item builds the node of one item fetched for language. Rich-text elements
// are resolved to HTML and their inline item codenames collected.
func (n *Normalizer) Item(language string, raw delivery.Item) (*ItemNode, error) {
	codename := strings.TrimSpace(raw.System.Codename)
	if codename == "" {
		return nil, errors.StructureError("item has no system codename").
			WithContext("item_id", raw.System.ID).
			Build()
	}

	node := &ItemNode{
		ID: n.nodeID(ItemSeed(language, codename)),
		System: ItemSystem{
			ID:               raw.System.ID,
			Name:             raw.System.Name,
			Codename:         codename,
			Language:         raw.System.Language,
			Type:             raw.System.Type,
			SitemapLocations: raw.System.SitemapLocations,
			LastModified:     raw.System.LastModified,
		},
		Elements:  make(map[string]Element, len(raw.Elements)),
		Internal:  Internal{Type: ItemNodeType(raw.System.Type)},
		Partition: language,
	}
	if node.System.Language == "" {
		node.System.Language = language
	}

	for name, rawEl := range raw.Elements {
		el, err := n.element(name, rawEl)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryStructure, "failed to normalize element").
				WithContext("codename", codename).
				WithContext("element", name).
				Build()
		}
		node.Elements[name] = el
	}
	return node, nil
}

func (n *Normalizer) element(name string, raw delivery.Element) (Element, error) {
	el := Element{
		Name:          raw.Name,
		Type:          ParseElementType(raw.Type),
		Value:         raw.Value,
		TaxonomyGroup: raw.TaxonomyGroup,
	}
	if el.Name == "" {
		el.Name = name
	}

	switch el.Type {
	case ElementLinkedItems:
		var codenames []string
		if len(raw.Value) > 0 && string(raw.Value) != "null" {
			if err := json.Unmarshal(raw.Value, &codenames); err != nil {
				return Element{}, err
			}
		}
		el.LinkedItemCodenames = codenames
	case ElementRichText:
		res, err := n.renderer.Render(raw)
		if err != nil {
			return Element{}, err
		}
		el.ResolvedHTML = res.HTML
		el.Images = res.Images
		el.Links = raw.Links
		el.LinkedItemCodenames = res.LinkedItemCodenames
	}
	return el, nil
}

// Items builds the item nodes of one language, skipping items that fail.
func (n *Normalizer) Items(language string, raws []delivery.Item) ([]*ItemNode, *Report) {
	report := NewReport(PassItems)
	nodes := make([]*ItemNode, 0, len(raws))
	for _, raw := range raws {
		node, err := n.Item(language, raw)
		if err != nil {
			report.Skip(language, raw.System.Codename, err)
			continue
		}
		report.Decorated(language, node.System.Codename)
		nodes = append(nodes, node)
	}
	return nodes, report
}
