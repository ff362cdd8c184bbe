package kontent

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"maps"
	"slices"
	"time"

	"git.home.luguber.info/inful/kontentsource/internal/delivery"
	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
)

// Node is implemented by every node kind handed to a sink.
type Node interface {
	NodeID() string
	NodeCodename() string
	NodeType() string
	NodeLanguage() string
	NodeDigest() string
}

// Internal carries the host classification of a node.
type Internal struct {
	Type          string `json:"type"`
	ContentDigest string `json:"contentDigest,omitempty"`
}

// ItemSystem is the system section of an item node.
type ItemSystem struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Codename         string    `json:"codename"`
	Language         string    `json:"language"`
	Type             string    `json:"type"`
	SitemapLocations []string  `json:"sitemap_locations"`
	LastModified     time.Time `json:"last_modified"`
}

// ItemNode is one content item in one language.
type ItemNode struct {
	ID             string             `json:"id"`
	System         ItemSystem         `json:"system"`
	Elements       map[string]Element `json:"elements"`
	OtherLanguages RelationField      `json:"otherLanguages___NODE"`
	ContentType    string             `json:"contentType___NODE,omitempty"`
	Internal       Internal           `json:"internal"`

	// Partition is the language collection the item was fetched into.
	Partition string `json:"-"`
}

func (n *ItemNode) NodeID() string       { return n.ID }
func (n *ItemNode) NodeCodename() string { return n.System.Codename }
func (n *ItemNode) NodeType() string     { return n.Internal.Type }
func (n *ItemNode) NodeLanguage() string { return n.Partition }
func (n *ItemNode) NodeDigest() string   { return n.Internal.ContentDigest }

// Clone returns a deep copy of the item.
func (n *ItemNode) Clone() *ItemNode {
	if n == nil {
		return nil
	}
	c := *n
	c.System.SitemapLocations = slices.Clone(n.System.SitemapLocations)
	if n.Elements != nil {
		c.Elements = make(map[string]Element, len(n.Elements))
		for name, el := range n.Elements {
			c.Elements[name] = el.clone()
		}
	}
	c.OtherLanguages = n.OtherLanguages.clone()
	return &c
}

// ElementNames returns element names in sorted order.
func (n *ItemNode) ElementNames() []string {
	return slices.Sorted(maps.Keys(n.Elements))
}

// TypeSystem is the system section of type and taxonomy nodes.
type TypeSystem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Codename     string    `json:"codename"`
	LastModified time.Time `json:"last_modified"`
}

// TypeNode is a content type.
type TypeNode struct {
	ID           string                          `json:"id"`
	System       TypeSystem                      `json:"system"`
	Elements     map[string]delivery.TypeElement `json:"elements"`
	ContentItems RelationField                   `json:"contentItems___NODE"`
	Internal     Internal                        `json:"internal"`
}

func (n *TypeNode) NodeID() string       { return n.ID }
func (n *TypeNode) NodeCodename() string { return n.System.Codename }
func (n *TypeNode) NodeType() string     { return n.Internal.Type }
func (n *TypeNode) NodeLanguage() string { return "" }
func (n *TypeNode) NodeDigest() string   { return n.Internal.ContentDigest }

// Clone returns a deep copy of the type.
func (n *TypeNode) Clone() *TypeNode {
	if n == nil {
		return nil
	}
	c := *n
	if n.Elements != nil {
		c.Elements = make(map[string]delivery.TypeElement, len(n.Elements))
		for name, el := range n.Elements {
			el.Options = slices.Clone(el.Options)
			c.Elements[name] = el
		}
	}
	c.ContentItems = n.ContentItems.clone()
	return &c
}

// Term is one node of a taxonomy term tree.
type Term struct {
	Name     string `json:"name"`
	Codename string `json:"codename"`
	Terms    []Term `json:"terms"`
}

func cloneTerms(terms []Term) []Term {
	if terms == nil {
		return nil
	}
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = Term{Name: t.Name, Codename: t.Codename, Terms: cloneTerms(t.Terms)}
	}
	return out
}

// TaxonomyNode is a taxonomy group with its term tree.
type TaxonomyNode struct {
	ID       string     `json:"id"`
	System   TypeSystem `json:"system"`
	Terms    []Term     `json:"terms"`
	Internal Internal   `json:"internal"`
}

func (n *TaxonomyNode) NodeID() string       { return n.ID }
func (n *TaxonomyNode) NodeCodename() string { return n.System.Codename }
func (n *TaxonomyNode) NodeType() string     { return n.Internal.Type }
func (n *TaxonomyNode) NodeLanguage() string { return "" }
func (n *TaxonomyNode) NodeDigest() string   { return n.Internal.ContentDigest }

// Clone returns a deep copy of the taxonomy.
func (n *TaxonomyNode) Clone() *TaxonomyNode {
	if n == nil {
		return nil
	}
	c := *n
	c.Terms = cloneTerms(n.Terms)
	return &c
}

// Seal returns a copy of node with its content digest set to the SHA-256 of
// the node's JSON form (computed with an empty digest). A nil node is a
// structure error.
func Seal(node Node) (Node, error) {
	switch n := node.(type) {
	case *ItemNode:
		if n == nil {
			return nil, errNilNode("item")
		}
		c := n.Clone()
		c.Internal.ContentDigest = ""
		d, err := digest(c)
		c.Internal.ContentDigest = d
		return c, err
	case *TypeNode:
		if n == nil {
			return nil, errNilNode("type")
		}
		c := n.Clone()
		c.Internal.ContentDigest = ""
		d, err := digest(c)
		c.Internal.ContentDigest = d
		return c, err
	case *TaxonomyNode:
		if n == nil {
			return nil, errNilNode("taxonomy")
		}
		c := n.Clone()
		c.Internal.ContentDigest = ""
		d, err := digest(c)
		c.Internal.ContentDigest = d
		return c, err
	case nil:
		return nil, errNilNode("")
	default:
		return nil, errors.InternalError("unsupported node kind").
			WithContext("node_type", node.NodeType()).
			Build()
	}
}

func errNilNode(kind string) error {
	b := errors.StructureError("node is nil")
	if kind != "" {
		b = b.WithContext("kind", kind)
	}
	return b.Build()
}

func digest(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "failed to encode node").Build()
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
