package kontent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kontentsource/internal/delivery"
	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
)

func seedID(seed string) string { return "id:" + seed }

func TestParseElementType(t *testing.T) {
	require.Equal(t, ElementLinkedItems, ParseElementType("modular_content"))
	require.Equal(t, ElementLinkedItems, ParseElementType("linked_items"))
	require.Equal(t, ElementRichText, ParseElementType("rich_text"))
	require.Equal(t, ElementCustom, ParseElementType("something_new"))
}

func TestCaseConversions(t *testing.T) {
	cases := map[string][2]string{
		"product_status":  {"product-status", "ProductStatus"},
		"productStatus":   {"product-status", "ProductStatus"},
		"Personas":        {"personas", "Personas"},
		"HTTPServer":      {"http-server", "HttpServer"},
		"café au lait":    {"cafe-au-lait", "CafeAuLait"},
		"  --trim__me-- ": {"trim-me", "TrimMe"},
	}
	for in, want := range cases {
		require.Equal(t, want[0], ParamCase(in), in)
		require.Equal(t, want[1], PascalCase(in), in)
	}
}

func TestTaxonomySeed(t *testing.T) {
	require.Equal(t, "kentico-kontent-taxonomy-product-status", TaxonomySeed("Product_Status"))
	require.Equal(t, "kentico-kontent-taxonomy-personas", TaxonomySeed("personas"))
}

func TestUUIDNodeIDIsStable(t *testing.T) {
	a := UUIDNodeID(TaxonomySeed("Product_Status"))
	b := UUIDNodeID(TaxonomySeed("product-status"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, UUIDNodeID(TaxonomySeed("personas")))
	require.Len(t, a, 36)
}

func TestRelationFieldWith(t *testing.T) {
	var r RelationField
	r = r.With("a", "b", "a", "")
	require.Equal(t, RelationField{"a", "b"}, r)
	require.Equal(t, RelationField{"a", "b"}, r.With("b"))

	empty := RelationField(nil).With()
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestElementJSONRelation(t *testing.T) {
	el := Element{Name: "body", Type: ElementRichText}
	data, err := json.Marshal(el)
	require.NoError(t, err)
	require.NotContains(t, string(data), "linked_items___NODE")

	el.Relation = RelationField{}
	data, err = json.Marshal(el)
	require.NoError(t, err)
	require.Contains(t, string(data), `"linked_items___NODE":[]`)
}

func TestCollectionCloneIsDeep(t *testing.T) {
	c := NewCollection("default", []string{"cz"})
	c.Items["default"] = []*ItemNode{{
		ID:     "a",
		System: ItemSystem{Codename: "a"},
		Elements: map[string]Element{
			"topic": {Type: ElementLinkedItems, LinkedItemCodenames: []string{"b"}, Relation: RelationField{"x"}},
		},
	}}
	c.Types = []*TypeNode{{ID: "t", ContentItems: RelationField{"a"}}}

	clone := c.Clone()
	clone.Items["default"][0].Elements["topic"].Relation[0] = "changed"
	clone.Types[0].ContentItems = append(clone.Types[0].ContentItems, "b")

	require.Equal(t, "x", c.Items["default"][0].Elements["topic"].Relation[0])
	require.Equal(t, RelationField{"a"}, c.Types[0].ContentItems)
	require.Equal(t, []string{"default", "cz"}, clone.Partitions())
}

func TestValidateStructure(t *testing.T) {
	require.True(t, errors.HasCategory(ValidateStructure(nil), errors.CategoryStructure))
	require.Error(t, ValidateStructure(&ItemNode{Elements: map[string]Element{}}))
	require.Error(t, ValidateStructure(&ItemNode{System: ItemSystem{Codename: "a"}}))
	require.NoError(t, ValidateStructure(&ItemNode{System: ItemSystem{Codename: "a"}, Elements: map[string]Element{}}))
}

func TestNormalizeItem(t *testing.T) {
	n := NewNormalizer(seedID, nil)
	raw := delivery.Item{
		System: delivery.System{ID: "1", Codename: "coffee", Type: "blog_post"},
		Elements: map[string]delivery.Element{
			"related": {Type: "modular_content", Name: "Related", Value: json.RawMessage(`["tea","milk"]`)},
			"body": {
				Type:           "rich_text",
				Value:          json.RawMessage(`"<object type=\"application/kenticocloud\" data-type=\"item\" data-codename=\"tea\"></object>"`),
				ModularContent: []string{"tea"},
			},
			"title": {Type: "text", Value: json.RawMessage(`"Coffee"`)},
		},
	}

	node, err := n.Item("cz", raw)
	require.NoError(t, err)
	require.Equal(t, "id:kontent-item-cz-coffee", node.ID)
	require.Equal(t, "KontentItemBlogPost", node.NodeType())
	require.Equal(t, "cz", node.System.Language)
	require.Equal(t, "cz", node.NodeLanguage())
	require.Equal(t, []string{"body", "related", "title"}, node.ElementNames())

	related := node.Elements["related"]
	require.Equal(t, ElementLinkedItems, related.Type)
	require.Equal(t, []string{"tea", "milk"}, related.LinkedItemCodenames)
	require.Nil(t, related.Relation)

	body := node.Elements["body"]
	require.Equal(t, []string{"tea"}, body.LinkedItemCodenames)
	require.Contains(t, body.ResolvedHTML, `data-codename="tea"`)
	require.NotNil(t, body.Images)
}

func TestNormalizeItemsSkipsBrokenItems(t *testing.T) {
	n := NewNormalizer(seedID, nil)
	raws := []delivery.Item{
		{System: delivery.System{Codename: "ok", Type: "article"}},
		{System: delivery.System{Codename: ""}},
		{System: delivery.System{Codename: "bad"}, Elements: map[string]delivery.Element{
			"topic": {Type: "linked_items", Value: json.RawMessage(`{"not":"a list"}`)},
		}},
	}

	nodes, report := n.Items("default", raws)
	require.Len(t, nodes, 1)
	require.Equal(t, "ok", nodes[0].System.Codename)
	require.NotNil(t, nodes[0].Elements)
	require.Equal(t, 2, report.Count(StatusSkipped))
	for _, o := range report.Skipped() {
		require.True(t, errors.HasCategory(o.Err, errors.CategoryStructure))
	}
}

func TestNormalizeTaxonomies(t *testing.T) {
	n := NewNormalizer(seedID, nil)
	raws := []delivery.Taxonomy{
		{
			System: delivery.TypeSystem{Codename: "Product_Status"},
			Terms: []delivery.TaxonomyTerm{
				{Name: "Active", Codename: "active", Terms: []delivery.TaxonomyTerm{{Name: "New", Codename: "new"}}},
			},
		},
		{System: delivery.TypeSystem{Codename: "__"}},
	}

	nodes, report := n.Taxonomies(raws)
	require.Len(t, nodes, 1)
	require.Equal(t, "id:kentico-kontent-taxonomy-product-status", nodes[0].ID)
	require.Equal(t, "KontentTaxonomyProductStatus", nodes[0].NodeType())
	require.Equal(t, "new", nodes[0].Terms[0].Terms[0].Codename)
	require.Len(t, report.Skipped(), 1)
}

func TestNormalizeTypes(t *testing.T) {
	n := NewNormalizer(seedID, nil)
	nodes, report := n.Types([]delivery.ContentType{
		{System: delivery.TypeSystem{Codename: "article"}},
		{System: delivery.TypeSystem{}},
	})
	require.Len(t, nodes, 1)
	require.Equal(t, "id:kontent-type-article", nodes[0].ID)
	require.NotNil(t, nodes[0].Elements)
	require.Equal(t, 1, report.Count(StatusSkipped))
}

func TestSealSetsDigest(t *testing.T) {
	item := &ItemNode{ID: "a", System: ItemSystem{Codename: "a"}, Elements: map[string]Element{}}
	sealed, err := Seal(item)
	require.NoError(t, err)

	again, err := Seal(sealed)
	require.NoError(t, err)

	digest := sealed.(*ItemNode).Internal.ContentDigest
	require.Len(t, digest, 64)
	require.Equal(t, digest, again.(*ItemNode).Internal.ContentDigest)
	require.Empty(t, item.Internal.ContentDigest)
}

func TestSealRejectsNilNodes(t *testing.T) {
	for name, node := range map[string]Node{
		"item":      (*ItemNode)(nil),
		"type":      (*TypeNode)(nil),
		"taxonomy":  (*TaxonomyNode)(nil),
		"interface": nil,
	} {
		t.Run(name, func(t *testing.T) {
			sealed, err := Seal(node)
			require.Nil(t, sealed)
			require.True(t, errors.HasCategory(err, errors.CategoryStructure))
		})
	}
}
