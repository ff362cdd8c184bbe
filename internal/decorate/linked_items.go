package decorate

import (
	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
	"git.home.luguber.info/inful/kontentsource/internal/kontent"
)

// resolver builds one element relation from its referenced codenames. targets
// holds the valid items of the partition in collection order and index maps
// their codenames.
type resolver func(codenames []string, targets []*kontent.ItemNode, index map[string]*kontent.ItemNode) kontent.RelationField

// LinkedItems resolves linked_items elements against items of the same
// language, in reference order. Unknown codenames are dropped.
func LinkedItems(c *kontent.Collection) (*kontent.Collection, *kontent.Report) {
	return resolveElements(c, PassLinkedItems, kontent.ElementLinkedItems, inReferenceOrder)
}

// RichText resolves the inline items of rich_text elements against items of
// the same language, in collection order. Every rich_text element ends up
// with a relation, empty when it references nothing.
func RichText(c *kontent.Collection) (*kontent.Collection, *kontent.Report) {
	return resolveElements(c, PassRichText, kontent.ElementRichText, inCollectionOrder)
}

func inReferenceOrder(codenames []string, _ []*kontent.ItemNode, index map[string]*kontent.ItemNode) kontent.RelationField {
	related := kontent.RelationField{}
	for _, codename := range codenames {
		if target, ok := index[codename]; ok {
			related = related.With(target.ID)
		}
	}
	return related
}

func inCollectionOrder(codenames []string, targets []*kontent.ItemNode, _ map[string]*kontent.ItemNode) kontent.RelationField {
	related := kontent.RelationField{}
	if len(codenames) == 0 {
		return related
	}
	wanted := make(map[string]struct{}, len(codenames))
	for _, codename := range codenames {
		wanted[codename] = struct{}{}
	}
	for _, target := range targets {
		if _, ok := wanted[target.System.Codename]; ok {
			related = related.With(target.ID)
		}
	}
	return related
}

// resolveElements recomputes the relation of every element of kind from its
// LinkedItemCodenames. Items failing the structural check are skipped and
// cannot be link targets.
func resolveElements(c *kontent.Collection, pass string, kind kontent.ElementType, resolve resolver) (*kontent.Collection, *kontent.Report) {
	out := c.Clone()
	report := kontent.NewReport(pass)

	for _, lang := range out.Partitions() {
		items := out.ItemsIn(lang)
		valid := make(map[*kontent.ItemNode]error, len(items))
		for _, item := range items {
			valid[item] = kontent.ValidateStructure(item)
		}
		targets := make([]*kontent.ItemNode, 0, len(items))
		for _, item := range items {
			if valid[item] == nil {
				targets = append(targets, item)
			}
		}
		index := indexByCodename(targets)

		for _, item := range items {
			if err := valid[item]; err != nil {
				report.Skip(lang, codenameOf(item), err)
				continue
			}
			for _, name := range item.ElementNames() {
				el := item.Elements[name]
				if el.Type != kind {
					continue
				}
				el.Relation = resolve(el.LinkedItemCodenames, targets, index)
				item.Elements[name] = el
			}
			report.Decorated(lang, item.System.Codename)
		}
	}
	return out, report
}

// indexByCodename maps codenames to items. The first item wins when a
// codename repeats.
func indexByCodename(items []*kontent.ItemNode) map[string]*kontent.ItemNode {
	index := make(map[string]*kontent.ItemNode, len(items))
	for _, item := range items {
		if item == nil || item.System.Codename == "" {
			continue
		}
		if _, exists := index[item.System.Codename]; !exists {
			index[item.System.Codename] = item
		}
	}
	return index
}

func codenameOf(item *kontent.ItemNode) string {
	if item == nil {
		return ""
	}
	return item.System.Codename
}

func errMissingCodename(item *kontent.ItemNode) error {
	if item == nil {
		return errors.StructureError("item is nil").Build()
	}
	return errors.StructureError("item has no system codename").
		WithContext("item_id", item.ID).
		Build()
}
