package decorate

import (
	"git.home.luguber.info/inful/kontentsource/internal/kontent"
)

// TypeItems sets each type's contentItems relation to the items of that
// type across all languages, and points every such item back at its type.
func TypeItems(c *kontent.Collection) (*kontent.Collection, *kontent.Report) {
	out := c.Clone()
	report := kontent.NewReport(PassTypeItems)
	items := out.AllItems()

	for _, t := range out.Types {
		if t == nil {
			continue
		}
		related := kontent.RelationField{}
		for _, item := range items {
			if item == nil || item.System.Type != t.System.Codename {
				continue
			}
			related = related.With(item.ID)
			item.ContentType = t.ID
		}
		t.ContentItems = related
		report.Decorated("", t.System.Codename)
	}
	return out, report
}
