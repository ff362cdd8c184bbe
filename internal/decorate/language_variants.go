package decorate

import (
	"git.home.luguber.info/inful/kontentsource/internal/kontent"
)

// LanguageVariants links every default-language item with the items sharing
// its codename in the other languages, in both directions.
func LanguageVariants(c *kontent.Collection) (*kontent.Collection, *kontent.Report) {
	out := c.Clone()
	report := kontent.NewReport(PassLanguageVariants)

	for _, item := range out.AllItems() {
		if item != nil && item.OtherLanguages == nil {
			item.OtherLanguages = kontent.RelationField{}
		}
	}

	indexes := make(map[string]map[string]*kontent.ItemNode, len(out.Languages))
	for _, lang := range out.Languages {
		indexes[lang] = indexByCodename(out.ItemsIn(lang))
	}

	for _, item := range out.ItemsIn(out.DefaultLanguage) {
		if item == nil || item.System.Codename == "" {
			report.Skip(out.DefaultLanguage, codenameOf(item), errMissingCodename(item))
			continue
		}
		for _, lang := range out.Languages {
			variant, ok := indexes[lang][item.System.Codename]
			if !ok {
				continue
			}
			item.OtherLanguages = item.OtherLanguages.With(variant.ID)
			variant.OtherLanguages = variant.OtherLanguages.With(item.ID)
		}
		report.Decorated(out.DefaultLanguage, item.System.Codename)
	}
	return out, report
}
