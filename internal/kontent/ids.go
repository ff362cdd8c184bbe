package kontent

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NodeIDFunc derives a deterministic node id from a seed.
type NodeIDFunc func(seed string) string

// Namespace is the uuid namespace node ids are derived in.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/inful/kontentsource"))

// UUIDNodeID derives a name-based (SHA-1) uuid for seed.
func UUIDNodeID(seed string) string {
	return uuid.NewSHA1(Namespace, []byte(seed)).String()
}

// ItemSeed is the id seed of an item in a language.
func ItemSeed(language, codename string) string {
	return "kontent-item-" + language + "-" + codename
}

// TypeSeed is the id seed of a content type.
func TypeSeed(codename string) string {
	return "kontent-type-" + codename
}

// TaxonomySeed is the id seed of a taxonomy group.
func TaxonomySeed(codename string) string {
	return "kentico-kontent-taxonomy-" + ParamCase(codename)
}

// Internal node type names.
func ItemNodeType(typeCodename string) string { return "KontentItem" + PascalCase(typeCodename) }
func TypeNodeType(codename string) string     { return "KontentType" + PascalCase(codename) }
func TaxonomyNodeType(codename string) string { return "KontentTaxonomy" + PascalCase(codename) }

// ParamCase lowercases s and joins its words with dashes:
// "Product_Status" and "productStatus" both become "product-status".
func ParamCase(s string) string {
	return strings.Join(words(s), "-")
}

// PascalCase joins the words of s with each word capitalized.
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// words splits s into lowercase words on separators and case boundaries.
func words(s string) []string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	rs := []rune(folded)
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}
