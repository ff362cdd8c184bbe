// Package richtext resolves Delivery API rich-text HTML into site-ready markup.
package richtext

import (
	"bytes"
	"encoding/json"
	"slices"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/kontentsource/internal/delivery"
	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
)

const (
	objectType     = "application/kenticocloud"
	objectItemType = "item"

	// DefaultLinkedItemClass is the class set on placeholders of inline items.
	DefaultLinkedItemClass = "kontent-linked-item"
)

// ItemResolver renders an inline linked item. Returning an empty string
// falls back to the default placeholder.
type ItemResolver func(codename string) string

// Options configures a Renderer.
type Options struct {
	LinkPrefix      string
	LinkedItemClass string
	ResolveItem     ItemResolver
}

// Result is the outcome of rendering one rich-text element.
type Result struct {
	HTML                string
	Images              []delivery.Image
	LinkedItemCodenames []string
}

// Renderer resolves rich-text element values.
type Renderer struct {
	opts Options
}

// NewRenderer returns a Renderer with defaults applied.
func NewRenderer(opts Options) *Renderer {
	if opts.LinkedItemClass == "" {
		opts.LinkedItemClass = DefaultLinkedItemClass
	}
	return &Renderer{opts: opts}
}

// Render resolves inline items and item links in el and surfaces its images.
func (r *Renderer) Render(el delivery.Element) (Result, error) {
	var source string
	if len(el.Value) > 0 && string(el.Value) != "null" {
		if err := json.Unmarshal(el.Value, &source); err != nil {
			return Result{}, errors.WrapError(err, errors.CategoryStructure, "rich text value is not a string").
				WithContext("element", el.Name).
				Build()
		}
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(source), body)
	if err != nil {
		return Result{}, errors.WrapError(err, errors.CategoryStructure, "failed to parse rich text").
			WithContext("element", el.Name).
			Build()
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	w := &walker{renderer: r, links: el.Links}
	w.walk(body)

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return Result{}, errors.WrapError(err, errors.CategoryInternal, "failed to render rich text").
				WithContext("element", el.Name).
				Build()
		}
	}

	codenames := dedupe(el.ModularContent)
	if len(codenames) == 0 {
		codenames = dedupe(w.codenames)
	}

	return Result{
		HTML:                buf.String(),
		Images:              orderImages(el.Images, w.imageIDs),
		LinkedItemCodenames: codenames,
	}, nil
}

type walker struct {
	renderer  *Renderer
	links     map[string]delivery.Link
	codenames []string
	imageIDs  []string
}

func (w *walker) walk(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			if id := attr(c, "data-image-id"); id != "" {
				w.imageIDs = append(w.imageIDs, id)
			}
			switch {
			case isInlineItem(c):
				w.replaceInlineItem(n, c)
				c = next
				continue
			case c.DataAtom == atom.A:
				w.resolveLink(c)
			}
			w.walk(c)
		}
		c = next
	}
}

func isInlineItem(n *html.Node) bool {
	return n.DataAtom == atom.Object &&
		attr(n, "type") == objectType &&
		attr(n, "data-type") == objectItemType
}

func (w *walker) replaceInlineItem(parent, obj *html.Node) {
	codename := attr(obj, "data-codename")
	if codename != "" {
		w.codenames = append(w.codenames, codename)
	}

	var replacement []*html.Node
	if w.renderer.opts.ResolveItem != nil {
		if custom := w.renderer.opts.ResolveItem(codename); custom != "" {
			if parsed, err := html.ParseFragment(strings.NewReader(custom), parent); err == nil {
				replacement = parsed
			}
		}
	}
	if replacement == nil {
		replacement = []*html.Node{{
			Type:     html.ElementNode,
			Data:     "div",
			DataAtom: atom.Div,
			Attr: []html.Attribute{
				{Key: "class", Val: w.renderer.opts.LinkedItemClass},
				{Key: "data-codename", Val: codename},
			},
		}}
	}

	for _, n := range replacement {
		parent.InsertBefore(n, obj)
	}
	parent.RemoveChild(obj)
}

func (w *walker) resolveLink(a *html.Node) {
	id := attr(a, "data-item-id")
	if id == "" {
		return
	}
	link, ok := w.links[id]
	if !ok || link.URLSlug == "" {
		return
	}
	setAttr(a, "href", w.renderer.opts.LinkPrefix+link.URLSlug)
}

// orderImages lists images referenced in the markup first, in order of
// appearance, followed by the remaining images sorted by id.
func orderImages(images map[string]delivery.Image, seen []string) []delivery.Image {
	if len(images) == 0 {
		return []delivery.Image{}
	}
	out := make([]delivery.Image, 0, len(images))
	used := make(map[string]bool, len(images))
	for _, id := range seen {
		if img, ok := images[id]; ok && !used[id] {
			used[id] = true
			out = append(out, img)
		}
	}
	rest := make([]string, 0, len(images))
	for id := range images {
		if !used[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		out = append(out, images[id])
	}
	return out
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
