package delivery

import (
	"encoding/json"
	"time"
)

// System is the system section shared by items.
type System struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Codename         string    `json:"codename"`
	Language         string    `json:"language"`
	Type             string    `json:"type"`
	Collection       string    `json:"collection,omitempty"`
	SitemapLocations []string  `json:"sitemap_locations"`
	LastModified     time.Time `json:"last_modified"`
	WorkflowStep     string    `json:"workflow_step,omitempty"`
}

// Item is a raw content item in one language.
type Item struct {
	System   System             `json:"system"`
	Elements map[string]Element `json:"elements"`
}

// Element is a raw item element. Value is left undecoded because its shape
// depends on Type.
type Element struct {
	Type           string           `json:"type"`
	Name           string           `json:"name"`
	Value          json.RawMessage  `json:"value"`
	ModularContent []string         `json:"modular_content,omitempty"`
	Images         map[string]Image `json:"images,omitempty"`
	Links          map[string]Link  `json:"links,omitempty"`
	TaxonomyGroup  string           `json:"taxonomy_group,omitempty"`
}

// Image is an image embedded in a rich-text element.
type Image struct {
	ImageID     string `json:"image_id"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Link is a content item hyperlinked from a rich-text element.
type Link struct {
	Codename string `json:"codename"`
	Type     string `json:"type"`
	URLSlug  string `json:"url_slug"`
}

// TypeSystem is the system section of a content type.
type TypeSystem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Codename     string    `json:"codename"`
	LastModified time.Time `json:"last_modified"`
}

// ContentType is a raw content type.
type ContentType struct {
	System   TypeSystem             `json:"system"`
	Elements map[string]TypeElement `json:"elements"`
}

// TypeElement describes one element of a content type schema.
type TypeElement struct {
	Type          string       `json:"type"`
	Name          string       `json:"name"`
	TaxonomyGroup string       `json:"taxonomy_group,omitempty"`
	Options       []TypeOption `json:"options,omitempty"`
}

// TypeOption is a multiple choice option.
type TypeOption struct {
	Name     string `json:"name"`
	Codename string `json:"codename"`
}

// Taxonomy is a raw taxonomy group.
type Taxonomy struct {
	System TypeSystem     `json:"system"`
	Terms  []TaxonomyTerm `json:"terms"`
}

// TaxonomyTerm is one node of a taxonomy term tree.
type TaxonomyTerm struct {
	Name     string         `json:"name"`
	Codename string         `json:"codename"`
	Terms    []TaxonomyTerm `json:"terms"`
}

// Pagination is the paging envelope of listing responses.
type Pagination struct {
	Skip     int    `json:"skip"`
	Limit    int    `json:"limit"`
	Count    int    `json:"count"`
	NextPage string `json:"next_page"`
}

type itemsResponse struct {
	Items      []Item     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type typesResponse struct {
	Types      []ContentType `json:"types"`
	Pagination Pagination    `json:"pagination"`
}

type taxonomiesResponse struct {
	Taxonomies []Taxonomy `json:"taxonomies"`
	Pagination Pagination `json:"pagination"`
}
