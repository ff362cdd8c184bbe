package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyProjectID  = "project_id"
	KeyLanguage   = "language"
	KeyCodename   = "codename"
	KeyItemID     = "item_id"
	KeyNodeID     = "node_id"
	KeyNodeType   = "node_type"
	KeyElement    = "element"
	KeyTaxonomy   = "taxonomy"
	KeyResource   = "resource"
	KeyBatch      = "batch"
	KeyPass       = "pass"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func ProjectID(id string) slog.Attr   { return slog.String(KeyProjectID, id) }
func Language(l string) slog.Attr     { return slog.String(KeyLanguage, l) }
func Codename(c string) slog.Attr     { return slog.String(KeyCodename, c) }
func ItemID(id string) slog.Attr      { return slog.String(KeyItemID, id) }
func NodeID(id string) slog.Attr      { return slog.String(KeyNodeID, id) }
func NodeType(t string) slog.Attr     { return slog.String(KeyNodeType, t) }
func Element(name string) slog.Attr   { return slog.String(KeyElement, name) }
func Taxonomy(c string) slog.Attr     { return slog.String(KeyTaxonomy, c) }
func Resource(r string) slog.Attr     { return slog.String(KeyResource, r) }
func Batch(name string) slog.Attr     { return slog.String(KeyBatch, name) }
func Pass(name string) slog.Attr      { return slog.String(KeyPass, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
