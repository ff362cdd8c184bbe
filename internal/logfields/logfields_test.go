package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"ProjectID", KeyProjectID, "p-1", ProjectID("p-1")},
		{"Language", KeyLanguage, "cz", Language("cz")},
		{"Codename", KeyCodename, "coffee_beverages", Codename("coffee_beverages")},
		{"ItemID", KeyItemID, "id-1", ItemID("id-1")},
		{"NodeID", KeyNodeID, "n-1", NodeID("n-1")},
		{"NodeType", KeyNodeType, "KontentItemArticle", NodeType("KontentItemArticle")},
		{"Element", KeyElement, "body", Element("body")},
		{"Taxonomy", KeyTaxonomy, "personas", Taxonomy("personas")},
		{"Resource", KeyResource, "items", Resource("items")},
		{"Batch", KeyBatch, "types", Batch("types")},
		{"Pass", KeyPass, "rich_text", Pass("rich_text")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric & float helpers.
func TestNumericHelpers(t *testing.T) {
	if v := Count(5); v.Key != KeyCount {
		t.Fatalf("Count key mismatch: %s", v.Key)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("Error key mismatch: %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("Expected empty error string, got %s", attr.Value.String())
	}
	attr = Error(errTest{})
	if attr.Value.String() != "err-test" {
		t.Fatalf("Expected 'err-test', got %s", attr.Value.String())
	}
}

type errTest struct{}

func (e errTest) Error() string { return "err-test" }
