package provider

import (
	"testing"

	"github.com/graphrapids/graphsettings/internal/scoped"
)

func TestSummaryRecord(t *testing.T) {
	rec, nerr := SummaryRecord(scoped.IconSets, map[string]any{
		"iconSetId":        "icons-alpha",
		"name":             "Alpha",
		"draftVersion":     float64(3),
		"publishedVersion": float64(2),
	})
	if nerr != nil {
		t.Fatalf("SummaryRecord error: %v", nerr)
	}
	if rec["id"] != "icons-alpha" {
		t.Errorf("id = %v, want icons-alpha", rec["id"])
	}
	if rec["name"] != "Alpha" || rec["draftVersion"] != float64(3) {
		t.Errorf("summary fields should be spread alongside id, got %v", rec)
	}
}

func TestSummaryRecord_NumericID(t *testing.T) {
	rec, nerr := SummaryRecord(scoped.Themes, map[string]any{"themeId": float64(7)})
	if nerr != nil {
		t.Fatalf("SummaryRecord error: %v", nerr)
	}
	if rec["id"] != "7" {
		t.Errorf("id = %v, want 7", rec["id"])
	}
}

func TestSummaryRecord_MissingIdentifier(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"absent", map[string]any{"name": "Alpha"}},
		{"empty string", map[string]any{"iconSetId": ""}},
		{"wrong type", map[string]any{"iconSetId": true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, nerr := SummaryRecord(scoped.IconSets, tc.raw); nerr == nil {
				t.Errorf("SummaryRecord(%v) should fail", tc.raw)
			}
		})
	}
}

func TestDetailRecord_FlattensDraft(t *testing.T) {
	rec, nerr := DetailRecord(scoped.IconSets, map[string]any{
		"iconSetId": "icons-alpha",
		"draft": map[string]any{
			"name":    "Alpha",
			"version": float64(3),
			"entries": map[string]any{"router": "a.svg"},
		},
		"publishedVersions": []any{map[string]any{"version": float64(2)}},
	})
	if nerr != nil {
		t.Fatalf("DetailRecord error: %v", nerr)
	}
	if rec["name"] != "Alpha" {
		t.Errorf("draft.name should be flattened to top level, got %v", rec["name"])
	}
	if rec["version"] != float64(3) {
		t.Errorf("draft.version should be flattened, got %v", rec["version"])
	}
	if rec["publishedVersions"] == nil {
		t.Error("top-level fields must survive the flatten")
	}
}

func TestDetailRecord_DraftWinsOnCollision(t *testing.T) {
	rec, nerr := DetailRecord(scoped.Themes, map[string]any{
		"themeId": "dark",
		"name":    "stale top-level name",
		"draft":   map[string]any{"name": "Dark"},
	})
	if nerr != nil {
		t.Fatalf("DetailRecord error: %v", nerr)
	}
	if rec["name"] != "Dark" {
		t.Errorf("draft must win on key collision, got %v", rec["name"])
	}
}

func TestDetailRecord_IdempotentOnFlatRecord(t *testing.T) {
	flat := map[string]any{"graphTypeId": "topology", "name": "Topology"}
	rec, nerr := DetailRecord(scoped.GraphTypes, flat)
	if nerr != nil {
		t.Fatalf("DetailRecord error: %v", nerr)
	}
	again, nerr := DetailRecord(scoped.GraphTypes, rec)
	if nerr != nil {
		t.Fatalf("DetailRecord error on re-flatten: %v", nerr)
	}
	if again["name"] != "Topology" || again["id"] != "topology" || len(again) != len(rec) {
		t.Errorf("re-flatten should be a no-op, got %v then %v", rec, again)
	}
}
