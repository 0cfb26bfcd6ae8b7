package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalogTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "catalog.md")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	return p
}

const sampleCatalog = `# Guild Crafting Catalog

## Blacksmithing

| item id     | label       | profession    | gear slot |
| ----------- | ----------- | ------------- | --------- |
| breastplate | Breastplate | blacksmithing | chest     |
| iron-helm   | Iron Helm   | blacksmithing | head      |

Some prose between tables is fine and must be ignored.

## Tailoring

| item id    | label      | profession | gear slot |
| :--------- | :--------- | :--------- | :-------- |
| silk-pants | Silk Pants | tailoring  | legs      |
| silk-hood  |            | tailoring  |           |
|            | broken row | tailoring  |           |
| short-row  | only two   |
`

func TestParseMarkdown(t *testing.T) {
	p := writeCatalogTemp(t, sampleCatalog)

	entries, err := ParseMarkdown(p)
	if err != nil {
		t.Fatalf("ParseMarkdown: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d: %#v", len(entries), entries)
	}

	want := map[string]string{
		"breastplate": "chest",
		"iron-helm":   "head",
		"silk-pants":  "legs",
		"silk-hood":   "",
	}
	for _, e := range entries {
		slot, ok := want[e.ItemID]
		if !ok {
			t.Fatalf("unexpected entry %q", e.ItemID)
		}
		if e.GearSlot != slot {
			t.Fatalf("entry %q gear slot = %q, want %q", e.ItemID, e.GearSlot, slot)
		}
	}
}

func TestParseMarkdown_MissingFile(t *testing.T) {
	if _, err := ParseMarkdown(filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadMarkdown(t *testing.T) {
	p := writeCatalogTemp(t, sampleCatalog)

	idx, err := LoadMarkdown(p)
	if err != nil {
		t.Fatalf("LoadMarkdown: %v", err)
	}
	if idx.Len() != 4 {
		t.Fatalf("expected 4 indexed entries, got %d", idx.Len())
	}

	res := idx.TopK("iron helm", 3)
	if len(res) == 0 || res[0].Entry.ItemID != "iron-helm" {
		t.Fatalf("expected iron-helm first, got %#v", res)
	}

	// Blank labels in the source get a display label derived from the id.
	e, ok := idx.ByItemID("silk-hood")
	if !ok || e.Label != "Silk Hood" {
		t.Fatalf("unexpected silk-hood entry: %+v (ok=%v)", e, ok)
	}
}
