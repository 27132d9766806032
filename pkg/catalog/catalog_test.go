package catalog_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-onboard/pkg/catalog"
	"github.com/goliatone/go-onboard/pkg/schema"
)

var serviceFields = []schema.Field{
	{Name: "name", Label: "Hizmet Adı", Type: schema.FieldTypeText, Required: true},
	{Name: "price", Label: "Fiyat", Type: schema.FieldTypeCurrency, Required: true},
	{Name: "note", Label: "Not", Type: schema.FieldTypeTextarea},
}

func TestAddCommitsDraftWithFreshID(t *testing.T) {
	list := catalog.NewList(nil)

	item, err := list.Add(serviceFields, catalog.Item{
		"name":  "Saç Kesimi",
		"price": 250.0,
	})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if item.ID() == "" {
		t.Fatal("committed item has no id")
	}
	if got := list.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}

	second, err := list.Add(serviceFields, catalog.Item{"name": "Sakal", "price": 100.0})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if second.ID() == item.ID() {
		t.Fatal("two committed items share an id")
	}
}

func TestAddRejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		draft catalog.Item
		want  string
	}{
		{
			name:  "all missing",
			draft: catalog.Item{},
			want:  "Hizmet Adı, Fiyat zorunludur",
		},
		{
			name:  "one missing",
			draft: catalog.Item{"name": "Saç Kesimi"},
			want:  "Fiyat zorunludur",
		},
		{
			name:  "whitespace counts as missing",
			draft: catalog.Item{"name": "  ", "price": 250.0},
			want:  "Hizmet Adı zorunludur",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := catalog.NewList(nil)
			_, err := list.Add(serviceFields, tt.draft)
			if err == nil {
				t.Fatal("Add() accepted an incomplete draft")
			}
			if err.Error() != tt.want {
				t.Fatalf("Add() error = %q, want %q", err, tt.want)
			}
			if list.Len() != 0 {
				t.Fatal("rejected draft was committed")
			}
		})
	}
}

func TestAddIgnoresOptionalFields(t *testing.T) {
	list := catalog.NewList(nil)
	if _, err := list.Add(serviceFields, catalog.Item{"name": "Fön", "price": 150.0}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
}

func TestRemoveFiltersByID(t *testing.T) {
	list := catalog.NewList(nil)
	first, _ := list.Add(serviceFields, catalog.Item{"name": "Saç", "price": 250.0})
	second, _ := list.Add(serviceFields, catalog.Item{"name": "Sakal", "price": 100.0})

	list.Remove(first.ID())
	items := list.Items()
	if len(items) != 1 || items[0].ID() != second.ID() {
		t.Fatalf("Remove() left %+v", items)
	}

	// Unknown ids are a no-op.
	list.Remove("missing")
	if list.Len() != 1 {
		t.Fatalf("Len() = %d after removing unknown id", list.Len())
	}
}

func TestNewListRehydratesFromValueBag(t *testing.T) {
	// Value bags round-trip through JSON, so items come back as []any of
	// map[string]any.
	raw := []any{
		map[string]any{"id": "a1", "name": "Saç", "price": 250.0},
		map[string]any{"id": "a2", "name": "Sakal", "price": 100.0},
	}

	list := catalog.NewList(raw)
	want := []catalog.Item{
		{"id": "a1", "name": "Saç", "price": 250.0},
		{"id": "a2", "name": "Sakal", "price": 100.0},
	}
	if diff := cmp.Diff(want, list.Items()); diff != "" {
		t.Fatalf("NewList() mismatch (-want +got):\n%s", diff)
	}

	native := catalog.NewList(list.Items())
	if native.Len() != 2 {
		t.Fatalf("NewList([]Item) Len() = %d, want 2", native.Len())
	}
}

func TestMergeMintsFreshIDs(t *testing.T) {
	list := catalog.NewList(nil)
	existing, _ := list.Add(serviceFields, catalog.Item{"name": "Saç", "price": 250.0})

	added := list.Merge([]map[string]any{
		{"id": existing.ID(), "name": "Manikür", "price": 300.0},
		{"name": "Pedikür", "price": 350.0},
	})
	if added != 2 {
		t.Fatalf("Merge() = %d, want 2", added)
	}

	seen := make(map[string]bool)
	for _, item := range list.Items() {
		if item.ID() == "" {
			t.Fatalf("merged item has no id: %+v", item)
		}
		if seen[item.ID()] {
			t.Fatalf("duplicate id %q after merge", item.ID())
		}
		seen[item.ID()] = true
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	list := catalog.NewList(nil)
	list.Add(serviceFields, catalog.Item{"name": "Saç", "price": 250.0})

	items := list.Items()
	items[0] = catalog.Item{"name": "tampered"}
	if list.Items()[0]["name"] != "Saç" {
		t.Fatal("Items() exposed internal storage")
	}
}
