// Package catalog manages the repeating-record lists behind catalog steps:
// a committed item list plus a draft record under construction. Items are
// immutable once added; edits happen by remove-and-re-add, matching the
// replace-whole-list semantics the hosting admin client uses.
package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-onboard/pkg/schema"
)

// IDKey is the reserved item key carrying the locally generated id.
const IDKey = "id"

// Item is one catalog record: the id plus one entry per configured field.
type Item map[string]any

// ID returns the item's local id, empty when the item was never committed.
func (i Item) ID() string {
	id, _ := i[IDKey].(string)
	return id
}

// NewID mints a unique local id. Uniqueness only needs to hold within one
// list for the session's lifetime; UUIDs comfortably exceed that.
func NewID() string {
	return uuid.NewString()
}

// List is the committed item collection for one catalog step.
type List struct {
	items []Item
}

// NewList seeds a list from a value-bag entry, accepting both the native
// []Item form and the []any form the bag takes after a JSON round-trip.
func NewList(value any) *List {
	list := &List{}
	switch v := value.(type) {
	case []Item:
		list.items = append(list.items, v...)
	case []any:
		for _, entry := range v {
			if m, ok := entry.(map[string]any); ok {
				list.items = append(list.items, Item(m))
			}
		}
	}
	return list
}

// Len reports the number of committed items.
func (l *List) Len() int { return len(l.items) }

// Items returns a copy of the committed records.
func (l *List) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// Add commits a draft after checking its required fields. Rejections carry a
// single aggregate message naming every missing label, comma-joined.
func (l *List) Add(fields []schema.Field, draft Item) (Item, error) {
	var missing []string
	for _, field := range fields {
		if !field.Required {
			continue
		}
		if emptyEntry(draft[field.Name]) {
			missing = append(missing, field.DisplayLabel())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s zorunludur", strings.Join(missing, ", "))
	}

	item := make(Item, len(draft)+1)
	for key, value := range draft {
		item[key] = value
	}
	item[IDKey] = NewID()
	l.items = append(l.items, item)
	return item, nil
}

// Remove filters the list by id. Removing an unknown id is a no-op.
func (l *List) Remove(id string) {
	filtered := l.items[:0]
	for _, item := range l.items {
		if item.ID() != id {
			filtered = append(filtered, item)
		}
	}
	l.items = filtered
}

// Merge appends externally sourced records (bulk ingestion), minting a fresh
// local id for each so they cannot collide with manually added items.
func (l *List) Merge(records []map[string]any) int {
	for _, record := range records {
		item := make(Item, len(record)+1)
		for key, value := range record {
			if key == IDKey {
				continue
			}
			item[key] = value
		}
		item[IDKey] = NewID()
		l.items = append(l.items, item)
	}
	return len(records)
}

func emptyEntry(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}
