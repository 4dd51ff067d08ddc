// Package timeline wraps a project's daily entries in per-entry
// expand/collapse view state. The store returns entries newest-first; this
// layer never re-queries the change source and never persists anything.
package timeline

import "github.com/jmorales/devdiary/internal/models"

// Item is one timeline row: a daily entry plus its visibility flag.
type Item struct {
	Entry    models.DailyEntry
	Expanded bool
}

type Timeline struct {
	items []Item
}

// New builds a timeline over entries as returned by the store (date
// descending). Every item starts collapsed.
func New(entries []models.DailyEntry) *Timeline {
	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	return &Timeline{items: items}
}

func (t *Timeline) Len() int {
	return len(t.items)
}

func (t *Timeline) Items() []Item {
	return t.items
}

// At returns the item at i, or nil if out of range.
func (t *Timeline) At(i int) *Item {
	if i < 0 || i >= len(t.items) {
		return nil
	}
	return &t.items[i]
}

// Toggle flips the expanded flag of the item at i, leaving the rest alone.
// An out-of-range index is a no-op.
func (t *Timeline) Toggle(i int) {
	if i < 0 || i >= len(t.items) {
		return
	}
	t.items[i].Expanded = !t.items[i].Expanded
}
