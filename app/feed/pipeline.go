package feed

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/g4dge/antifeed/app/rules"
)

// Assemble turns the collected items into the final output list:
// stable sort newest-first, dedup by link (falling back to id) with
// the newest occurrence winning, prepend pinned items in their
// configured order, truncate to maxItems.
//
// Pinned items bypass both the rule evaluator and the dedup key
// check: a pin may legitimately repeat a fetched link to promote it
// to the top.
func Assemble(items []Item, pins []rules.Pin, maxItems int, now time.Time) []Item {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return strings.Compare(b.IsoDate, a.IsoDate)
	})

	seen := make(map[string]struct{}, len(sorted))
	out := make([]Item, 0, len(pins)+len(sorted))

	for _, pin := range pins {
		out = append(out, NewPinnedItem(pin, now))
	}

	for _, item := range sorted {
		key := cmp.Or(item.Link, item.ID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}

	if maxItems > 0 && len(out) > maxItems {
		out = out[:maxItems]
	}
	return out
}

// NewPinnedItem synthesizes a canonical item from a pin descriptor.
// Pins are created fresh each run and carry the run timestamp.
func NewPinnedItem(pin rules.Pin, now time.Time) Item {
	return Item{
		ID:      HashID(cmp.Or(pin.URL, pin.Title)),
		Title:   pin.Title,
		Link:    pin.URL,
		Summary: pin.Note,
		IsoDate: now.UTC().Format(TimeLayout),
		Source:  "Pinned",
		Tags:    []string{},
		Pinned:  true,
	}
}
