// Package pages holds the pure ordering logic for a post's page list.
// Every function returns a fresh slice numbered contiguously from 1 and
// never mutates its input.
package pages

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"folio/models"
)

// OrderEntry is one item of a reorder request. PageNumber is a hint for
// relative ordering, not a guaranteed final value.
type OrderEntry struct {
	ID         string `json:"id"`
	PageNumber int    `json:"pageNumber"`
}

// Normalize sorts the input by its supplied page numbers and renumbers
// sequentially from 1. Blank titles get "Page {n}", pages without an id
// get one. Normalize is idempotent.
func Normalize(in []models.Page) []models.Page {
	out := make([]models.Page, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PageNumber < out[j].PageNumber
	})
	for i := range out {
		out[i].PageNumber = i + 1
		if out[i].Title == "" {
			out[i].Title = fmt.Sprintf("Page %d", i+1)
		}
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}

// Reorder applies a requested ordering to an existing page list. Entries
// whose id matches an existing page are placed first, in the order the
// caller listed them, carrying the requested page number. Unreferenced
// pages are appended afterward in their original relative order. The
// result is stable-sorted by the requested numbers (ties keep that
// placement order) and renumbered from 1.
func Reorder(existing []models.Page, order []OrderEntry) []models.Page {
	byID := make(map[string]models.Page, len(existing))
	for _, p := range existing {
		if p.ID != "" {
			byID[p.ID] = p
		}
	}

	placed := make([]models.Page, 0, len(existing))
	seen := make(map[string]bool, len(order))
	for _, item := range order {
		p, ok := byID[item.ID]
		if !ok || seen[item.ID] {
			continue
		}
		p.PageNumber = item.PageNumber
		placed = append(placed, p)
		seen[item.ID] = true
	}
	for _, p := range existing {
		if p.ID != "" && seen[p.ID] {
			continue
		}
		p.PageNumber = len(placed) + 1
		placed = append(placed, p)
	}

	sort.SliceStable(placed, func(i, j int) bool {
		return placed[i].PageNumber < placed[j].PageNumber
	})
	for i := range placed {
		placed[i].PageNumber = i + 1
	}
	return placed
}

// Insert places a new page at the requested position among the existing
// pages, clamped to [1, len+1]. Pages at or after the position shift up
// by one; the result is renumbered from 1.
func Insert(existing []models.Page, page models.Page, at int) []models.Page {
	sorted := make([]models.Page, len(existing))
	copy(sorted, existing)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PageNumber < sorted[j].PageNumber
	})

	if at < 1 {
		at = 1
	}
	if at > len(sorted)+1 {
		at = len(sorted) + 1
	}
	if page.ID == "" {
		page.ID = uuid.NewString()
	}

	out := make([]models.Page, 0, len(sorted)+1)
	for _, p := range sorted {
		if p.PageNumber < at {
			out = append(out, p)
		}
	}
	page.PageNumber = at
	out = append(out, page)
	for _, p := range sorted {
		if p.PageNumber >= at {
			out = append(out, p)
		}
	}
	for i := range out {
		out[i].PageNumber = i + 1
	}
	return out
}
