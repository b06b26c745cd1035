// Package scroll decides which menu category is in view and when the category selector
// should pin to the top of the viewport.
package scroll

import "math"

// DefaultReferenceOffset sits just below the sticky header.
const DefaultReferenceOffset = 150

// Section is a category heading and its top edge relative to the viewport.
type Section struct {
	ID  string  `json:"id"`
	Top float64 `json:"top"`
}

// ActiveCategory returns the section whose top is nearest to the reference line.
// Ties go to the earlier section. ok is false when sections is empty.
func ActiveCategory(sections []Section, referenceOffset float64) (id string, ok bool) {
	best := math.Inf(1)
	for _, s := range sections {
		if d := math.Abs(s.Top - referenceOffset); d < best {
			best, id, ok = d, s.ID, true
		}
	}
	return id, ok
}
