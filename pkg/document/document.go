// Package document models the editor buffer a transform runs against: a text
// snapshot plus an atomic "apply these range edits" operation.
package document

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidRange is returned when an edit falls outside the snapshot.
	ErrInvalidRange = errors.New("edit range out of bounds")
	// ErrOverlappingEdits is returned when two edits in one batch touch the same text.
	ErrOverlappingEdits = errors.New("overlapping edits")
)

// Edit replaces the half-open byte range [Start, End) of a snapshot with Text.
// Start == End is an insertion.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Document is an editable text buffer.
//
// All edits handed to Apply must be computed against the text returned by one
// Text call; Apply installs them together or not at all.
type Document interface {
	Text() string
	Apply(ctx context.Context, edits []Edit) error
}

// Host hands out the document the user is currently working on, if any.
type Host interface {
	ActiveDocument() (Document, bool)
}

// ApplyEdits returns text with every edit applied. Offsets refer to the
// original text, so the order of edits in the slice does not matter.
// Insertions at the same offset keep their slice order.
func ApplyEdits(text string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	prevEnd := 0
	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(text) {
			return "", fmt.Errorf("%w: [%d, %d) in text of length %d", ErrInvalidRange, e.Start, e.End, len(text))
		}
		if i > 0 && e.Start < prevEnd {
			return "", fmt.Errorf("%w: [%d, %d) starts before %d", ErrOverlappingEdits, e.Start, e.End, prevEnd)
		}
		prevEnd = e.End
	}

	var b strings.Builder
	b.Grow(len(text))
	cursor := 0
	for _, e := range sorted {
		b.WriteString(text[cursor:e.Start])
		b.WriteString(e.Text)
		cursor = e.End
	}
	b.WriteString(text[cursor:])
	return b.String(), nil
}

// Overlaps reports whether [start, end) intersects any edit that replaces text.
// Pure insertions never overlap.
func Overlaps(edits []Edit, start, end int) bool {
	for _, e := range edits {
		if e.Start == e.End {
			continue
		}
		if start < e.End && e.Start < end {
			return true
		}
	}
	return false
}
