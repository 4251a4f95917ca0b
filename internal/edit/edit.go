// Package edit applies span-based text edits to a single buffer.
package edit

import (
	"errors"
	"fmt"
	"sort"

	"pomorg/internal/source"
)

var (
	// ErrConflict is returned when two edits overlap.
	ErrConflict = errors.New("overlapping edits")
	// ErrStale is returned when an edit's OldText no longer matches the buffer.
	ErrStale = errors.New("existing text does not match expected content")
	// ErrOutOfRange is returned for spans past the end of the buffer.
	ErrOutOfRange = errors.New("edit span out of range")
)

// Edit replaces Span with NewText. When OldText is set the covered bytes must
// equal it.
type Edit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Replace builds a guarded replacement of the bytes currently at span.
func Replace(content []byte, span source.Span, newText string) Edit {
	return Edit{Span: span, NewText: newText, OldText: string(content[span.Start:span.End])}
}

// Insert builds a zero-length insertion at off.
func Insert(file source.FileID, off uint32, text string) Edit {
	return Edit{Span: source.Span{File: file, Start: off, End: off}, NewText: text}
}

// Apply returns a copy of content with all edits applied. Insertions at the
// same offset keep their relative order.
func Apply(content []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return append([]byte(nil), content...), nil
	}
	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start < sorted[j].Span.Start
		}
		return sorted[i].Span.End < sorted[j].Span.End
	})

	for i, e := range sorted {
		if e.Span.Start > e.Span.End || int(e.Span.End) > len(content) {
			return nil, fmt.Errorf("%w: %s", ErrOutOfRange, e.Span)
		}
		if e.OldText != "" && string(content[e.Span.Start:e.Span.End]) != e.OldText {
			return nil, fmt.Errorf("%w at %s", ErrStale, e.Span)
		}
		if i > 0 && spansConflict(sorted[i-1], e) {
			return nil, fmt.Errorf("%w: %s and %s", ErrConflict, sorted[i-1].Span, e.Span)
		}
	}

	out := make([]byte, 0, len(content)+growth(sorted))
	var cursor uint32
	for _, e := range sorted {
		out = append(out, content[cursor:e.Span.Start]...)
		out = append(out, e.NewText...)
		cursor = e.Span.End
	}
	out = append(out, content[cursor:]...)
	return out, nil
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are treated as half-open intervals [Start, End). Two zero-length edits
// (Start == End) never conflict. A zero-length edit conflicts with a non-zero
// span if its position is strictly inside that span.
func spansConflict(a, b Edit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func growth(edits []Edit) int {
	n := 0
	for _, e := range edits {
		if d := len(e.NewText) - int(e.Span.Len()); d > 0 {
			n += d
		}
	}
	return n
}
