// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"pomorg/internal/diag"
	"pomorg/internal/source"
)

// CheckSpan verifies that sp points into sf and is well-formed.
func CheckSpan(sf *source.File, sp source.Span) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if sp.File != sf.ID {
		return fmt.Errorf("span %v points to file %d, want %d", sp, sp.File, sf.ID)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("span %v is inverted", sp)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End > lenContent {
		return fmt.Errorf("span %v ends beyond content (%d bytes)", sp, lenContent)
	}
	return nil
}

// CheckSiblingSpans verifies that spans are non-empty, in file order and do
// not overlap, as the spans of sibling elements must be.
func CheckSiblingSpans(sf *source.File, spans []source.Span) error {
	for i, sp := range spans {
		if err := CheckSpan(sf, sp); err != nil {
			return fmt.Errorf("span %d: %w", i, err)
		}
		if sp.Empty() {
			return fmt.Errorf("span %d is empty: %v", i, sp)
		}
		if i > 0 && spans[i-1].End > sp.Start {
			return fmt.Errorf("span %d (%v) overlaps or precedes span %d (%v)", i, sp, i-1, spans[i-1])
		}
	}
	return nil
}

// CheckDiagnosticSpans verifies that every primary and note span of the
// bag's diagnostics resolves inside fs.
func CheckDiagnosticSpans(bag *diag.Bag, fs *source.FileSet) error {
	check := func(sp source.Span) error {
		return CheckSpan(fs.Get(sp.File), sp)
	}
	for i, d := range bag.Items() {
		if err := check(d.Primary); err != nil {
			return fmt.Errorf("diagnostic %d (%s): %w", i, d.Code.ID(), err)
		}
		for j, n := range d.Notes {
			if err := check(n.Span); err != nil {
				return fmt.Errorf("diagnostic %d (%s) note %d: %w", i, d.Code.ID(), j, err)
			}
		}
	}
	return nil
}
