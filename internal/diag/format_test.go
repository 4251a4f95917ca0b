package diag

import (
	"testing"

	"pomorg/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	pom := fs.Add("/workspace/app/pom.xml", []byte("<a>\n  <b/>\n</a>\n"), 0)

	diags := []Diagnostic{
		NewError(PomMissingCoordinate, source.Span{File: pom, Start: 6, End: 10}, "dependency lacks groupId\nsecond line").
			WithNote(source.Span{File: pom, Start: 0, End: 3}, "inside here"),
		New(SevWarning, HoistVersionConflict, source.Span{File: pom, Start: 0, End: 1}, "conflict"),
	}

	want := "app/pom.xml:2:3: error POM2001 dependency lacks groupId second line\n" +
		"app/pom.xml:1:1: note POM2001 inside here\n" +
		"app/pom.xml:1:1: warning HST1001 conflict"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}

	wantNoNotes := "app/pom.xml:2:3: error POM2001 dependency lacks groupId second line\n" +
		"app/pom.xml:1:1: warning HST1001 conflict"
	if got := FormatShort(diags, fs, false); got != wantNoNotes {
		t.Fatalf("unexpected output without notes:\n%s", got)
	}
}

func TestFormatShortUnresolvedSpan(t *testing.T) {
	d := New(SevInfo, HoistDanglingReference, source.Span{File: 9}, "dangling")
	if got := FormatShort([]Diagnostic{d}, source.NewFileSet(), false); got != "info HST1002 dangling" {
		t.Fatalf("got %q", got)
	}
}
