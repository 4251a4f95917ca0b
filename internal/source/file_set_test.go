package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("pom.xml", []byte("<project/>"), 0)
	if id1 != 0 {
		t.Fatalf("expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.Add("pom.xml", []byte("<project></project>"), 0)
	if id2 != 1 {
		t.Fatalf("expected second FileID to be 1, got %d", id2)
	}

	latestID, ok := fs.GetLatest("pom.xml")
	if !ok || latestID != id2 {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", id2, latestID, ok)
	}
	if got := string(fs.Get(id1).Content); got != "<project/>" {
		t.Fatalf("first version content changed: %q", got)
	}
}

func TestLoadNormalizesAndRestores(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("<project>\r\n  <a/>\r\n</project>\r\n")...)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	file := fs.Get(id)
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", file.Flags)
	}
	if string(file.Content) != "<project>\n  <a/>\n</project>\n" {
		t.Fatalf("unexpected normalized content %q", file.Content)
	}
	if got := Restore(file.Content, file.Flags); string(got) != string(raw) {
		t.Fatalf("restore mismatch:\n got %q\nwant %q", got, raw)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.xml")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()

	// α занимает 2 байта
	id := fs.AddVirtual("pom.xml", []byte("α\n"))
	start, end := fs.Resolve(Span{File: id, Start: 0, End: 1})

	if start != (LineCol{Line: 1, Col: 1}) {
		t.Fatalf("unexpected start %+v", start)
	}
	if end != (LineCol{Line: 1, Col: 2}) {
		t.Fatalf("unexpected end %+v", end)
	}
}

func TestResolveMultiline(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pom.xml", []byte("ab\ncd\n\nef"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // the newline belongs to its own line
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tc := range cases {
		got, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if got != tc.want {
			t.Fatalf("offset %d: got %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestFileText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pom.xml", []byte("<version>1.0</version>"))
	file := fs.Get(id)
	if got := file.Text(Span{File: id, Start: 9, End: 12}); got != "1.0" {
		t.Fatalf("got %q", got)
	}
	if got := file.Text(Span{File: id, Start: 9, End: 100}); got != "" {
		t.Fatalf("out of range span should be empty, got %q", got)
	}
}
