package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPutGetRoundTrip(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := KeyFor("/w/pom.xml", "organize")
	in := &Entry{Path: "/w/pom.xml", Command: "organize", ContentHash: Digest{1, 2, 3}}
	if err := c.Put(key, in); err != nil {
		t.Fatalf("put: %v", err)
	}
	var out Entry
	ok, err := c.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.Path != in.Path || out.ContentHash != in.ContentHash || out.Schema != schemaVersion {
		t.Fatalf("unexpected entry %+v", out)
	}
}

func TestGetMissing(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var out Entry
	ok, err := c.Get(KeyFor("pom.xml", "revert"), &out)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestKeyDependsOnCommand(t *testing.T) {
	if KeyFor("pom.xml", "organize") == KeyFor("pom.xml", "revert") {
		t.Fatalf("organize and revert must not share an entry")
	}
}

func TestFreshTracksContentAndConfig(t *testing.T) {
	c, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	content, config := Digest{7}, Digest{9}
	if fresh, _ := c.Fresh("pom.xml", "organize", content, config); fresh {
		t.Fatalf("empty cache reported fresh")
	}
	if err := c.Record("pom.xml", "organize", content, config); err != nil {
		t.Fatalf("record: %v", err)
	}
	if fresh, err := c.Fresh("pom.xml", "organize", content, config); err != nil || !fresh {
		t.Fatalf("expected fresh, got %v %v", fresh, err)
	}
	if fresh, _ := c.Fresh("pom.xml", "organize", Digest{8}, config); fresh {
		t.Fatalf("changed content reported fresh")
	}
	if fresh, _ := c.Fresh("pom.xml", "organize", content, Digest{10}); fresh {
		t.Fatalf("changed config reported fresh")
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	if err := c.Record("pom.xml", "organize", Digest{}, Digest{}); err != nil {
		t.Fatalf("record on nil cache: %v", err)
	}
	if fresh, err := c.Fresh("pom.xml", "organize", Digest{}, Digest{}); fresh || err != nil {
		t.Fatalf("nil cache: fresh=%v err=%v", fresh, err)
	}
}

func TestHashFileAndDropAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	if err := os.WriteFile(path, []byte("<project/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("<project></project>"), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("hash did not change with content")
	}

	c, err := OpenDir(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Record(path, "organize", b, Digest{}); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if fresh, _ := c.Fresh(path, "organize", b, Digest{}); fresh {
		t.Fatalf("entry survived DropAll")
	}
}
