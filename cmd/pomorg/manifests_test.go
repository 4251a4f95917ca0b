package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pomorg/internal/pomxml"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, manifestName), "<project/>")
	nested := filepath.Join(root, "module", "src", "main")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := findManifest(nested)
	if err != nil || !ok {
		t.Fatalf("findManifest: ok=%v err=%v", ok, err)
	}
	want, _ := filepath.Abs(filepath.Join(root, manifestName))
	if got != want {
		t.Fatalf("findManifest = %q, want %q", got, want)
	}
}

func TestResolveManifestsDirectoryAndDuplicates(t *testing.T) {
	root := t.TempDir()
	pom := filepath.Join(root, manifestName)
	writeFile(t, pom, "<project/>")

	got, err := resolveManifests([]string{root, pom})
	if err != nil {
		t.Fatalf("resolveManifests: %v", err)
	}
	if len(got) != 1 || got[0] != pom {
		t.Fatalf("resolveManifests = %v, want [%s]", got, pom)
	}
}

func TestResolveManifestsKeepsMissingPaths(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.xml")
	got, err := resolveManifests([]string{missing})
	if err != nil {
		t.Fatalf("resolveManifests: %v", err)
	}
	if len(got) != 1 || got[0] != missing {
		t.Fatalf("resolveManifests = %v", got)
	}
}

func TestResolveManifestsNoProject(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := resolveManifests(nil)
	// a pom.xml above the temp dir would be found; only check the error kind
	if err != nil && !errors.Is(err, pomxml.ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}
