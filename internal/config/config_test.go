package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"pomorg/internal/version"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[organize]\nsort = false\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Organize.Sort {
		t.Fatalf("sort should be disabled")
	}
	if !cfg.Tidy.Enabled || cfg.Tidy.Command != "mvn" || cfg.Cache.Enabled {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.Path != path {
		t.Fatalf("path = %q", cfg.Path)
	}
}

func TestLoadTidyOverride(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[tidy]
command = "./mvnw"
args = ["-B", "-f", "{pom}", "tidy:pom"]

[run]
jobs = 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r := cfg.TidyRunner()
	if got := r.CommandLine("pom.xml"); !slices.Equal(got, []string{"./mvnw", "-B", "-f", "pom.xml", "tidy:pom"}) {
		t.Fatalf("unexpected command line %q", got)
	}
	if cfg.Run.Jobs != 4 {
		t.Fatalf("jobs = %d", cfg.Run.Jobs)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[organize]\nsrot = true\n")
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadRejectsNegativeJobs(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[run]\njobs = -1\n")
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[organize\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Hash() != Default().Hash() {
		t.Fatalf("expected default settings, got %+v", cfg)
	}
}

func TestHashTracksOutputSettings(t *testing.T) {
	a := Default()
	b := Default()
	b.Cache.Dir = "/elsewhere"
	if a.Hash() != b.Hash() {
		t.Fatalf("cache location must not affect the hash")
	}
	b.Organize.Sort = false
	if a.Hash() == b.Hash() {
		t.Fatalf("sort flag must affect the hash")
	}
}

func TestCacheIsOptIn(t *testing.T) {
	if Default().Cache.Enabled {
		t.Fatalf("the run cache must be disabled unless configured")
	}
	path := writeConfig(t, t.TempDir(), "[cache]\nenabled = true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Cache.Enabled {
		t.Fatalf("[cache].enabled was not applied")
	}
}

func TestHashTracksBuildVersion(t *testing.T) {
	before := Default().Hash()
	saved := version.Version
	t.Cleanup(func() { version.Version = saved })

	version.Version = saved + "+next"
	if Default().Hash() == before {
		t.Fatalf("a different build must not share cached results")
	}
}
