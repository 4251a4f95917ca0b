package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"pomorg/internal/cache"
	"pomorg/internal/diag"
	"pomorg/internal/hoist"
	"pomorg/internal/pomxml"
	"pomorg/internal/tidy"
)

const pom = `<project>
  <dependencies>
    <dependency>
      <groupId>org.slf4j</groupId>
      <artifactId>slf4j-api</artifactId>
      <version>2.0.9</version>
    </dependency>
  </dependencies>
</project>
`

const organized = `<project>
  <properties>
    <org.slf4j.slf4j-api>2.0.9</org.slf4j.slf4j-api>
  </properties>
  <dependencies>
    <dependency>
      <groupId>org.slf4j</groupId>
      <artifactId>slf4j-api</artifactId>
      <version>${org.slf4j.slf4j-api}</version>
    </dependency>
  </dependencies>
</project>
`

func writePom(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pom.xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// shellTidy counts its invocations in a marker file next to the manifest.
func shellTidy(t *testing.T, script string) *tidy.Runner {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	return &tidy.Runner{Enabled: true, Command: "/bin/sh", Args: []string{"-c", script, "sh", tidy.PomPlaceholder}}
}

const countingTidy = `printf x >> "$(dirname "$1")/tidy.count"`

func TestRunOrganize(t *testing.T) {
	path := writePom(t, pom)
	res, err := Run(context.Background(), Request{
		Path:    path,
		Command: CommandOrganize,
		Sort:    true,
		Tidy:    shellTidy(t, countingTidy),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Changed || res.Skipped {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := readFile(t, path); got != organized {
		t.Fatalf("unexpected manifest:\n%s", got)
	}
	if got := readFile(t, filepath.Join(filepath.Dir(path), "tidy.count")); got != "x" {
		t.Fatalf("formatter ran %d times", len(got))
	}
	for _, stage := range []Stage{StageLoad, StageDependencies, StagePlugins, StageSort, StageSave, StageTidy} {
		if !res.Timings.Has(stage) {
			t.Fatalf("missing timing for %s (have %v)", stage, res.Timings.Stages())
		}
	}
	if res.Hoist.Dependencies.Hoisted != 1 {
		t.Fatalf("unexpected hoist stats %+v", res.Hoist)
	}
}

func TestRunRevert(t *testing.T) {
	path := writePom(t, organized)
	res, err := Run(context.Background(), Request{Path: path, Command: CommandRevert})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := readFile(t, path); got != pom {
		t.Fatalf("revert did not restore the manifest:\n%s", got)
	}
	if res.Hoist.Resolved != 1 || len(res.Hoist.Removed) != 1 {
		t.Fatalf("unexpected hoist stats %+v", res.Hoist)
	}
	if res.Timings.Has(StageTidy) {
		t.Fatalf("tidy ran without a runner")
	}
}

func TestFormatterFailureKeepsSavedManifest(t *testing.T) {
	path := writePom(t, pom)
	_, err := Run(context.Background(), Request{
		Path:    path,
		Command: CommandOrganize,
		Sort:    true,
		Tidy:    shellTidy(t, `echo "tidy exploded" >&2; exit 1`),
	})
	if !errors.Is(err, tidy.ErrFormatter) {
		t.Fatalf("expected formatter error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "pipeline: organize "+path+": ") {
		t.Fatalf("unexpected error message %q", err)
	}
	if got := readFile(t, path); got != organized {
		t.Fatalf("save must not be rolled back:\n%s", got)
	}
}

func TestMissingManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pom.xml")
	_, err := Run(context.Background(), Request{Path: path, Command: CommandRevert})
	if !errors.Is(err, pomxml.ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}

func TestMalformedManifestIsNotWritten(t *testing.T) {
	in := `<project><dependencies><dependency><version>1</version></dependency></dependencies></project>`
	path := writePom(t, in)
	bag := diag.NewBag(10)
	_, err := Run(context.Background(), Request{
		Path:     path,
		Command:  CommandOrganize,
		Reporter: diag.BagReporter{Bag: bag},
	})
	if !errors.Is(err, pomxml.ErrMalformedManifest) {
		t.Fatalf("expected ErrMalformedManifest, got %v", err)
	}
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic for the missing coordinates")
	}
	if got := readFile(t, path); got != in {
		t.Fatalf("malformed manifest was modified")
	}
}

func TestCacheSkipsProcessedManifest(t *testing.T) {
	path := writePom(t, pom)
	c, err := cache.OpenDir(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	req := Request{
		Path:    path,
		Command: CommandOrganize,
		Sort:    true,
		Tidy:    shellTidy(t, countingTidy),
		Cache:   c,
	}
	if _, err := Run(context.Background(), req); err != nil {
		t.Fatalf("first run: %v", err)
	}
	res, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !res.Skipped {
		t.Fatalf("second run was not skipped")
	}
	if got := readFile(t, filepath.Join(filepath.Dir(path), "tidy.count")); got != "x" {
		t.Fatalf("formatter ran again on a cached manifest")
	}

	req.Command = CommandRevert
	res, err = Run(context.Background(), req)
	if err != nil || res.Skipped {
		t.Fatalf("revert must not reuse the organize entry: skipped=%v err=%v", res.Skipped, err)
	}
}

func TestProgressEvents(t *testing.T) {
	path := writePom(t, pom)
	ch := make(chan Event, 64)
	if _, err := Run(context.Background(), Request{
		Path:     path,
		Command:  CommandOrganize,
		Progress: ChannelSink{Ch: ch},
	}); err != nil {
		t.Fatalf("run: %v", err)
	}
	close(ch)

	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	if len(events) == 0 {
		t.Fatalf("no events")
	}
	first, last := events[0], events[len(events)-1]
	if first.Stage != StageLoad || first.Status != StatusWorking {
		t.Fatalf("unexpected first event %+v", first)
	}
	if last.Stage != "" || last.Status != StatusDone {
		t.Fatalf("unexpected last event %+v", last)
	}
	for _, ev := range events {
		if ev.Stage == StageSort {
			t.Fatalf("sort stage ran with Sort disabled")
		}
	}
}

func TestRunStepRecoversPanic(t *testing.T) {
	err := runStep(hoist.Step{Name: "dependencies", Run: func() { panic("nil document") }})
	if !errors.Is(err, ErrTransform) {
		t.Fatalf("expected ErrTransform, got %v", err)
	}
}

func TestRunAllIsolatesFailures(t *testing.T) {
	good := writePom(t, pom)
	missing := filepath.Join(t.TempDir(), "pom.xml")
	results, err := RunAll(context.Background(), []Request{
		{Path: missing, Command: CommandOrganize},
		{Path: good, Command: CommandOrganize, Sort: true},
	}, 2)
	if !errors.Is(err, pomxml.ErrManifestNotFound) {
		t.Fatalf("expected joined ErrManifestNotFound, got %v", err)
	}
	if len(results) != 2 || !results[1].Changed {
		t.Fatalf("healthy manifest was not processed: %+v", results)
	}
	if got := readFile(t, good); got != organized {
		t.Fatalf("unexpected manifest:\n%s", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	path := writePom(t, pom)
	_, err := Run(context.Background(), Request{Path: path, Command: "shuffle"})
	if !errors.Is(err, ErrTransform) {
		t.Fatalf("expected ErrTransform, got %v", err)
	}
}
