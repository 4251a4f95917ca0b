package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cliPom = `<project>
    <dependencies>
        <dependency>
            <groupId>junit</groupId>
            <artifactId>junit</artifactId>
            <version>4.13.2</version>
            <scope>test</scope>
        </dependency>
        <dependency>
            <groupId>org.slf4j</groupId>
            <artifactId>slf4j-api</artifactId>
            <version>2.0.9</version>
        </dependency>
    </dependencies>
</project>
`

const cliConfig = `[tidy]
enabled = false

[cache]
enabled = false
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	runCleanups()
	return stdout.String(), stderr.String(), err
}

func TestOrganizeThenRevert(t *testing.T) {
	dir := t.TempDir()
	pom := filepath.Join(dir, manifestName)
	writeFile(t, pom, cliPom)
	writeFile(t, filepath.Join(dir, ".pomorg.toml"), cliConfig)

	out, _, err := execute(t, "--color", "off", "organize", "--ui", "off", dir)
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	if !strings.Contains(out, "organized "+pom) || !strings.Contains(out, "2 hoisted") {
		t.Fatalf("unexpected organize output:\n%s", out)
	}
	data, err := os.ReadFile(pom)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got := string(data)
	for _, want := range []string{
		"<junit.junit>4.13.2</junit.junit>",
		"<version>${org.slf4j.slf4j-api}</version>",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("organized manifest lacks %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "slf4j-api</artifactId>") > strings.Index(got, "junit</artifactId>") {
		t.Fatalf("compile-scope dependency should sort before test scope:\n%s", got)
	}

	out, _, err = execute(t, "--color", "off", "revert", "--ui", "off", pom)
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if !strings.Contains(out, "reverted "+pom) || !strings.Contains(out, "2 resolved") {
		t.Fatalf("unexpected revert output:\n%s", out)
	}
	data, err = os.ReadFile(pom)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "${") || strings.Contains(string(data), "<properties>") {
		t.Fatalf("revert left references or properties behind:\n%s", data)
	}
}

func TestOrganizeMissingManifestFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".pomorg.toml"), cliConfig)
	_, _, err := execute(t, "--color", "off", "organize", "--ui", "off", filepath.Join(dir, manifestName))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected a not-found failure, got %v", err)
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json", "--full")
	versionCmd.Flags().Set("format", "pretty")
	versionCmd.Flags().Set("full", "false")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if payload.Tool != "pomorg" || payload.Version == "" || payload.GitCommit != "unknown" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestCleanRemovesConfiguredCache(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfgPath := filepath.Join(dir, "settings.toml")
	writeFile(t, cfgPath, "[cache]\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n")
	writeFile(t, filepath.Join(cacheDir, "runs", "entry.mp"), "x")

	out, _, err := execute(t, "--config", cfgPath, "clean", dir)
	rootCmd.PersistentFlags().Set("config", "")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !strings.Contains(out, "removed "+cacheDir) {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "runs", "entry.mp")); !os.IsNotExist(err) {
		t.Fatalf("cache entry survived: %v", err)
	}
}

func TestVersionPretty(t *testing.T) {
	var buf bytes.Buffer
	renderVersionPretty(&buf, buildVersionPayload(true, false))
	got := buf.String()
	if !strings.HasPrefix(got, "pomorg ") || !strings.Contains(got, "commit: unknown") || strings.Contains(got, "built:") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}
