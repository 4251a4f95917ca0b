package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pomorg/internal/pomxml"
)

const manifestName = "pom.xml"

// findManifest walks up from startDir looking for pom.xml.
func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, true, nil
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// resolveManifests maps command arguments to manifest paths. With no
// arguments the nearest pom.xml above the working directory is used; a
// directory argument stands for the pom.xml inside it. Duplicates are
// dropped so one file is never processed twice in the same run.
func resolveManifests(args []string) ([]string, error) {
	if len(args) == 0 {
		path, ok, err := findManifest(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: no %s in the current directory or its parents", pomxml.ErrManifestNotFound, manifestName)
		}
		return []string{path}, nil
	}

	seen := make(map[string]bool, len(args))
	out := make([]string, 0, len(args))
	for _, arg := range args {
		path := arg
		if st, err := os.Stat(arg); err == nil && st.IsDir() {
			path = filepath.Join(arg, manifestName)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", arg, err)
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		out = append(out, path)
	}
	return out, nil
}
