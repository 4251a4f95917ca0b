// Package config loads the optional .pomorg.toml settings file.
package config

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"pomorg/internal/tidy"
	"pomorg/internal/version"
)

// FileName is looked up from the manifest directory upwards.
const FileName = ".pomorg.toml"

// ErrInvalid is wrapped by validation failures.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// Path of the file the values came from; empty for defaults.
	Path string `toml:"-"`

	Organize OrganizeConfig `toml:"organize"`
	Tidy     TidyConfig     `toml:"tidy"`
	Cache    CacheConfig    `toml:"cache"`
	Run      RunConfig      `toml:"run"`
}

type OrganizeConfig struct {
	Sort bool `toml:"sort"`
}

type TidyConfig struct {
	Enabled bool     `toml:"enabled"`
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type RunConfig struct {
	Jobs int `toml:"jobs"` // 0 = GOMAXPROCS
}

// Default returns the built-in settings.
func Default() Config {
	r := tidy.DefaultRunner()
	return Config{
		Organize: OrganizeConfig{Sort: true},
		Tidy:     TidyConfig{Enabled: r.Enabled, Command: r.Command, Args: r.Args},
		Cache:    CacheConfig{Enabled: false},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
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

// Load decodes path over the defaults. Keys absent from the file keep their
// default values; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve returns the settings that apply to a manifest in dir: the nearest
// FileName, or Default when there is none.
func Resolve(dir string) (Config, error) {
	path, ok, err := Find(dir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Run.Jobs < 0 {
		return fmt.Errorf("%w: [run].jobs must not be negative", ErrInvalid)
	}
	if c.Tidy.Enabled && strings.TrimSpace(c.Tidy.Command) == "" {
		return fmt.Errorf("%w: [tidy].command is empty", ErrInvalid)
	}
	return nil
}

// TidyRunner builds the formatter runner described by [tidy].
func (c Config) TidyRunner() *tidy.Runner {
	return &tidy.Runner{
		Enabled: c.Tidy.Enabled,
		Command: c.Tidy.Command,
		Args:    append([]string(nil), c.Tidy.Args...),
	}
}

// Hash digests the settings that influence a manifest's output, together
// with the build that produces it.
func (c Config) Hash() [32]byte {
	var buf bytes.Buffer
	_ = toml.NewEncoder(&buf).Encode(struct {
		Version  string         `toml:"version"`
		Commit   string         `toml:"commit"`
		Organize OrganizeConfig `toml:"organize"`
		Tidy     TidyConfig     `toml:"tidy"`
	}{version.Version, version.GitCommit, c.Organize, c.Tidy})
	return sha256.Sum256(buf.Bytes())
}
