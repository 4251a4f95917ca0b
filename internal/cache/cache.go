// Package cache remembers the manifest content produced by the last
// successful run so unchanged manifests can be skipped.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Entry format changes
const schemaVersion uint16 = 1

// Digest is a SHA-256 value.
type Digest [32]byte

// String returns the hex form.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Entry is the record stored per (manifest, command).
type Entry struct {
	Schema      uint16
	Path        string
	Command     string
	ContentHash Digest // manifest bytes after the run, formatter included
	ConfigHash  Digest
	Time        time.Time
}

// Cache is a directory of msgpack entries. A nil *Cache is a valid, disabled
// cache. Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns the cache for app under $XDG_CACHE_HOME (or ~/.cache).
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir returns a cache rooted at dir, creating it if needed.
func OpenDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// KeyFor derives the entry key from the absolute manifest path and command.
func KeyFor(path, command string) Digest {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	h := sha256.New()
	h.Write([]byte(filepath.ToSlash(path)))
	h.Write([]byte{0})
	h.Write([]byte(command))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// HashFile hashes the bytes currently on disk.
func HashFile(path string) (Digest, error) {
	// #nosec G304 -- path is the manifest being processed
	data, err := os.ReadFile(path)
	if err != nil {
		return Digest{}, err
	}
	return sha256.Sum256(data), nil
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "runs", key.String()+".mp")
}

// Put serializes and writes an entry.
func (c *Cache) Put(key Digest, entry *Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	entry.Schema = schemaVersion
	if err = msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads an entry. Entries from another schema are reported as missing.
func (c *Cache) Get(key Digest, out *Entry) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == schemaVersion, nil
}

// Fresh reports whether the last successful run of command on path left the
// manifest with content under the same configuration.
func (c *Cache) Fresh(path, command string, content, config Digest) (bool, error) {
	var e Entry
	ok, err := c.Get(KeyFor(path, command), &e)
	if err != nil || !ok {
		return false, err
	}
	return e.ContentHash == content && e.ConfigHash == config, nil
}

// Record stores the outcome of a successful run.
func (c *Cache) Record(path, command string, content, config Digest) error {
	return c.Put(KeyFor(path, command), &Entry{
		Path:        path,
		Command:     command,
		ContentHash: content,
		ConfigHash:  config,
		Time:        time.Now().UTC(),
	})
}

// DropAll removes every entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
