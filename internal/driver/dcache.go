package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"taglint/internal/extract"
)

// Increment when the payload format changes; older records then read
// as misses and get rewritten.
const diskCacheSchemaVersion uint16 = 1

// profilePayload is the on-disk form of a base profile.
type profilePayload struct {
	Schema uint16                        `msgpack:"schema"`
	Tags   map[string]extract.Provenance `msgpack:"tags"`
}

// DiskCache persists base profiles under the user cache directory so
// repeated runs over an unchanged tree skip extraction entirely.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache initializes the cache at the standard location:
// $XDG_CACHE_HOME/<app> or ~/.cache/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes the cache at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir reports where the cache lives.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key CacheKey) string {
	// Profiles get their own subdirectory so the cache root stays
	// readable and easy to clear selectively.
	return filepath.Join(c.dir, "profiles", hex.EncodeToString(key[:])+".mp")
}

// Put serializes a base profile under its key. The write goes through
// a temp file and a rename so readers never see a torn record.
func (c *DiskCache) Put(key CacheKey, profile *extract.Profile) error {
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
	tmp := f.Name()

	payload := profilePayload{Schema: diskCacheSchemaVersion, Tags: profile.Tags}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads a profile back. Anything wrong with the record (missing,
// unreadable, wrong schema) is a miss; the caller re-extracts and the
// next Put repairs the entry.
func (c *DiskCache) Get(key CacheKey) (*extract.Profile, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	defer func() { _ = f.Close() }()

	var payload profilePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Tags == nil {
		return nil, false
	}
	return &extract.Profile{Tags: payload.Tags}, true
}

// DropAll clears the cache, useful after format changes. The directory
// is renamed first so a concurrent run never observes a half-empty
// cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
