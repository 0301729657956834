package cache

import (
	"context"
	"encoding/binary"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// entryExt marks cache entries on disk. Temporary files written by Set use a
// different name and are never read back.
const entryExt = ".entry"

// headerSize is the length of the expiry header in front of every entry: the
// expiry as big-endian Unix nanoseconds, 0 for entries that never expire.
const headerSize = 8

// FileCache stores one file per entry below a directory. Payloads (PNG and
// JPEG bytes, plan JSON) are kept as-is behind a fixed-size expiry header.
// It is the default backend of the command-line tool.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Get returns the payload stored under key. Expired and truncated entries are
// removed and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	payload, expires, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && c.now().After(expires)) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return payload, true, nil
}

// Set stores data under key. The entry is written to a temporary file in the
// target directory and renamed into place, so readers never see a partial
// entry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = c.now().Add(ttl)
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(encodeEntry(data, expires))
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		if werr != nil {
			return werr
		}
		return cerr
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// FileStats summarizes what a FileCache holds on disk.
type FileStats struct {
	Entries int
	Bytes   int64
	Expired int
}

// Stats walks the cache directory and counts entries. Bytes is the on-disk
// size including headers.
func (c *FileCache) Stats() (FileStats, error) {
	var st FileStats
	now := c.now()
	err := c.walkEntries(func(path string, d fs.DirEntry) error {
		info, err := d.Info()
		if err != nil {
			return nil
		}
		st.Entries++
		st.Bytes += info.Size()
		if expires, ok := readExpiry(path); ok && !expires.IsZero() && now.After(expires) {
			st.Expired++
		}
		return nil
	})
	return st, err
}

// Clear removes every entry and the shard directories and returns the number
// of removed entries.
func (c *FileCache) Clear() (int, error) {
	count := 0
	err := c.walkEntries(func(path string, _ fs.DirEntry) error {
		if os.Remove(path) == nil {
			count++
		}
		return nil
	})
	if err != nil {
		return count, err
	}

	shards, _ := os.ReadDir(c.dir)
	for _, s := range shards {
		if s.IsDir() {
			_ = os.RemoveAll(filepath.Join(c.dir, s.Name()))
		}
	}
	return count, nil
}

// Prune removes expired and truncated entries and returns how many were
// removed.
func (c *FileCache) Prune() (int, error) {
	count := 0
	now := c.now()
	err := c.walkEntries(func(path string, _ fs.DirEntry) error {
		expires, ok := readExpiry(path)
		if ok && (expires.IsZero() || !now.After(expires)) {
			return nil
		}
		if os.Remove(path) == nil {
			count++
		}
		return nil
	})
	return count, err
}

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

// walkEntries calls fn for each entry file. Unreadable directories are
// skipped and a missing cache directory holds no entries.
func (c *FileCache) walkEntries(fn func(path string, d fs.DirEntry) error) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != c.dir {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), entryExt) {
			return nil
		}
		return fn(path, d)
	})
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// path shards entries by the first two hex characters of the key hash.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+entryExt)
}

func encodeEntry(data []byte, expires time.Time) []byte {
	buf := make([]byte, headerSize+len(data))
	if !expires.IsZero() {
		binary.BigEndian.PutUint64(buf, uint64(expires.UnixNano()))
	}
	copy(buf[headerSize:], data)
	return buf
}

func decodeEntry(raw []byte) (payload []byte, expires time.Time, ok bool) {
	if len(raw) < headerSize {
		return nil, time.Time{}, false
	}
	if ns := binary.BigEndian.Uint64(raw); ns != 0 {
		expires = time.Unix(0, int64(ns))
	}
	return raw[headerSize:], expires, true
}

func readExpiry(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()
	var head [headerSize]byte
	if _, err := io.ReadFull(f, head[:]); err != nil {
		return time.Time{}, false
	}
	_, expires, ok := decodeEntry(head[:])
	return expires, ok
}

var _ Cache = (*FileCache)(nil)
