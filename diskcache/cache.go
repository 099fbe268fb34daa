// Package diskcache holds a process-wide, mtime-keyed cache of parsed disk
// images so repeated accesses to the same file don't re-read and re-parse it
// from disk (spec §4.5).
package diskcache

import (
	"os"
	"sync"

	"github.com/realhidden/floppyexplorer/container"
)

// Entry is a cached parsed image, or a cached parse failure.
type Entry struct {
	Name  string
	Size  int64
	MTime int64

	Buffer []byte
	Index  *container.ImageIndex

	Err error // non-nil means this entry records a parse failure
}

// Cache maps image filename to its most recently parsed Entry.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: map[string]*Entry{}}
}

// Get returns the cached entry for name if its stat mtime and size still match
// what was cached, reparsing via parse when it doesn't (or when name has never
// been seen). A file that stats to zero length yields (nil, nil) — the spec
// treats an empty file as "nothing to report" rather than an error entry.
func (c *Cache) Get(name string, parse func(name string) ([]byte, *container.ImageIndex, error)) (*Entry, error) {
	info, statErr := os.Stat(name)
	if statErr != nil {
		return nil, statErr
	}
	if info.Size() == 0 {
		return nil, nil
	}

	mtime := info.ModTime().UnixNano()

	c.mu.Lock()
	cached, ok := c.entries[name]
	c.mu.Unlock()
	if ok && cached.MTime == mtime && cached.Size == info.Size() {
		return cached, nil
	}

	buf, idx, err := parse(name)
	entry := &Entry{Name: name, Size: info.Size(), MTime: mtime}
	if err != nil {
		entry.Err = err
	} else {
		entry.Buffer = buf
		entry.Index = idx
	}

	c.mu.Lock()
	c.entries[name] = entry
	c.mu.Unlock()

	return entry, nil
}

// Invalidate drops a single cached entry by filename, e.g. after an
// acquisition read completes and the output file is reparseable (spec §5).
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
}

// Clear drops every cached entry, e.g. when the configured storage directory
// changes or an external watcher signals a wholesale invalidation (spec
// §4.5).
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = map[string]*Entry{}
	c.mu.Unlock()
}

// Len reports the number of cached entries, for diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
