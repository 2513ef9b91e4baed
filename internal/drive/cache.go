package drive

import "sync"

type cacheKey struct {
	parentID string
	name     string
}

// FolderCache memoizes resolved folder ids by (parent folder id, folder
// name). Entries live for the life of the process and are never evicted;
// the key space is bounded by channel count times category count. It is the
// only state shared across concurrent archival units, so access is
// mutex-guarded.
type FolderCache struct {
	mu      sync.Mutex
	entries map[cacheKey]string
}

// NewFolderCache creates an empty cache.
func NewFolderCache() *FolderCache {
	return &FolderCache{entries: map[cacheKey]string{}}
}

// Lookup returns the cached folder id for the key, if present.
func (c *FolderCache) Lookup(parentID, name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.entries[cacheKey{parentID: parentID, name: name}]
	return id, ok
}

// Insert records a resolved folder id. A later insert for the same key wins;
// duplicate resolutions converge on whichever id was stored last.
func (c *FolderCache) Insert(parentID, name, folderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{parentID: parentID, name: name}] = folderID
}

// Len reports the number of cached folder ids.
func (c *FolderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
