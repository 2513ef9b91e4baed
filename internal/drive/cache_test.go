package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFolderCacheLookupInsert(t *testing.T) {
	cache := NewFolderCache()

	_, ok := cache.Lookup("root", "general")
	assert.False(t, ok)

	cache.Insert("root", "general", "folder-1")
	id, ok := cache.Lookup("root", "general")
	assert.True(t, ok)
	assert.Equal(t, "folder-1", id)
	assert.Equal(t, 1, cache.Len())
}

func TestFolderCacheKeysAreScopedToParent(t *testing.T) {
	cache := NewFolderCache()
	cache.Insert("root", "Messages", "folder-a")
	cache.Insert("channel-1", "Messages", "folder-b")

	a, _ := cache.Lookup("root", "Messages")
	b, _ := cache.Lookup("channel-1", "Messages")
	assert.Equal(t, "folder-a", a)
	assert.Equal(t, "folder-b", b)
	assert.Equal(t, 2, cache.Len())
}
