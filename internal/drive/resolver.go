package drive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"
)

// Remote is the slice of the storage backend the resolver needs.
type Remote interface {
	// FindFolder returns the id of a non-trashed folder with exactly this
	// name under parentID, or "" when none exists.
	FindFolder(ctx context.Context, parentID, name string) (string, error)
	// CreateFolder creates a folder under parentID and returns its id.
	CreateFolder(ctx context.Context, parentID, name string) (string, error)
}

// Resolver maps logical path segments to remote folder ids, consulting the
// cache before any network call. Concurrent resolutions of the same
// (parent, name) key collapse into a single in-flight list-then-create
// sequence, so bursts of events for one channel cannot create sibling
// folders with the same name.
type Resolver struct {
	remote Remote
	cache  *FolderCache
	group  singleflight.Group
	logger *slog.Logger
}

// NewResolver creates a resolver over the given remote and cache.
func NewResolver(log *slog.Logger, remote Remote, cache *FolderCache) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	if cache == nil {
		cache = NewFolderCache()
	}
	return &Resolver{
		remote: remote,
		cache:  cache,
		logger: log.With(slog.String("component", "folder_resolver")),
	}
}

// Resolve returns an existing or newly created folder id for name under
// parentID. Cache hits return without any network call.
func (r *Resolver) Resolve(ctx context.Context, parentID, name string) (string, error) {
	parentID = strings.TrimSpace(parentID)
	name = strings.TrimSpace(name)
	if parentID == "" || name == "" {
		return "", fmt.Errorf("parent id and folder name are required")
	}
	if id, ok := r.cache.Lookup(parentID, name); ok {
		return id, nil
	}

	key := parentID + "\x00" + name
	id, err, _ := r.group.Do(key, func() (any, error) {
		// A sibling may have finished while we waited on the flight group.
		if id, ok := r.cache.Lookup(parentID, name); ok {
			return id, nil
		}
		id, err := r.resolveRemote(ctx, parentID, name)
		if err != nil {
			return "", err
		}
		r.cache.Insert(parentID, name, id)
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return id.(string), nil
}

func (r *Resolver) resolveRemote(ctx context.Context, parentID, name string) (string, error) {
	id, err := r.remote.FindFolder(ctx, parentID, name)
	if err != nil {
		return "", fmt.Errorf("list folder %q: %w", name, err)
	}
	if id != "" {
		r.logger.Debug("folder reused", slog.String("name", name), slog.String("folder_id", id))
		return id, nil
	}
	id, err = r.remote.CreateFolder(ctx, parentID, name)
	if err != nil {
		return "", fmt.Errorf("create folder %q: %w", name, err)
	}
	r.logger.Info("folder created", slog.String("name", name), slog.String("folder_id", id))
	return id, nil
}
