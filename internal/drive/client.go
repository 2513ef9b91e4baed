// Package drive talks to Google Drive with shared-drive semantics enabled on
// every call, so the archive root may live outside the service account's own
// space.
package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// FolderInfo describes a remote folder, used by the verify command.
type FolderInfo struct {
	ID       string
	Name     string
	MimeType string
}

func (f FolderInfo) IsFolder() bool {
	return f.MimeType == folderMimeType
}

// Client wraps the Drive v3 API.
type Client struct {
	svc    *gdrive.Service
	logger *slog.Logger
}

// NewClient builds a Drive client from a service-account credentials file.
func NewClient(ctx context.Context, log *slog.Logger, credentialsFile string) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	svc, err := gdrive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gdrive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init drive service: %w", err)
	}
	return &Client{
		svc:    svc,
		logger: log.With(slog.String("component", "drive")),
	}, nil
}

// FindFolder returns the id of a non-trashed folder named name under
// parentID, or "" when none exists. When several folders share the name
// (the remote side never enforced uniqueness) the first match wins and a
// warning is logged.
func (c *Client) FindFolder(ctx context.Context, parentID, name string) (string, error) {
	query := fmt.Sprintf(
		"mimeType='%s' and name='%s' and '%s' in parents and trashed = false",
		folderMimeType, escapeQueryValue(name), escapeQueryValue(parentID),
	)
	list, err := c.svc.Files.List().
		Q(query).
		Fields("files(id)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("list folders: %w", err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	if len(list.Files) > 1 {
		c.logger.Warn("duplicate folders share a name",
			slog.String("name", name),
			slog.String("parent_id", parentID),
			slog.Int("count", len(list.Files)),
		)
	}
	return list.Files[0].Id, nil
}

// CreateFolder creates a folder under parentID and returns its id.
func (c *Client) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	folder, err := c.svc.Files.Create(&gdrive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	return folder.Id, nil
}

// Upload streams content into a new file named name under parentID.
func (c *Client) Upload(ctx context.Context, parentID, name string, content io.Reader) error {
	uploaded, err := c.svc.Files.Create(&gdrive.File{
		Name:    name,
		Parents: []string{parentID},
	}).
		Media(content).
		Fields("id, name").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("upload %q: %w", name, err)
	}
	c.logger.Info("uploaded", slog.String("name", uploaded.Name), slog.String("file_id", uploaded.Id))
	return nil
}

// FolderMetadata fetches id, name, and mime type for a folder. Used at
// startup to confirm the credentials can see the archive root.
func (c *Client) FolderMetadata(ctx context.Context, folderID string) (FolderInfo, error) {
	file, err := c.svc.Files.Get(folderID).
		Fields("id, name, mimeType").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return FolderInfo{}, fmt.Errorf("get folder metadata: %w", err)
	}
	return FolderInfo{ID: file.Id, Name: file.Name, MimeType: file.MimeType}, nil
}

// escapeQueryValue escapes backslashes and single quotes so interpolated
// names cannot corrupt the Drive query filter.
func escapeQueryValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}
