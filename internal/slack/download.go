package slack

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/slackvault/slackvault/internal/logger"
)

// FileFetcher streams an authenticated Slack file download into a writer.
// *slackapi.Client satisfies it.
type FileFetcher interface {
	GetFileContext(ctx context.Context, downloadURL string, writer io.Writer) error
}

// ErrFileTooLarge is returned when a download exceeds the configured cap.
var ErrFileTooLarge = fmt.Errorf("slack: file exceeds download size limit")

// Downloader spools Slack file payloads to temporary files on local disk.
type Downloader struct {
	fetcher  FileFetcher
	maxBytes int64
	timeout  time.Duration
	logger   *slog.Logger
}

func NewDownloader(fetcher FileFetcher, maxBytes int64, timeout time.Duration) *Downloader {
	return &Downloader{
		fetcher:  fetcher,
		maxBytes: maxBytes,
		timeout:  timeout,
		logger:   logger.L.With(slog.String("component", "slack_downloader")),
	}
}

// Fetch downloads url into a temp file and returns its path plus a cleanup
// func that removes it. Cleanup is safe to call regardless of whether the
// upload that follows succeeds.
func (d *Downloader) Fetch(ctx context.Context, url string) (string, func(), error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	tmp, err := os.CreateTemp("", "slackvault-*")
	if err != nil {
		return "", nil, fmt.Errorf("create spool file: %w", err)
	}
	path := tmp.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			d.logger.Warn("remove spool file failed", "path", path, "error", err)
		}
	}

	w := &cappedWriter{w: tmp, max: d.maxBytes}
	fetchErr := d.fetcher.GetFileContext(ctx, url, w)
	closeErr := tmp.Close()
	if fetchErr != nil {
		cleanup()
		if w.exceeded {
			return "", nil, fmt.Errorf("download %s: %w", url, ErrFileTooLarge)
		}
		return "", nil, fmt.Errorf("download %s: %w", url, fetchErr)
	}
	if closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("close spool file: %w", closeErr)
	}
	return path, cleanup, nil
}

// cappedWriter fails the copy once max bytes have been written. A max of zero
// or less means unlimited.
type cappedWriter struct {
	w        io.Writer
	max      int64
	written  int64
	exceeded bool
}

func (c *cappedWriter) Write(p []byte) (int, error) {
	if c.max > 0 && c.written+int64(len(p)) > c.max {
		c.exceeded = true
		return 0, ErrFileTooLarge
	}
	n, err := c.w.Write(p)
	c.written += int64(n)
	return n, err
}
