package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/slackvault/slackvault/internal/logger"
)

// Directory resolves Slack ids to display names.
type Directory interface {
	UserName(ctx context.Context, userID string) string
	ChannelName(ctx context.Context, channelID string) string
}

// FolderResolver maps a (parent, name) pair to a Drive folder id, creating
// the folder when absent.
type FolderResolver interface {
	Resolve(ctx context.Context, parentID, name string) (string, error)
}

// Uploader writes one artifact into a Drive folder.
type Uploader interface {
	Upload(ctx context.Context, parentID, name string, content io.Reader) error
}

// Fetcher spools a Slack file download to local disk and returns the spool
// path plus a cleanup func.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, func(), error)
}

type task struct {
	id    string
	event MessageEvent
	plan  Plan
}

// Executor drains a bounded queue of archival tasks with a fixed pool of
// workers. Enqueue never blocks the webhook path: when the queue is full the
// event is dropped and logged.
type Executor struct {
	rootFolderID string
	directory    Directory
	resolver     FolderResolver
	uploader     Uploader
	fetcher      Fetcher

	queue     chan task
	workers   int
	startOnce sync.Once
	wg        sync.WaitGroup
	logger    *slog.Logger
}

func NewExecutor(rootFolderID string, workers, queueSize int, directory Directory, resolver FolderResolver, uploader Uploader, fetcher Fetcher) *Executor {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Executor{
		rootFolderID: rootFolderID,
		directory:    directory,
		resolver:     resolver,
		uploader:     uploader,
		fetcher:      fetcher,
		queue:        make(chan task, queueSize),
		workers:      workers,
		logger:       logger.L.With(slog.String("component", "archive_executor")),
	}
}

// Start launches the worker pool. Subsequent calls are no-ops. Workers run
// until Stop closes the queue or ctx is cancelled.
func (e *Executor) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		e.logger.Info("starting workers", "workers", e.workers, "queue_size", cap(e.queue))
		for i := 0; i < e.workers; i++ {
			e.wg.Add(1)
			go func() {
				defer e.wg.Done()
				for {
					select {
					case <-ctx.Done():
						return
					case t, ok := <-e.queue:
						if !ok {
							return
						}
						e.process(ctx, t)
					}
				}
			}()
		}
	})
}

// Stop closes the queue and waits for in-flight tasks to finish.
func (e *Executor) Stop() {
	close(e.queue)
	e.wg.Wait()
}

// Enqueue submits a planned event for archival. It reports false when the
// queue is full and the event was dropped.
func (e *Executor) Enqueue(ev MessageEvent, plan Plan) bool {
	if plan.Skip {
		return true
	}
	t := task{id: uuid.NewString(), event: ev, plan: plan}
	select {
	case e.queue <- t:
		return true
	default:
		e.logger.Error("queue full, dropping event",
			"task_id", t.id,
			"channel_id", ev.ChannelID,
			"event_ts", ev.EventTS)
		return false
	}
}

func (e *Executor) process(ctx context.Context, t task) {
	log := e.logger.With(slog.String("task_id", t.id), slog.String("event_ts", t.event.EventTS))

	channelName := e.directory.ChannelName(ctx, t.event.ChannelID)
	userName := e.directory.UserName(ctx, t.event.UserID)
	ts, err := Timestamp(t.event.EventTS)
	if err != nil {
		log.Error("unparseable event timestamp", "error", err)
		return
	}

	channelFolderID, err := e.resolver.Resolve(ctx, e.rootFolderID, channelName)
	if err != nil {
		log.Error("channel folder resolution failed", "channel", channelName, "error", err)
		return
	}

	if t.plan.EmitText {
		if err := e.uploadText(ctx, channelFolderID, t.plan.TextCategory, ts, userName, t.event.Text); err != nil {
			log.Error("text archival failed", "error", err)
		}
	}

	if len(t.plan.Attachments) == 0 {
		return
	}

	// Download everything first so indices only count attachments that
	// actually made it to disk.
	type spooled struct {
		planned PlannedAttachment
		path    string
		cleanup func()
	}
	var ready []spooled
	for _, att := range t.plan.Attachments {
		path, cleanup, err := e.fetcher.Fetch(ctx, att.Ref.URL)
		if err != nil {
			log.Error("attachment download failed", "name", att.Ref.Name, "error", err)
			continue
		}
		ready = append(ready, spooled{planned: att, path: path, cleanup: cleanup})
	}
	defer func() {
		for _, s := range ready {
			s.cleanup()
		}
	}()

	captionDone := !t.plan.EmitCaption
	for i, s := range ready {
		folderID, err := e.resolver.Resolve(ctx, channelFolderID, string(s.planned.Category))
		if err != nil {
			log.Error("category folder resolution failed", "category", string(s.planned.Category), "error", err)
			continue
		}
		name := ArtifactName(ts, userName, Extension(s.planned.Ref.Name), i+1, len(ready))
		if err := e.uploadFile(ctx, folderID, name, s.path); err != nil {
			log.Error("attachment upload failed", "name", name, "error", err)
			continue
		}
		if !captionDone && s.planned.Ref.Visual() {
			// The caption lands once, beside the first visual that
			// archived successfully.
			name := TextArtifactName(ts, userName)
			if err := e.uploader.Upload(ctx, folderID, name, strings.NewReader(t.event.Text)); err != nil {
				log.Error("caption upload failed", "error", err)
			} else {
				captionDone = true
			}
		}
	}

	if !captionDone {
		// Every visual failed; keep the caption anyway so the text of the
		// post is not lost.
		if err := e.uploadText(ctx, channelFolderID, CategoryMessages, ts, userName, t.event.Text); err != nil {
			log.Error("caption fallback failed", "error", err)
		}
	}
}

func (e *Executor) uploadText(ctx context.Context, channelFolderID string, category Category, ts, userName, text string) error {
	folderID, err := e.resolver.Resolve(ctx, channelFolderID, string(category))
	if err != nil {
		return fmt.Errorf("resolve %q folder: %w", string(category), err)
	}
	name := TextArtifactName(ts, userName)
	if err := e.uploader.Upload(ctx, folderID, name, strings.NewReader(text)); err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	return nil
}

func (e *Executor) uploadFile(ctx context.Context, folderID, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open spool file: %w", err)
	}
	defer f.Close()
	if err := e.uploader.Upload(ctx, folderID, name, f); err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	return nil
}
