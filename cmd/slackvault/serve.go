package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/slackvault/slackvault/internal/archive"
	"github.com/slackvault/slackvault/internal/config"
	"github.com/slackvault/slackvault/internal/drive"
	"github.com/slackvault/slackvault/internal/handlers"
	"github.com/slackvault/slackvault/internal/logger"
	"github.com/slackvault/slackvault/internal/server"
	slackin "github.com/slackvault/slackvault/internal/slack"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideSlackClient,
			provideDirectory,
			provideDownloader,
			provideDriveClient,
			drive.NewFolderCache,
			provideResolver,
			provideExecutor,
			handlers.NewPingHandler,
			provideEventsHandler,
			provideServer,
		),
		fx.Invoke(
			startExecutor,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig() (config.Config, error) {
	cfgPath := strings.TrimSpace(configPath)
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideSlackClient(cfg config.Config) *slackapi.Client {
	return slackapi.New(cfg.Slack.BotToken)
}

func provideDirectory(client *slackapi.Client) *slackin.Directory {
	return slackin.NewDirectory(client)
}

func provideDownloader(cfg config.Config, client *slackapi.Client) *slackin.Downloader {
	maxBytes := int64(cfg.Archive.MaxDownloadMB) << 20
	timeout := time.Duration(cfg.Archive.DownloadTimeoutSeconds) * time.Second
	return slackin.NewDownloader(client, maxBytes, timeout)
}

func provideDriveClient(log *slog.Logger, cfg config.Config) (*drive.Client, error) {
	client, err := drive.NewClient(context.Background(), log, cfg.Drive.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("drive client: %w", err)
	}
	return client, nil
}

func provideResolver(log *slog.Logger, client *drive.Client, cache *drive.FolderCache) *drive.Resolver {
	return drive.NewResolver(log, client, cache)
}

func provideExecutor(cfg config.Config, directory *slackin.Directory, resolver *drive.Resolver, client *drive.Client, downloader *slackin.Downloader) *archive.Executor {
	return archive.NewExecutor(cfg.Drive.RootFolderID, cfg.Archive.Workers, cfg.Archive.QueueSize, directory, resolver, client, downloader)
}

func provideEventsHandler(log *slog.Logger, cfg config.Config, executor *archive.Executor) *handlers.EventsHandler {
	return handlers.NewEventsHandler(log, cfg.Server.EventsPath, executor)
}

func provideServer(log *slog.Logger, cfg config.Config, pingHandler *handlers.PingHandler, eventsHandler *handlers.EventsHandler) *server.Server {
	return server.NewServer(log, cfg.Server.Addr, pingHandler, eventsHandler)
}

func startExecutor(lc fx.Lifecycle, executor *archive.Executor) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error { executor.Start(ctx); return nil },
		OnStop: func(_ context.Context) error {
			// Drain queued work before cancelling in-flight contexts.
			executor.Stop()
			cancel()
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
