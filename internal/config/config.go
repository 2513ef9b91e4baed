package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":8080"
	DefaultEventsPath      = "/slack/events"
	DefaultArchiveWorkers  = 4
	DefaultArchiveQueue    = 256
	DefaultMaxDownloadMB   = 100
	DefaultDownloadTimeout = 60
)

type Config struct {
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	Slack   SlackConfig   `toml:"slack"`
	Drive   DriveConfig   `toml:"drive"`
	Archive ArchiveConfig `toml:"archive"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr       string `toml:"addr"`
	EventsPath string `toml:"events_path"`
}

type SlackConfig struct {
	BotToken string `toml:"bot_token" validate:"required"`
}

type DriveConfig struct {
	CredentialsFile string `toml:"credentials_file" validate:"required"`
	RootFolderID    string `toml:"root_folder_id" validate:"required"`
}

type ArchiveConfig struct {
	Workers   int `toml:"workers" validate:"min=1,max=64"`
	QueueSize int `toml:"queue_size" validate:"min=1"`
	// MaxDownloadMB caps a single attachment download.
	MaxDownloadMB int `toml:"max_download_mb" validate:"min=1"`
	// DownloadTimeoutSeconds bounds one attachment fetch from Slack.
	DownloadTimeoutSeconds int `toml:"download_timeout_seconds" validate:"min=1"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:       DefaultHTTPAddr,
			EventsPath: DefaultEventsPath,
		},
		Archive: ArchiveConfig{
			Workers:                DefaultArchiveWorkers,
			QueueSize:              DefaultArchiveQueue,
			MaxDownloadMB:          DefaultMaxDownloadMB,
			DownloadTimeoutSeconds: DefaultDownloadTimeout,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks that required credentials and limits are present before the
// service starts. Field-level rules live on the struct tags.
func (c Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return fmt.Errorf("config: %s fails %q", first.Namespace(), first.Tag())
	}
	return err
}
