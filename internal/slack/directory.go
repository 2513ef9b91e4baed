package slack

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	slackapi "github.com/slack-go/slack"

	"github.com/slackvault/slackvault/internal/logger"
)

// API is the slice of the Slack Web API the directory needs. *slackapi.Client
// satisfies it.
type API interface {
	GetUserInfoContext(ctx context.Context, user string) (*slackapi.User, error)
	GetConversationInfoContext(ctx context.Context, input *slackapi.GetConversationInfoInput) (*slackapi.Channel, error)
}

// Directory resolves Slack user and channel ids to display names. Results are
// cached for the lifetime of the directory; lookup failures fall back to the
// raw id so archival never blocks on the directory.
type Directory struct {
	api      API
	mu       sync.Mutex
	users    map[string]string
	channels map[string]string
	logger   *slog.Logger
}

func NewDirectory(api API) *Directory {
	return &Directory{
		api:      api,
		users:    make(map[string]string),
		channels: make(map[string]string),
		logger:   logger.L.With(slog.String("component", "slack_directory")),
	}
}

// UserName returns the user's real name, falling back to the handle and then
// to the id itself.
func (d *Directory) UserName(ctx context.Context, userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "unknown"
	}
	d.mu.Lock()
	if name, ok := d.users[userID]; ok {
		d.mu.Unlock()
		return name
	}
	d.mu.Unlock()

	user, err := d.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		// Transient failures are not cached; fall back to the raw id.
		d.logger.Debug("user lookup failed", "user_id", userID, "error", err)
		return userID
	}
	name := userID
	if user != nil {
		if strings.TrimSpace(user.RealName) != "" {
			name = strings.TrimSpace(user.RealName)
		} else if strings.TrimSpace(user.Name) != "" {
			name = strings.TrimSpace(user.Name)
		}
	}

	d.mu.Lock()
	d.users[userID] = name
	d.mu.Unlock()
	return name
}

// ChannelName returns the channel's name, falling back to the id.
func (d *Directory) ChannelName(ctx context.Context, channelID string) string {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return "unknown"
	}
	d.mu.Lock()
	if name, ok := d.channels[channelID]; ok {
		d.mu.Unlock()
		return name
	}
	d.mu.Unlock()

	channel, err := d.api.GetConversationInfoContext(ctx, &slackapi.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil {
		d.logger.Debug("channel lookup failed", "channel_id", channelID, "error", err)
		return channelID
	}
	name := channelID
	if channel != nil && strings.TrimSpace(channel.Name) != "" {
		name = strings.TrimSpace(channel.Name)
	}

	d.mu.Lock()
	d.channels[channelID] = name
	d.mu.Unlock()
	return name
}
