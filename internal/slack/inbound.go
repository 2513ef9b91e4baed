// Package slack adapts Slack Events API payloads and Web API lookups for the
// archival pipeline.
package slack

import (
	"strings"

	"github.com/slack-go/slack/slackevents"

	"github.com/slackvault/slackvault/internal/archive"
)

// ExtractMessageEvent converts a Slack message callback into the pipeline's
// event type. Attachment refs keep the private download URL, the original
// filename, and the mime string; everything else about the raw file payload
// is dropped.
func ExtractMessageEvent(ev *slackevents.MessageEvent) archive.MessageEvent {
	if ev == nil {
		return archive.MessageEvent{}
	}
	out := archive.MessageEvent{
		EventTS:   strings.TrimSpace(ev.TimeStamp),
		ChannelID: strings.TrimSpace(ev.Channel),
		UserID:    strings.TrimSpace(ev.User),
		Text:      ev.Text,
		ThreadTS:  strings.TrimSpace(ev.ThreadTimeStamp),
		Subtype:   strings.TrimSpace(ev.SubType),
	}
	if out.UserID == "" && ev.BotID != "" {
		// Bot posts carry no user id; the classifier drops bot_message
		// subtypes anyway, but keep something resolvable for the rest.
		out.UserID = strings.TrimSpace(ev.BotID)
	}
	for _, file := range ev.Files {
		url := strings.TrimSpace(file.URLPrivateDownload)
		if url == "" {
			url = strings.TrimSpace(file.URLPrivate)
		}
		if url == "" {
			continue
		}
		out.Attachments = append(out.Attachments, archive.AttachmentRef{
			URL:  url,
			Name: strings.TrimSpace(file.Name),
			Mime: strings.TrimSpace(file.Mimetype),
		})
	}
	return out
}
