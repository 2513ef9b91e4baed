package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/slack-go/slack/slackevents"

	"github.com/slackvault/slackvault/internal/archive"
	slackin "github.com/slackvault/slackvault/internal/slack"
)

// maxEventBodyBytes bounds how much of a webhook body is read. Slack event
// payloads are small; anything past this is not a legitimate event.
const maxEventBodyBytes = 1 << 20

// EventSink accepts a classified event for asynchronous archival.
type EventSink interface {
	Enqueue(ev archive.MessageEvent, plan archive.Plan) bool
}

// EventsHandler receives Slack Events API callbacks: it answers URL
// verification challenges synchronously and hands message events to the
// archival executor before acknowledging.
type EventsHandler struct {
	path   string
	sink   EventSink
	logger *slog.Logger
}

func NewEventsHandler(log *slog.Logger, path string, sink EventSink) *EventsHandler {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/slack/events"
	}
	return &EventsHandler{
		path:   path,
		sink:   sink,
		logger: log.With(slog.String("handler", "slack_events")),
	}
}

func (h *EventsHandler) Register(e *echo.Echo) {
	e.POST(h.path, h.Receive)
}

func (h *EventsHandler) Receive(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxEventBodyBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		h.logger.Warn("unparseable event payload", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid event payload"})
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid challenge payload"})
		}
		// Slack expects the challenge token back unchanged.
		return c.JSON(http.StatusOK, map[string]string{"challenge": challenge.Challenge})

	case slackevents.CallbackEvent:
		if msg, ok := event.InnerEvent.Data.(*slackevents.MessageEvent); ok {
			ev := slackin.ExtractMessageEvent(msg)
			plan := archive.Classify(ev)
			if plan.Skip {
				h.logger.Debug("event skipped",
					"channel_id", ev.ChannelID,
					"event_ts", ev.EventTS,
					"subtype", ev.Subtype)
			} else {
				h.sink.Enqueue(ev, plan)
			}
		}
		return c.NoContent(http.StatusOK)
	}

	// Unknown event types are acknowledged so Slack does not retry them.
	return c.NoContent(http.StatusOK)
}
