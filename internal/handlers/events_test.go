package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slackvault/slackvault/internal/archive"
)

type recordingSink struct {
	mu     sync.Mutex
	events []archive.MessageEvent
	plans  []archive.Plan
}

func (s *recordingSink) Enqueue(ev archive.MessageEvent, plan archive.Plan) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	s.plans = append(s.plans, plan)
	return true
}

func postEvent(t *testing.T, h *EventsHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Receive(e.NewContext(req, rec)))
	return rec
}

func TestReceiveChallengeEcho(t *testing.T) {
	h := NewEventsHandler(slog.Default(), "/slack/events", &recordingSink{})

	body := `{"token":"tok","challenge":"3eZbrw1aB1RIXNsSCIXXYkFk","type":"url_verification"}`
	rec := postEvent(t, h, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"challenge":"3eZbrw1aB1RIXNsSCIXXYkFk"`)
}

func TestReceiveMessageEnqueued(t *testing.T) {
	sink := &recordingSink{}
	h := NewEventsHandler(slog.Default(), "/slack/events", sink)

	body := `{
		"token":"tok","team_id":"T1","api_app_id":"A1","type":"event_callback",
		"event_id":"Ev1","event_time":1700000000,
		"event":{"type":"message","user":"U1","text":"hello","ts":"1700000000.000100","channel":"C1","event_ts":"1700000000.000100"}
	}`
	rec := postEvent(t, h, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sink.events, 1)
	assert.Equal(t, "C1", sink.events[0].ChannelID)
	assert.Equal(t, "hello", sink.events[0].Text)
	require.Len(t, sink.plans, 1)
	assert.True(t, sink.plans[0].EmitText)
}

func TestReceiveThreadReplyNotEnqueued(t *testing.T) {
	sink := &recordingSink{}
	h := NewEventsHandler(slog.Default(), "/slack/events", sink)

	body := `{
		"token":"tok","team_id":"T1","api_app_id":"A1","type":"event_callback",
		"event_id":"Ev2","event_time":1700000001,
		"event":{"type":"message","user":"U1","text":"nested","ts":"1700000001.000100","thread_ts":"1700000000.000100","channel":"C1","event_ts":"1700000001.000100"}
	}`
	rec := postEvent(t, h, body)

	assert.Equal(t, http.StatusOK, rec.Code, "skipped events are still acknowledged")
	assert.Empty(t, sink.events)
}

func TestReceiveRejectsGarbage(t *testing.T) {
	h := NewEventsHandler(slog.Default(), "/slack/events", &recordingSink{})
	rec := postEvent(t, h, `{{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReceiveAcknowledgesUnknownEventTypes(t *testing.T) {
	sink := &recordingSink{}
	h := NewEventsHandler(slog.Default(), "/slack/events", sink)

	body := `{
		"token":"tok","team_id":"T1","api_app_id":"A1","type":"event_callback",
		"event_id":"Ev3","event_time":1700000002,
		"event":{"type":"reaction_added","user":"U1","event_ts":"1700000002.000100"}
	}`
	rec := postEvent(t, h, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sink.events)
}
