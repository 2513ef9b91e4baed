// Package archive decides what to do with inbound Slack messages and carries
// the accepted ones into the Drive folder layout.
package archive

import "strings"

// Category is the archival subfolder a piece of content lands in.
type Category string

const (
	CategoryMessages       Category = "Messages"
	CategoryAttachments    Category = "Attachments"
	CategoryCaptionedPosts Category = "Captioned Posts"
	CategoryMiscellaneous  Category = "Miscellaneous"
)

func (c Category) String() string { return string(c) }

// MediaKind classifies an attachment by its mime type.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaOther MediaKind = "other"
)

// AttachmentRef points at one Slack file carried by a message. Derived once
// from the raw event payload; immutable afterwards.
type AttachmentRef struct {
	URL  string
	Name string
	Mime string
}

// Kind derives the media kind from the mime string.
func (a AttachmentRef) Kind() MediaKind {
	mime := strings.ToLower(strings.TrimSpace(a.Mime))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return MediaImage
	case strings.HasPrefix(mime, "video/"):
		return MediaVideo
	default:
		return MediaOther
	}
}

// Visual reports whether the attachment is an image or a video.
func (a AttachmentRef) Visual() bool {
	kind := a.Kind()
	return kind == MediaImage || kind == MediaVideo
}

// MessageEvent is one inbound message to consider for archival. Built once
// per webhook call and owned by the unit of work that processes it.
type MessageEvent struct {
	// EventTS is the Slack message timestamp token. It doubles as the
	// event's uniqueness key and, converted, as the artifact timestamp.
	EventTS     string
	ChannelID   string
	UserID      string
	Text        string
	ThreadTS    string
	Subtype     string
	Attachments []AttachmentRef
}

// ThreadReply reports whether the event is a reply inside a thread, as
// opposed to a thread root (whose thread_ts equals its own ts).
func (ev MessageEvent) ThreadReply() bool {
	return ev.ThreadTS != "" && ev.ThreadTS != ev.EventTS
}

// PlannedAttachment pairs an attachment with its destination category.
type PlannedAttachment struct {
	Ref      AttachmentRef
	Category Category
}

// Plan is the classifier's decision for one event. Computed once, never
// mutated.
type Plan struct {
	Skip bool
	// EmitText is set for text-only messages; the text becomes a standalone
	// artifact in TextCategory.
	EmitText     bool
	TextCategory Category
	// EmitCaption is set when the message text rides along with visual
	// attachments; the caption is uploaded exactly once, next to the first
	// visual attachment that survives download.
	EmitCaption bool
	Attachments []PlannedAttachment
}
