package archive

import "strings"

// excludedSubtypes are message subtypes that never carry archivable user
// content: edits, deletions, bot chatter, and channel housekeeping.
// file_share and thread_broadcast are deliberately absent; both wrap
// ordinary user messages.
var excludedSubtypes = map[string]struct{}{
	"message_changed": {},
	"message_deleted": {},
	"message_replied": {},
	"bot_message":     {},
	"channel_join":    {},
	"channel_leave":   {},
	"channel_topic":   {},
	"channel_purpose": {},
	"channel_name":    {},
	"channel_archive": {},
	"group_join":      {},
	"group_leave":     {},
	"group_topic":     {},
	"group_purpose":   {},
	"group_name":      {},
}

// Classify turns an inbound message event into an archival plan.
//
// Thread replies without attachments and housekeeping subtypes are skipped,
// as are fully empty messages. Otherwise each attachment is routed by media
// kind: images and videos go to "Captioned Posts" when the message carries
// text (the text becomes a one-time caption artifact) or to "Attachments"
// when it does not; everything else lands in "Miscellaneous". A message with
// text and no visual attachment archives its text into "Messages".
func Classify(ev MessageEvent) Plan {
	if ev.ThreadReply() && len(ev.Attachments) == 0 {
		return Plan{Skip: true}
	}
	if _, excluded := excludedSubtypes[strings.TrimSpace(ev.Subtype)]; excluded {
		return Plan{Skip: true}
	}

	hasText := strings.TrimSpace(ev.Text) != ""
	if !hasText && len(ev.Attachments) == 0 {
		return Plan{Skip: true}
	}

	hasVisual := false
	for _, ref := range ev.Attachments {
		if ref.Visual() {
			hasVisual = true
			break
		}
	}

	plan := Plan{}
	for _, ref := range ev.Attachments {
		category := CategoryMiscellaneous
		if ref.Visual() {
			if hasText {
				category = CategoryCaptionedPosts
			} else {
				category = CategoryAttachments
			}
		}
		plan.Attachments = append(plan.Attachments, PlannedAttachment{Ref: ref, Category: category})
	}

	switch {
	case hasText && hasVisual:
		plan.EmitCaption = true
	case hasText:
		plan.EmitText = true
		plan.TextCategory = CategoryMessages
	}
	return plan
}
