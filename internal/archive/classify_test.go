package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageRef(name string) AttachmentRef {
	return AttachmentRef{URL: "https://files.example.com/" + name, Name: name, Mime: "image/png"}
}

func pdfRef(name string) AttachmentRef {
	return AttachmentRef{URL: "https://files.example.com/" + name, Name: name, Mime: "application/pdf"}
}

func TestClassifySkips(t *testing.T) {
	tests := []struct {
		name string
		ev   MessageEvent
	}{
		{
			name: "thread reply without attachments",
			ev:   MessageEvent{EventTS: "1700000001.000100", ThreadTS: "1700000000.000100", Text: "nested discussion"},
		},
		{
			name: "edit notification",
			ev:   MessageEvent{EventTS: "1700000000.000100", Subtype: "message_changed", Text: "edited"},
		},
		{
			name: "deletion notification",
			ev:   MessageEvent{EventTS: "1700000000.000100", Subtype: "message_deleted"},
		},
		{
			name: "bot message",
			ev:   MessageEvent{EventTS: "1700000000.000100", Subtype: "bot_message", Text: "automated"},
		},
		{
			name: "channel join",
			ev:   MessageEvent{EventTS: "1700000000.000100", Subtype: "channel_join"},
		},
		{
			name: "empty message",
			ev:   MessageEvent{EventTS: "1700000000.000100", Text: "   "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Classify(tt.ev)
			assert.True(t, plan.Skip)
			assert.Empty(t, plan.Attachments)
		})
	}
}

func TestClassifyThreadRootIsArchived(t *testing.T) {
	// A thread root's thread_ts equals its own ts; only true replies skip.
	plan := Classify(MessageEvent{
		EventTS:  "1700000000.000100",
		ThreadTS: "1700000000.000100",
		Text:     "thread starter",
	})
	require.False(t, plan.Skip)
	assert.True(t, plan.EmitText)
	assert.Equal(t, CategoryMessages, plan.TextCategory)
}

func TestClassifyThreadReplyWithAttachmentIsArchived(t *testing.T) {
	plan := Classify(MessageEvent{
		EventTS:     "1700000001.000100",
		ThreadTS:    "1700000000.000100",
		Attachments: []AttachmentRef{imageRef("reply.png")},
	})
	require.False(t, plan.Skip)
	require.Len(t, plan.Attachments, 1)
	assert.Equal(t, CategoryAttachments, plan.Attachments[0].Category)
}

func TestClassifyFileShareSubtypeIsArchived(t *testing.T) {
	plan := Classify(MessageEvent{
		EventTS:     "1700000000.000100",
		Subtype:     "file_share",
		Attachments: []AttachmentRef{imageRef("photo.jpg")},
	})
	assert.False(t, plan.Skip)
}

func TestClassifyTextOnly(t *testing.T) {
	plan := Classify(MessageEvent{EventTS: "1700000000.000100", Text: "hello"})
	require.False(t, plan.Skip)
	assert.True(t, plan.EmitText)
	assert.False(t, plan.EmitCaption)
	assert.Equal(t, CategoryMessages, plan.TextCategory)
	assert.Empty(t, plan.Attachments)
}

func TestClassifyVisualWithoutText(t *testing.T) {
	plan := Classify(MessageEvent{
		EventTS:     "1700000000.000100",
		Attachments: []AttachmentRef{imageRef("a.png"), {URL: "u", Name: "clip.mp4", Mime: "video/mp4"}},
	})
	require.False(t, plan.Skip)
	assert.False(t, plan.EmitText)
	assert.False(t, plan.EmitCaption)
	require.Len(t, plan.Attachments, 2)
	for _, att := range plan.Attachments {
		assert.Equal(t, CategoryAttachments, att.Category)
	}
}

func TestClassifyVisualWithTextBecomesCaptionedPost(t *testing.T) {
	plan := Classify(MessageEvent{
		EventTS:     "1700000000.000100",
		Text:        "look at this",
		Attachments: []AttachmentRef{imageRef("a.png")},
	})
	require.False(t, plan.Skip)
	assert.True(t, plan.EmitCaption)
	assert.False(t, plan.EmitText, "caption must not also archive as a standalone message")
	require.Len(t, plan.Attachments, 1)
	assert.Equal(t, CategoryCaptionedPosts, plan.Attachments[0].Category)
}

func TestClassifyNonVisualAlwaysMiscellaneous(t *testing.T) {
	// Non-visual attachments land in Miscellaneous regardless of text.
	withText := Classify(MessageEvent{
		EventTS:     "1700000000.000100",
		Text:        "see attached report",
		Attachments: []AttachmentRef{pdfRef("report.pdf")},
	})
	require.False(t, withText.Skip)
	require.Len(t, withText.Attachments, 1)
	assert.Equal(t, CategoryMiscellaneous, withText.Attachments[0].Category)
	// Text with no visual sibling archives as a standalone message.
	assert.True(t, withText.EmitText)
	assert.False(t, withText.EmitCaption)

	withoutText := Classify(MessageEvent{
		EventTS:     "1700000000.000100",
		Attachments: []AttachmentRef{pdfRef("report.pdf")},
	})
	require.Len(t, withoutText.Attachments, 1)
	assert.Equal(t, CategoryMiscellaneous, withoutText.Attachments[0].Category)
}

func TestClassifyMixedAttachments(t *testing.T) {
	plan := Classify(MessageEvent{
		EventTS: "1700000000.000100",
		Text:    "photo plus notes",
		Attachments: []AttachmentRef{
			imageRef("photo.png"),
			pdfRef("notes.pdf"),
		},
	})
	require.False(t, plan.Skip)
	require.Len(t, plan.Attachments, 2)
	assert.Equal(t, CategoryCaptionedPosts, plan.Attachments[0].Category)
	assert.Equal(t, CategoryMiscellaneous, plan.Attachments[1].Category)
	assert.True(t, plan.EmitCaption)
	assert.False(t, plan.EmitText)
}

func TestAttachmentKind(t *testing.T) {
	assert.Equal(t, MediaImage, AttachmentRef{Mime: "image/jpeg"}.Kind())
	assert.Equal(t, MediaVideo, AttachmentRef{Mime: "VIDEO/MP4"}.Kind())
	assert.Equal(t, MediaOther, AttachmentRef{Mime: "application/zip"}.Kind())
	assert.Equal(t, MediaOther, AttachmentRef{}.Kind())
}
