package moderation

import (
	"regexp"
	"strings"
)

var imageExtension = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|webp)$`)

// Attachment is a file attached to a chat message.
type Attachment struct {
	URL         string
	Filename    string
	ContentType string
}

// IsImage reports whether the attachment is an image, by declared content
// type first and file extension second.
func (a Attachment) IsImage() bool {
	if strings.HasPrefix(strings.ToLower(a.ContentType), "image/") {
		return true
	}
	return imageExtension.MatchString(a.Filename)
}

// Message is an inbound chat message as seen by the moderation core.
type Message struct {
	ID          string
	GuildID     string // empty for direct messages
	ChannelID   string
	AuthorID    string
	AuthorName  string
	AuthorBot   bool
	Content     string
	Attachments []Attachment
}

// ImageAttachments returns the image attachments in their original order.
func (m Message) ImageAttachments() []Attachment {
	var images []Attachment
	for _, a := range m.Attachments {
		if a.IsImage() {
			images = append(images, a)
		}
	}
	return images
}
