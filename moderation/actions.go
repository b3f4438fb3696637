package moderation

import (
	"ahri-bot/model"
	"context"
	"fmt"
	"time"
)

// ChatActions is what the moderation core needs from the chat layer.
// Failures are logged by the caller and never retried.
type ChatActions interface {
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendMessage(ctx context.Context, channelID, text string, opts SendOptions) error
}

// SendOptions tune an outgoing message.
type SendOptions struct {
	// DeleteAfter removes the message after the given duration when positive.
	DeleteAfter time.Duration
	// Quiet disables mentions and link embeds.
	Quiet bool
}

// ActionRecorder stores moderation outcomes for later review.
type ActionRecorder interface {
	Record(ctx context.Context, rec model.ActionRecord) error
}

// ActionError is a failed delete or send against the chat layer.
type ActionError struct {
	Op  string
	Err error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
