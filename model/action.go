package model

// ActionRecord is one moderation outcome stored in the history database.
// The database table is named 'moderation_actions'.
type ActionRecord struct {
	ID                  string  `db:"id"` // UUID
	GuildID             string  `db:"guild_id"`
	ChannelID           string  `db:"channel_id"`
	MessageID           string  `db:"message_id"`
	AuthorID            string  `db:"author_id"`
	AuthorName          string  `db:"author_name"`
	ImageURL            string  `db:"image_url"`
	Action              string  `db:"action"` // "delete", "flag" or "scan_error"
	Explicit            float64 `db:"explicit"`
	Suggestive          float64 `db:"suggestive"`
	NSFWThreshold       float64 `db:"nsfw_threshold"`
	SuggestiveThreshold float64 `db:"suggestive_threshold"`
	MediaKind           string  `db:"media_kind"`
	Deleted             bool    `db:"deleted"`
	Detail              string  `db:"detail"`
	Timestamp           int64   `db:"timestamp"`
}

const (
	ActionDelete    = "delete"
	ActionFlag      = "flag"
	ActionScanError = "scan_error"
)
