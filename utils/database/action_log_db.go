package database

import (
	"ahri-bot/model"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ActionLog is the sqlite-backed history of moderation outcomes.
type ActionLog struct {
	db *sqlx.DB
}

// OpenActionLog connects to the history database and ensures its schema.
func OpenActionLog(dbPath string) (*ActionLog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// sqlite allows a single writer; keep database/sql from opening more.
	db.SetMaxOpenConns(1)

	schema := `CREATE TABLE IF NOT EXISTS moderation_actions (
		id TEXT NOT NULL PRIMARY KEY,
		guild_id TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		message_id TEXT NOT NULL,
		author_id TEXT NOT NULL,
		author_name TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		explicit REAL NOT NULL DEFAULT 0,
		suggestive REAL NOT NULL DEFAULT 0,
		nsfw_threshold REAL NOT NULL DEFAULT 0,
		suggestive_threshold REAL NOT NULL DEFAULT 0,
		media_kind TEXT NOT NULL DEFAULT '',
		deleted INTEGER NOT NULL DEFAULT 0,
		detail TEXT NOT NULL DEFAULT '',
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_moderation_actions_guild_ts ON moderation_actions (guild_id, timestamp);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create moderation_actions table: %w", err)
	}

	return &ActionLog{db: db}, nil
}

// Record inserts a history entry, assigning an ID if it has none.
func (l *ActionLog) Record(ctx context.Context, rec model.ActionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	query := `INSERT INTO moderation_actions (id, guild_id, channel_id, message_id, author_id, author_name, image_url, action, explicit, suggestive, nsfw_threshold, suggestive_threshold, media_kind, deleted, detail, timestamp)
			  VALUES (:id, :guild_id, :channel_id, :message_id, :author_id, :author_name, :image_url, :action, :explicit, :suggestive, :nsfw_threshold, :suggestive_threshold, :media_kind, :deleted, :detail, :timestamp)`
	if _, err := l.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("failed to insert moderation action: %w", err)
	}
	return nil
}

// Recent returns up to limit entries of a guild, newest first.
func (l *ActionLog) Recent(ctx context.Context, guildID string, limit int) ([]model.ActionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var records []model.ActionRecord
	query := "SELECT * FROM moderation_actions WHERE guild_id = ? ORDER BY timestamp DESC, rowid DESC LIMIT ?"
	if err := l.db.SelectContext(ctx, &records, query, guildID, limit); err != nil {
		return nil, fmt.Errorf("failed to get moderation actions for guild %s: %w", guildID, err)
	}
	return records, nil
}

// CountByAction returns the number of entries of a guild per action.
func (l *ActionLog) CountByAction(ctx context.Context, guildID string) (map[string]int, error) {
	rows, err := l.db.QueryxContext(ctx, "SELECT action, COUNT(*) FROM moderation_actions WHERE guild_id = ? GROUP BY action", guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to count moderation actions for guild %s: %w", guildID, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, err
		}
		counts[action] = n
	}
	return counts, rows.Err()
}

// Close closes the underlying database.
func (l *ActionLog) Close() error {
	return l.db.Close()
}
