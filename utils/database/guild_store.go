package database

import (
	"ahri-bot/model"
	"ahri-bot/utils"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ErrUnchanged may be returned by a Mutate update function to abort the
// mutation without persisting anything. Mutate passes it back to the caller.
var ErrUnchanged = errors.New("guild config unchanged")

// StorageError reports an I/O or decoding failure of a guild record.
type StorageError struct {
	Op      string
	GuildID string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s for guild %s: %v", e.Op, e.GuildID, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// GuildStore persists one JSON record per guild under a directory.
//
// Readers never lock: records are published by renaming a fully written
// temporary file over the old one, so a reader sees either the previous or
// the new record. Writers of the same guild are serialized by a per-guild
// mutex held across the whole read-modify-write cycle.
type GuildStore struct {
	dir   string
	locks *utils.KeyedLocker
	now   func() time.Time
}

// NewGuildStore creates the directory if needed and returns a store rooted at it.
func NewGuildStore(dir string) (*GuildStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Op: "init", Err: err}
	}
	return &GuildStore{
		dir:   dir,
		locks: utils.NewKeyedLocker(),
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *GuildStore) path(guildID string) string {
	return filepath.Join(s.dir, guildID+".json")
}

// validateID keeps guild IDs to decimal snowflakes so they cannot escape the store directory.
func validateID(guildID string) error {
	if _, err := strconv.ParseUint(guildID, 10, 64); err != nil {
		return fmt.Errorf("invalid guild id %q", guildID)
	}
	return nil
}

// Load returns the stored record of a guild. A guild seen for the first time
// gets a default record, which is persisted before Load returns.
func (s *GuildStore) Load(guildID string) (*model.GuildConfig, error) {
	if err := validateID(guildID); err != nil {
		return nil, &StorageError{Op: "load", GuildID: guildID, Err: err}
	}
	cfg, err := s.read(guildID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	unlock := s.locks.Lock(guildID)
	defer unlock()
	return s.loadOrCreateLocked(guildID)
}

// Mutate applies update to the current record of a guild and persists the
// result, stamping LastUpdated. The guild's lock is held for the whole cycle;
// other guilds are not blocked. If update returns an error nothing is
// written and the error is returned as is.
func (s *GuildStore) Mutate(guildID string, update func(cfg *model.GuildConfig) error) (*model.GuildConfig, error) {
	if err := validateID(guildID); err != nil {
		return nil, &StorageError{Op: "mutate", GuildID: guildID, Err: err}
	}

	unlock := s.locks.Lock(guildID)
	defer unlock()

	cfg, err := s.loadOrCreateLocked(guildID)
	if err != nil {
		return nil, err
	}
	if err := update(cfg); err != nil {
		return cfg, err
	}

	now := s.now()
	cfg.GuildID = guildID
	cfg.LastUpdated = &now
	if err := s.write(guildID, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetActivated switches all feature processing of a guild on or off.
func (s *GuildStore) SetActivated(guildID string, activated bool) error {
	_, err := s.Mutate(guildID, func(cfg *model.GuildConfig) error {
		cfg.Activated = activated
		return nil
	})
	return err
}

// EnsureOwnerAdmin seeds the admin set with the guild owner if it is empty.
func (s *GuildStore) EnsureOwnerAdmin(guildID, ownerID string) error {
	if ownerID == "" {
		return nil
	}
	_, err := s.Mutate(guildID, func(cfg *model.GuildConfig) error {
		if len(cfg.Admins) > 0 {
			return ErrUnchanged
		}
		cfg.Admins = []string{ownerID}
		return nil
	})
	if errors.Is(err, ErrUnchanged) {
		return nil
	}
	return err
}

// LockCount is the number of guilds that have had a lock created.
func (s *GuildStore) LockCount() int {
	return s.locks.Len()
}

func (s *GuildStore) loadOrCreateLocked(guildID string) (*model.GuildConfig, error) {
	cfg, err := s.read(guildID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	cfg = model.DefaultGuildConfig(guildID)
	if err := s.write(guildID, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *GuildStore) read(guildID string) (*model.GuildConfig, error) {
	data, err := os.ReadFile(s.path(guildID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, &StorageError{Op: "read", GuildID: guildID, Err: err}
	}

	// Decoding over the defaults fills in keys missing from older records.
	cfg := model.DefaultGuildConfig(guildID)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, &StorageError{Op: "decode", GuildID: guildID, Err: err}
	}
	normalize(cfg)
	return cfg, nil
}

// normalize replaces nulls left by decoding with empty values.
func normalize(cfg *model.GuildConfig) {
	if cfg.Admins == nil {
		cfg.Admins = []string{}
	}
	m := &cfg.Moderation
	if m.ActiveChannelIDs == nil {
		m.ActiveChannelIDs = []string{}
	}
	if m.WhitelistUserIDs == nil {
		m.WhitelistUserIDs = []string{}
	}
	if m.BlacklistUserIDs == nil {
		m.BlacklistUserIDs = []string{}
	}
	if cfg.Automod.BannedWords == nil {
		cfg.Automod.BannedWords = []string{}
	}
}

func (s *GuildStore) write(guildID string, cfg *model.GuildConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", GuildID: guildID, Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, guildID+".json.tmp*")
	if err != nil {
		return &StorageError{Op: "write", GuildID: guildID, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Op: "write", GuildID: guildID, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "write", GuildID: guildID, Err: err}
	}
	if err := os.Rename(tmpName, s.path(guildID)); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "publish", GuildID: guildID, Err: err}
	}
	return nil
}
