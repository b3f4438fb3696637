package moderation

import (
	"ahri-bot/classifier"
	"ahri-bot/model"
	"ahri-bot/utils/database"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGuild      = "100"
	testChannel    = "200"
	testLogChannel = "300"
	testAuthor     = "400"
)

type fakeClassifier struct {
	mu     sync.Mutex
	calls  []string
	scores map[string]model.ScanScores
	err    error
	closed bool
}

func (f *fakeClassifier) Classify(_ context.Context, imageURL string) (model.ScanScores, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, imageURL)
	if f.err != nil {
		return model.ScanScores{}, f.err
	}
	return f.scores[imageURL], nil
}

func (f *fakeClassifier) Close() { f.closed = true }

func (f *fakeClassifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type sentMessage struct {
	ChannelID string
	Text      string
	Opts      SendOptions
}

type fakeActions struct {
	mu        sync.Mutex
	deleted   []string
	sent      []sentMessage
	deleteErr error
}

func (f *fakeActions) DeleteMessage(_ context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeActions) SendMessage(_ context.Context, channelID, text string, opts SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, Text: text, Opts: opts})
	return nil
}

func (f *fakeActions) sentTo(channelID string) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.sent {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []model.ActionRecord
}

func (f *fakeRecorder) Record(_ context.Context, rec model.ActionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

type pipelineFixture struct {
	store    *database.GuildStore
	clf      *fakeClassifier
	actions  *fakeActions
	recorder *fakeRecorder
	pipeline *Pipeline
}

// newFixture seeds an activated guild with testChannel monitored and a log channel set.
func newFixture(t *testing.T, seed func(cfg *model.GuildConfig)) *pipelineFixture {
	t.Helper()
	store, err := database.NewGuildStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Mutate(testGuild, func(cfg *model.GuildConfig) error {
		cfg.Activated = true
		cfg.Moderation.Enabled = true
		cfg.Moderation.LogChannelID = testLogChannel
		cfg.Moderation.ActiveChannelIDs = []string{testChannel}
		if seed != nil {
			seed(cfg)
		}
		return nil
	})
	require.NoError(t, err)

	f := &pipelineFixture{
		store:    store,
		clf:      &fakeClassifier{scores: map[string]model.ScanScores{}},
		actions:  &fakeActions{},
		recorder: &fakeRecorder{},
	}
	f.pipeline = NewPipeline(store, f.clf, f.actions, PipelineOptions{Recorder: f.recorder})
	f.pipeline.notice = func() string { return "removed" }
	return f
}

func imageMessage(urls ...string) Message {
	msg := Message{
		ID:         "500",
		GuildID:    testGuild,
		ChannelID:  testChannel,
		AuthorID:   testAuthor,
		AuthorName: "kit",
	}
	for i, u := range urls {
		msg.Attachments = append(msg.Attachments, Attachment{URL: u, Filename: fmt.Sprintf("img%d.png", i)})
	}
	return msg
}

func blacklistAuthor(cfg *model.GuildConfig) {
	cfg.Moderation.BlacklistUserIDs = []string{testAuthor}
}

func TestPipelineMonitoredChannelSkipsUnlistedAuthor(t *testing.T) {
	f := newFixture(t, nil)

	deleted, err := f.pipeline.HandleMessage(context.Background(), imageMessage("https://cdn/a.png"))
	require.NoError(t, err)

	assert.False(t, deleted)
	assert.Equal(t, 0, f.clf.callCount())
	assert.Empty(t, f.actions.sent)
	assert.Empty(t, f.recorder.records)
}

func TestPipelineDeletesExplicitImage(t *testing.T) {
	f := newFixture(t, blacklistAuthor)
	f.clf.scores["https://cdn/a.png"] = model.ScanScores{Explicit: 0.95, Suggestive: 0.40, Kind: model.MediaPhoto}

	deleted, err := f.pipeline.HandleMessage(context.Background(), imageMessage("https://cdn/a.png"))
	require.NoError(t, err)

	assert.True(t, deleted)
	assert.Equal(t, []string{"500"}, f.actions.deleted)

	notices := f.actions.sentTo(testChannel)
	require.Len(t, notices, 1)
	assert.Equal(t, "removed", notices[0].Text)
	assert.Equal(t, DefaultNoticeTTL, notices[0].Opts.DeleteAfter)

	logs := f.actions.sentTo(testLogChannel)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Text, "Deleted NSFW image")
	assert.Contains(t, logs[0].Text, "nsfw=0.95/0.80")
	assert.Contains(t, logs[0].Text, "suggestive=0.40/0.90")
	assert.Contains(t, logs[0].Text, "type=photo")
	assert.True(t, logs[0].Opts.Quiet)

	require.Len(t, f.recorder.records, 1)
	assert.Equal(t, model.ActionDelete, f.recorder.records[0].Action)
	assert.True(t, f.recorder.records[0].Deleted)

	cfg, err := f.store.Load(testGuild)
	require.NoError(t, err)
	assert.NotNil(t, cfg.Moderation.LastUpdated)
}

func TestPipelineClassifierTimeoutFailsOpen(t *testing.T) {
	f := newFixture(t, blacklistAuthor)
	f.clf.err = &classifier.Error{Provider: "Sightengine", Cause: "timeout", Err: context.DeadlineExceeded}

	before, err := f.store.Load(testGuild)
	require.NoError(t, err)

	deleted, err := f.pipeline.HandleMessage(context.Background(), imageMessage("https://cdn/a.png"))
	require.NoError(t, err)

	assert.False(t, deleted)
	assert.Empty(t, f.actions.deleted)
	assert.Empty(t, f.actions.sentTo(testChannel))

	logs := f.actions.sentTo(testLogChannel)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Text, "Scan failed")
	assert.Contains(t, logs[0].Text, "timeout")

	require.Len(t, f.recorder.records, 1)
	assert.Equal(t, model.ActionScanError, f.recorder.records[0].Action)

	after, err := f.store.Load(testGuild)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPipelineFlagsSuggestiveImage(t *testing.T) {
	f := newFixture(t, blacklistAuthor)
	f.clf.scores["https://cdn/a.png"] = model.ScanScores{Explicit: 0.0, Suggestive: 1.0, Kind: model.MediaPhoto}

	deleted, err := f.pipeline.HandleMessage(context.Background(), imageMessage("https://cdn/a.png"))
	require.NoError(t, err)

	assert.False(t, deleted)
	assert.Empty(t, f.actions.deleted)
	assert.Empty(t, f.actions.sentTo(testChannel))

	logs := f.actions.sentTo(testLogChannel)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Text, "Flagged suggestive image")

	require.Len(t, f.recorder.records, 1)
	assert.Equal(t, model.ActionFlag, f.recorder.records[0].Action)

	cfg, err := f.store.Load(testGuild)
	require.NoError(t, err)
	assert.Nil(t, cfg.Moderation.LastUpdated)
}

func TestPipelineStopsAtFirstDelete(t *testing.T) {
	f := newFixture(t, blacklistAuthor)
	f.clf.scores["https://cdn/ok.png"] = model.ScanScores{Explicit: 0.1, Kind: model.MediaPhoto}
	f.clf.scores["https://cdn/bad.png"] = model.ScanScores{Explicit: 0.99, Kind: model.MediaPhoto}

	deleted, err := f.pipeline.HandleMessage(context.Background(),
		imageMessage("https://cdn/ok.png", "https://cdn/bad.png", "https://cdn/never.png"))
	require.NoError(t, err)

	assert.True(t, deleted)
	assert.Equal(t, []string{"https://cdn/ok.png", "https://cdn/bad.png"}, f.clf.calls)
}

func TestPipelineContinuesAfterClassifierError(t *testing.T) {
	f := newFixture(t, blacklistAuthor)
	f.clf.err = errors.New("boom")

	_, err := f.pipeline.HandleMessage(context.Background(), imageMessage("https://cdn/1.png", "https://cdn/2.png"))
	require.NoError(t, err)
	assert.Equal(t, 2, f.clf.callCount())
}

func TestPipelineDeleteFailureIsLogged(t *testing.T) {
	f := newFixture(t, blacklistAuthor)
	f.actions.deleteErr = errors.New("missing permissions")
	f.clf.scores["https://cdn/a.png"] = model.ScanScores{Explicit: 0.95, Kind: model.MediaPhoto}

	deleted, err := f.pipeline.HandleMessage(context.Background(), imageMessage("https://cdn/a.png"))
	require.NoError(t, err)
	assert.True(t, deleted)

	var texts []string
	for _, m := range f.actions.sentTo(testLogChannel) {
		texts = append(texts, m.Text)
	}
	joined := strings.Join(texts, "\n")
	assert.Contains(t, joined, "Error deleting message")
	assert.Contains(t, joined, "not deleted")

	require.Len(t, f.recorder.records, 1)
	assert.False(t, f.recorder.records[0].Deleted)
	assert.Contains(t, f.recorder.records[0].Detail, "missing permissions")

	cfg, err := f.store.Load(testGuild)
	require.NoError(t, err)
	assert.NotNil(t, cfg.Moderation.LastUpdated)
}

func TestPipelineWithoutLogChannelDropsEntries(t *testing.T) {
	f := newFixture(t, func(cfg *model.GuildConfig) {
		blacklistAuthor(cfg)
		cfg.Moderation.LogChannelID = ""
	})
	f.clf.scores["https://cdn/a.png"] = model.ScanScores{Suggestive: 1.0, Kind: model.MediaPhoto}

	_, err := f.pipeline.HandleMessage(context.Background(), imageMessage("https://cdn/a.png"))
	require.NoError(t, err)
	assert.Empty(t, f.actions.sent)
}

func TestPipelineWithoutClassifierWarns(t *testing.T) {
	f := newFixture(t, blacklistAuthor)
	f.pipeline = NewPipeline(f.store, nil, f.actions, PipelineOptions{})

	deleted, err := f.pipeline.HandleMessage(context.Background(), imageMessage("https://cdn/a.png"))
	require.NoError(t, err)
	assert.False(t, deleted)

	logs := f.actions.sentTo(testLogChannel)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Text, "not configured")
}

func TestEligible(t *testing.T) {
	base := func() *model.GuildConfig {
		cfg := model.DefaultGuildConfig(testGuild)
		cfg.Activated = true
		cfg.Moderation.ActiveChannelIDs = []string{testChannel}
		return cfg
	}
	msg := imageMessage("https://cdn/a.png")
	elsewhere := msg
	elsewhere.ChannelID = "999"

	tests := []struct {
		name string
		cfg  func(cfg *model.GuildConfig)
		msg  Message
		want bool
	}{
		{"monitored, everyone flag", func(c *model.GuildConfig) { c.Moderation.EveryoneFlag = true }, msg, true},
		{"monitored, blacklisted", blacklistAuthor, msg, true},
		{"monitored, unlisted", nil, msg, false},
		{"unmonitored, blacklisted", blacklistAuthor, elsewhere, true},
		{"unmonitored, everyone flag", func(c *model.GuildConfig) { c.Moderation.EveryoneFlag = true }, elsewhere, false},
		{"whitelist beats blacklist", func(c *model.GuildConfig) {
			blacklistAuthor(c)
			c.Moderation.WhitelistUserIDs = []string{testAuthor}
		}, msg, false},
		{"not activated", func(c *model.GuildConfig) {
			blacklistAuthor(c)
			c.Activated = false
		}, msg, false},
		{"moderation disabled", func(c *model.GuildConfig) {
			blacklistAuthor(c)
			c.Moderation.Enabled = false
		}, msg, false},
		{"bot author", blacklistAuthor, func() Message { m := msg; m.AuthorBot = true; return m }(), false},
		{"direct message", blacklistAuthor, func() Message { m := msg; m.GuildID = ""; return m }(), false},
		{"no images", blacklistAuthor, func() Message {
			m := msg
			m.Attachments = []Attachment{{URL: "x", Filename: "doc.pdf"}}
			return m
		}(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			if tt.cfg != nil {
				tt.cfg(cfg)
			}
			assert.Equal(t, tt.want, len(Eligible(cfg, tt.msg)) > 0)
		})
	}
}

type blockingClassifier struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (b *blockingClassifier) Classify(context.Context, string) (model.ScanScores, error) {
	n := b.inFlight.Add(1)
	for {
		p := b.peak.Load()
		if n <= p || b.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	b.inFlight.Add(-1)
	return model.ScanScores{Kind: model.MediaPhoto}, nil
}

func TestPipelineBoundsConcurrentScans(t *testing.T) {
	f := newFixture(t, blacklistAuthor)
	clf := &blockingClassifier{}
	p := NewPipeline(f.store, clf, f.actions, PipelineOptions{MaxConcurrentScans: 2})

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.HandleMessage(context.Background(), imageMessage("https://cdn/a.png"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, clf.peak.Load(), int32(2))
	assert.Equal(t, int32(0), clf.inFlight.Load())
}

func TestPipelineCloseReleasesClassifier(t *testing.T) {
	f := newFixture(t, nil)
	f.pipeline.Close()
	assert.True(t, f.clf.closed)
}
