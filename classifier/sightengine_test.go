package classifier

import (
	"ahri-bot/model"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, timeout time.Duration) *SightengineClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewSightengineClient("user", "s3cret", timeout)
	c.Endpoint = srv.URL
	t.Cleanup(c.Close)
	return c
}

func TestClassifySendsWireParams(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"method":     r.Method,
			"models":     q.Get("models"),
			"api_user":   q.Get("api_user"),
			"api_secret": q.Get("api_secret"),
			"url":        q.Get("url"),
		}
		w.Write([]byte(`{"status":"success","nudity":{"sexual_activity":0.95,"suggestive":0.4},"type":{"photo":0.99}}`))
	}, time.Second)

	scores, err := c.Classify(context.Background(), "https://cdn.example/img.png?x=1&y=2")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"method":     http.MethodGet,
		"models":     "nudity-2.0,type",
		"api_user":   "user",
		"api_secret": "s3cret",
		"url":        "https://cdn.example/img.png?x=1&y=2",
	}, got)
	assert.InDelta(t, 0.95, scores.Explicit, 1e-9)
	assert.InDelta(t, 0.4, scores.Suggestive, 1e-9)
	assert.Equal(t, model.MediaPhoto, scores.Kind)
}

func TestClassifyNon200IsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status":"failure"}`))
	}, time.Second)

	_, err := c.Classify(context.Background(), "https://cdn.example/a.png")
	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, http.StatusTooManyRequests, cerr.StatusCode)
	assert.False(t, cerr.Timeout())
	assert.Contains(t, cerr.Error(), "HTTP 429")
}

func TestClassifyMalformedBodyIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}, time.Second)

	_, err := c.Classify(context.Background(), "https://cdn.example/a.png")
	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Contains(t, cerr.Cause, "non-JSON")
}

func TestClassifyTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	_, err := c.Classify(context.Background(), "https://cdn.example/a.png")
	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.True(t, cerr.Timeout())
	assert.Equal(t, "timeout", cerr.Cause)
	assert.NotContains(t, cerr.Error(), "s3cret")
}
