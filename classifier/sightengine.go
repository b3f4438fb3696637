package classifier

import (
	"ahri-bot/model"
	"ahri-bot/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/carlmjohnson/versioninfo"
)

const (
	DefaultSightengineEndpoint = "https://api.sightengine.com/1.0/check.json"
	DefaultTimeout             = 30 * time.Second

	sightengineProvider = "Sightengine"
	sightengineModels   = "nudity-2.0,type"
	maxResponseBytes    = 1 << 20
	maxErrorBodyChars   = 300
)

// SightengineClient classifies images with the Sightengine check API.
// One HTTP attempt per call; retries are up to the caller.
type SightengineClient struct {
	Client    *http.Client
	Endpoint  string
	APIUser   string
	APISecret string
	Timeout   time.Duration
}

func NewSightengineClient(apiUser, apiSecret string, timeout time.Duration) *SightengineClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SightengineClient{
		Client:    utils.NewHTTPClient(timeout),
		Endpoint:  DefaultSightengineEndpoint,
		APIUser:   apiUser,
		APISecret: apiSecret,
		Timeout:   timeout,
	}
}

func (c *SightengineClient) Classify(ctx context.Context, imageURL string) (model.ScanScores, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	params := url.Values{
		"models":     {sightengineModels},
		"api_user":   {c.APIUser},
		"api_secret": {c.APISecret},
		"url":        {imageURL},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return model.ScanScores{}, &Error{Provider: sightengineProvider, Cause: fmt.Sprintf("bad request: %v", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ahri-bot/"+versioninfo.Short())

	start := time.Now()
	defer func() {
		sightengineAPIDuration.Observe(time.Since(start).Seconds())
	}()

	res, err := c.Client.Do(req)
	if err != nil {
		return model.ScanScores{}, c.transportError(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return model.ScanScores{}, c.transportError(err)
	}

	if res.StatusCode != http.StatusOK {
		sightengineAPICount.WithLabelValues(fmt.Sprint(res.StatusCode)).Inc()
		return model.ScanScores{}, &Error{
			Provider:   sightengineProvider,
			Cause:      truncate(string(body), maxErrorBodyChars),
			StatusCode: res.StatusCode,
		}
	}

	scores, err := ParseSightengine(body)
	if err != nil {
		sightengineAPICount.WithLabelValues("malformed").Inc()
		return model.ScanScores{}, &Error{Provider: sightengineProvider, Cause: err.Error(), Err: err}
	}
	sightengineAPICount.WithLabelValues("200").Inc()
	return scores, nil
}

// Close releases pooled connections.
func (c *SightengineClient) Close() {
	c.Client.CloseIdleConnections()
}

// transportError wraps a failed request. The *url.Error layer is dropped
// because its URL carries the API secret.
func (c *SightengineClient) transportError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		err = ue.Err
	}
	e := &Error{Provider: sightengineProvider, Err: err}
	if e.Timeout() {
		e.Cause = "timeout"
		sightengineAPICount.WithLabelValues("timeout").Inc()
	} else {
		e.Cause = fmt.Sprintf("error: %v", err)
		sightengineAPICount.WithLabelValues("error").Inc()
	}
	return e
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
