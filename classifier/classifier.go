// Package classifier talks to external image classification services.
//
// Every failure of a classification call (transport, timeout, non-200
// status, unreadable body) is reported as an *Error so callers can treat
// them uniformly: log and move on.
package classifier

import (
	"ahri-bot/model"
	"context"
	"errors"
	"fmt"
	"net"
)

// Classifier scores a single image by URL.
type Classifier interface {
	Classify(ctx context.Context, imageURL string) (model.ScanScores, error)
}

// Error is a failed classification call.
type Error struct {
	Provider   string
	Cause      string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s HTTP %d: %s", e.Provider, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s %s", e.Provider, e.Cause)
}

func (e *Error) Unwrap() error { return e.Err }

// Timeout reports whether the call ran out of time.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}
