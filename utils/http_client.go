package utils

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient creates an HTTP client with connection pooling and an overall
// request timeout. Callers own the client and should call CloseIdleConnections
// on shutdown.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   10, // Limit idle connections per host
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
