package telegram

import (
	"net"
	"net/http"
	"time"
)

// BuildHTTPClient returns an HTTP client tuned for Telegram API calls.
// Retries of transient failures are handled by the sender dispatcher, so the
// client itself only carries conservative timeouts.
func BuildHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 75 * time.Second, // must exceed the long-poll timeout
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{Transport: transport}
}
