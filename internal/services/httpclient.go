package services

import (
	"net"
	"net/http"
	"time"
)

// Default network bounds for upstream and model calls
const (
	DefaultConnectTimeout = 20 * time.Second
	DefaultRequestTimeout = 20 * time.Second
)

// NewHTTPClient creates the shared outbound client. It is built once at
// startup and injected into every component that talks to the network.
func NewHTTPClient(connectTimeout, requestTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: connectTimeout,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Timeout:   requestTimeout,
		Transport: transport,
	}
}
