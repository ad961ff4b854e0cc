// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"net/http"

	"github.com/pdiddy/recall-engine/pkg/types"
)

// userAgentTransport stamps a User-Agent header on every request.
type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return t.next.RoundTrip(req)
}

// NewClient builds an *http.Client from shared HTTP settings. A zero
// timeout means the net/http default (no timeout); an empty UserAgent
// leaves requests unstamped.
func NewClient(cfg types.HTTPConfig) *http.Client {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.UserAgent != "" {
		client.Transport = &userAgentTransport{agent: cfg.UserAgent, next: http.DefaultTransport}
	}
	return client
}
