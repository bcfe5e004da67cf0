// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across adapters.
package httputil

import (
	"net/http"

	"github.com/pdiddy/xhs-alpha-picks/pkg/types"
)

// HeaderTransport sets fixed headers on every outbound request. Requests
// are cloned before modification, so callers' requests are left untouched.
// Headers already present on a request are not overwritten.
type HeaderTransport struct {
	Base    http.RoundTripper
	Headers http.Header
}

// RoundTrip implements http.RoundTripper.
func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if len(t.Headers) == 0 {
		return base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	for k, vs := range t.Headers {
		if r.Header.Get(k) != "" {
			continue
		}
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	return base.RoundTrip(r)
}

// NewClient returns an HTTP client with the configured timeout that sends the
// configured User-Agent and, when bearer is non-empty, an Authorization
// header. No retries are performed.
func NewClient(cfg types.HTTPConfig, bearer string) *http.Client {
	h := http.Header{}
	if cfg.UserAgent != "" {
		h.Set("User-Agent", cfg.UserAgent)
	}
	if bearer != "" {
		h.Set("Authorization", "Bearer "+bearer)
	}
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &HeaderTransport{Headers: h},
	}
}
