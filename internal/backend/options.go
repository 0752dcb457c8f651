// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import "net/http"

// Option configures an adapter.
type Option func(*adapterOptions)

type adapterOptions struct {
	httpClient *http.Client
}

// WithHTTPClient replaces the adapter's HTTP client. The adapter's configured
// timeout is not applied to a supplied client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *adapterOptions) {
		o.httpClient = c
	}
}

func applyOptions(opts []Option) adapterOptions {
	var o adapterOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
