// Package transport builds the outbound HTTP clients used to reach the metadata provider
// and media CDNs.
package transport

import (
	"net/http"
	"net/url"
	"time"

	"github.com/Belphemur/ReelFetch/internal/config"
)

// Options selects the layers stacked on top of the base transport.
type Options struct {
	// Name identifies the upstream in logs.
	Name string
	// Timeout bounds a whole request including reading the body. Zero means no timeout.
	Timeout time.Duration
	// Proxy is an optional proxy URL. Invalid values are logged and ignored.
	Proxy string
	// Decompress advertises and decodes gzip, brotli and zstd bodies.
	Decompress bool
	// Breaker installs a circuit breaker when non-nil.
	Breaker *BreakerOptions
	// PublicOnly refuses connections to loopback, private and link-local addresses.
	// It is ignored when Base is set.
	PublicOnly bool
	// Base replaces the cloned default transport, mainly for tests.
	Base http.RoundTripper
}

// NewHTTPClient returns an http.Client with the layers requested by opts.
// The client has no cookie jar, so credentials are never sent to CDNs.
func NewHTTPClient(opts Options) *http.Client {
	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: NewRoundTripper(opts),
	}
}

// NewRoundTripper stacks, from the inside out: base transport with proxy, decompression,
// circuit breaker.
func NewRoundTripper(opts Options) http.RoundTripper {
	rt := opts.Base
	if rt == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		// Media bodies must arrive as sent so Content-Length matches the bytes read.
		base.DisableCompression = true
		if opts.PublicOnly {
			base.DialContext = newPublicOnlyDialer().DialContext
		}
		if opts.Proxy != "" {
			proxyURL, err := url.Parse(opts.Proxy)
			if err != nil {
				logger := config.GetLogger()
				logger.Warn().Err(err).Str("upstream", opts.Name).Str("proxy", opts.Proxy).Msg("Invalid proxy URL, continuing without proxy")
			} else {
				base.Proxy = http.ProxyURL(proxyURL)
			}
		}
		rt = base
	}

	if opts.Decompress {
		rt = newDecompressingTransport(rt)
	}
	if opts.Breaker != nil {
		rt = newBreakerTransport(rt, opts.Name, *opts.Breaker)
	}
	return rt
}
