package client

import (
	"context"
	"net/http"
	"time"

	"github.com/Belphemur/ReelFetch/internal/cache"
	"github.com/Belphemur/ReelFetch/internal/config"
	"github.com/Belphemur/ReelFetch/internal/models"
	"github.com/Belphemur/ReelFetch/internal/parser"
	"github.com/Belphemur/ReelFetch/internal/transport"
)

// descriptorCacheNamespace prefixes descriptor keys in the shared cache
const descriptorCacheNamespace = "descriptor"

// Client resolves Instagram and TikTok post URLs into media descriptors
type Client interface {
	// Validate reports whether url is a supported post or video URL. It never touches the network.
	Validate(url string) bool

	// Resolve turns a post URL into a descriptor of its downloadable variants.
	// Errors belong to the apperrors taxonomy; no partially-populated descriptor is returned.
	Resolve(ctx context.Context, url string) (*models.MediaDescriptor, error)

	// Close releases any resources held by the client (e.g., cache connections).
	Close() error
}

// client implements the Client interface
type client struct {
	httpClient     *http.Client
	pageClient     *http.Client
	baseURL        string
	userAgent      string
	credentials    *config.Credentials
	providerParser parser.SingleResultParser[models.ProviderResponse]
	pageParser     parser.SingleResultParser[models.PageMetadata]
	estimate       parser.SizeEstimator
	descriptors    *cache.JSON[models.MediaDescriptor]
	enrichFromPage bool
}

// Option customises a client built by NewClient
type Option func(*client)

// WithCache stores resolved descriptors in c, keyed by source URL
func WithCache(c cache.Cache) Option {
	return func(cl *client) {
		if c != nil {
			cl.descriptors = cache.NewJSON[models.MediaDescriptor](c, descriptorCacheNamespace, cache.NewZerologLogger(config.GetLogger()))
		}
	}
}

// WithCredentials overrides the process-wide credential store
func WithCredentials(creds *config.Credentials) Option {
	return func(cl *client) {
		cl.credentials = creds
	}
}

// WithHTTPClient replaces the HTTP client used for provider and page requests
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *client) {
		cl.httpClient = hc
		cl.pageClient = hc
	}
}

// WithSizeEstimator replaces the estimator used when the provider omits a size
func WithSizeEstimator(estimate parser.SizeEstimator) Option {
	return func(cl *client) {
		cl.estimate = estimate
	}
}

// NewClient creates a new client instance with proxy configuration if provided
func NewClient(cfg *config.Config, opts ...Option) Client {
	timeout := config.ParseDuration(cfg.ClientTimeout, 30*time.Second, "client_timeout")

	c := &client{
		httpClient: transport.NewHTTPClient(transport.Options{
			Name:       "provider",
			Timeout:    timeout,
			Proxy:      cfg.ProxyConnectionString,
			Decompress: true,
			Breaker:    &transport.DefaultBreakerOptions,
		}),
		pageClient: transport.NewHTTPClient(transport.Options{
			Name:       "post-page",
			Timeout:    timeout,
			Proxy:      cfg.ProxyConnectionString,
			Decompress: true,
		}),
		baseURL:        cfg.Provider.BaseURL,
		userAgent:      cfg.UserAgent,
		providerParser: parser.NewProviderParser(),
		pageParser:     parser.NewPageMetadataParser(),
		estimate:       parser.EstimateSize,
		enrichFromPage: cfg.Resolver.EnrichFromPage,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.credentials == nil {
		c.credentials = config.GetCredentials()
	}
	if c.credentials == nil {
		c.credentials = config.NewCredentials(cfg.Provider.APIKey, cfg.Provider.Host)
	}
	if c.userAgent == "" {
		c.userAgent = config.DefaultUserAgent
	}

	return c
}

func (c *client) Validate(url string) bool {
	return parser.Validate(url)
}

// Close releases any resources held by the client, such as cache connections.
func (c *client) Close() error {
	if c.descriptors == nil {
		return nil
	}
	return c.descriptors.Close()
}
