package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Belphemur/ReelFetch/internal/apperrors"
	"github.com/Belphemur/ReelFetch/internal/config"
	"github.com/Belphemur/ReelFetch/internal/metrics"
	"github.com/Belphemur/ReelFetch/internal/models"
	"github.com/Belphemur/ReelFetch/internal/parser"
	"github.com/Belphemur/ReelFetch/internal/transport"
)

// downloadPath is the provider endpoint that resolves a post URL
const downloadPath = "/download"

// Resolve validates rawURL, then asks the provider for its media variants exactly once.
func (c *client) Resolve(ctx context.Context, rawURL string) (*models.MediaDescriptor, error) {
	sourceURL := strings.TrimSpace(rawURL)
	descriptor, err := c.resolve(ctx, sourceURL)
	metrics.ResolutionsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	return descriptor, err
}

func (c *client) resolve(ctx context.Context, sourceURL string) (*models.MediaDescriptor, error) {
	logger := config.GetLogger()

	if !parser.Validate(sourceURL) {
		logger.Debug().Str("url", sourceURL).Msg("Rejected unsupported URL")
		return nil, &apperrors.ErrInvalidURL{URL: sourceURL}
	}

	if c.descriptors != nil {
		if cached, ok := c.descriptors.Get(ctx, sourceURL); ok {
			logger.Debug().Str("url", sourceURL).Msg("Descriptor served from cache")
			return &cached, nil
		}
	}

	resp, err := c.fetchProviderResponse(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	descriptor, err := parser.NewDescriptor(resp, sourceURL, c.estimate)
	if err != nil {
		logger.Warn().Err(err).Str("url", sourceURL).Msg("Provider response has no usable media")
		return nil, err
	}

	if c.enrichFromPage && (descriptor.Caption == "" || descriptor.ThumbnailURL == "") {
		c.enrich(ctx, descriptor)
	}

	if c.descriptors != nil {
		c.descriptors.Set(ctx, sourceURL, *descriptor)
	}

	logger.Info().
		Str("url", sourceURL).
		Str("id", descriptor.ID).
		Str("source", descriptor.Source.String()).
		Int("qualities", len(descriptor.Qualities)).
		Msg("Resolved media")
	return descriptor, nil
}

// providerEndpoint returns the resolve endpoint for the given credential snapshot
func (c *client) providerEndpoint(creds config.ProviderCredentials) string {
	base := c.baseURL
	if base == "" {
		base = "https://" + creds.Host
	}
	return strings.TrimRight(base, "/") + downloadPath
}

// fetchProviderResponse sends the single provider request for sourceURL and maps the HTTP outcome
// onto the error taxonomy. The request is built from one credential snapshot, so a concurrent
// credential update cannot change it after this point.
func (c *client) fetchProviderResponse(ctx context.Context, sourceURL string) (models.ProviderResponse, error) {
	logger := config.GetLogger()
	creds := c.credentials.Current()
	endpoint := c.providerEndpoint(creds)

	form := url.Values{"url": {sourceURL}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return models.ProviderResponse{}, fmt.Errorf("failed to create provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-rapidapi-key", creds.APIKey)
	req.Header.Set("x-rapidapi-host", creds.Host)
	req.Header.Set("User-Agent", c.userAgent)

	logger.Debug().Str("url", sourceURL).Str("endpoint", endpoint).Msg("Requesting media from provider")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ProviderRequestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		if transport.IsCircuitOpen(err) {
			logger.Warn().Str("url", sourceURL).Msg("Provider circuit is open, failing fast")
		} else {
			logger.Error().Err(err).Str("url", sourceURL).Msg("Provider request failed")
		}
		return models.ProviderResponse{}, &apperrors.ErrNetwork{Op: "resolve", Err: err}
	}
	defer resp.Body.Close()
	metrics.ProviderRequestDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if err := statusError(resp, sourceURL); err != nil {
		logger.Warn().Err(err).Int("status", resp.StatusCode).Str("url", sourceURL).Msg("Provider rejected request")
		return models.ProviderResponse{}, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, parser.MaxProviderBodySize+1))
	if err != nil {
		return models.ProviderResponse{}, &apperrors.ErrNetwork{Op: "read provider response", Err: err}
	}

	parsed, err := c.providerParser.Parse(bytes.NewReader(body))
	if err != nil {
		logger.Error().Err(err).Str("url", sourceURL).Msg("Provider response is malformed")
		return models.ProviderResponse{}, err
	}
	return parsed, nil
}

// statusError maps a non-2xx provider status onto the error taxonomy
func statusError(resp *http.Response, sourceURL string) error {
	switch code := resp.StatusCode; {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &apperrors.ErrAccessDenied{URL: sourceURL, StatusCode: code}
	case code == http.StatusNotFound:
		id, _ := parser.ExtractID(sourceURL)
		return apperrors.NewPostNotFoundError(id)
	case code == http.StatusTooManyRequests:
		return &apperrors.ErrRateLimited{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())}
	default:
		return &apperrors.ErrProvider{StatusCode: code}
	}
}

// parseRetryAfter accepts delay-seconds or an HTTP date; anything else yields 0.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}
