package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Belphemur/ReelFetch/internal/config"
	"github.com/Belphemur/ReelFetch/internal/models"
	"github.com/Belphemur/ReelFetch/internal/parser"
)

// enrich fills an empty caption or thumbnail from the OpenGraph tags of the public post page.
// Failures are logged and never fail the resolve.
func (c *client) enrich(ctx context.Context, descriptor *models.MediaDescriptor) {
	logger := config.GetLogger()

	meta, err := c.fetchPageMetadata(ctx, descriptor.SourceURL)
	if err != nil {
		logger.Debug().Err(err).Str("url", descriptor.SourceURL).Msg("Page metadata enrichment skipped")
		return
	}
	parser.ApplyPageMetadata(descriptor, meta)
}

func (c *client) fetchPageMetadata(ctx context.Context, pageURL string) (models.PageMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return models.PageMetadata{}, fmt.Errorf("failed to create page request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.pageClient.Do(req)
	if err != nil {
		return models.PageMetadata{}, fmt.Errorf("failed to fetch post page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.PageMetadata{}, fmt.Errorf("post page returned status %d", resp.StatusCode)
	}
	return c.pageParser.Parse(resp.Body)
}
