package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/Belphemur/ReelFetch/internal/models"
)

// Strategy moves the bytes of one media URL to the user
type Strategy interface {
	Name() models.TransferStrategy
	Transfer(ctx context.Context, task *models.TransferTask, onProgress models.ProgressFunc) error
}

// SelectStrategy picks the transfer strategy for mediaURL. A host equal to a restricted domain,
// or a subdomain of one, cannot be streamed and goes straight to the direct fallback.
func SelectStrategy(mediaURL string, restricted []string) models.TransferStrategy {
	if isRestrictedHost(hostOf(mediaURL), restricted) {
		return models.StrategyDirectFallback
	}
	return models.StrategyStreamed
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
}

func isRestrictedHost(host string, restricted []string) bool {
	if host == "" {
		return false
	}
	for _, domain := range restricted {
		domain = strings.ToLower(strings.Trim(strings.TrimSpace(domain), "."))
		if domain == "" {
			continue
		}
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
