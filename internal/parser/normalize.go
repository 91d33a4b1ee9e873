package parser

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Belphemur/ReelFetch/internal/apperrors"
	"github.com/Belphemur/ReelFetch/internal/models"
)

// baseEstimatedSize is the centre of the size estimate used when the provider omits a size
const baseEstimatedSize = 5 * 1024 * 1024

// SizeEstimator returns a best-effort byte size for a media URL
type SizeEstimator func(mediaURL string) int64

// EstimateSize returns a pseudo-random size between 75% and 125% of 5 MiB.
// The value is a UX placeholder and carries no information about the actual file.
func EstimateSize(string) int64 {
	factor := rand.Float64()*0.5 + 0.75
	return int64(float64(baseEstimatedSize) * factor)
}

// ParseDuration converts a "MM:SS" string into seconds. Anything else yields 0.
func ParseDuration(duration string) int {
	parts := strings.Split(strings.TrimSpace(duration), ":")
	if len(parts) != 2 {
		return 0
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || minutes < 0 {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || seconds < 0 {
		return 0
	}

	return minutes*60 + seconds
}

// NewDescriptor normalizes a provider response for sourceURL into a MediaDescriptor.
// ID and username always come from sourceURL. A response without usable media entries
// is reported as *apperrors.ErrNoMediaFound.
func NewDescriptor(resp models.ProviderResponse, sourceURL string, estimate SizeEstimator) (*models.MediaDescriptor, error) {
	id, ok := ExtractID(sourceURL)
	if !ok {
		return nil, &apperrors.ErrInvalidURL{URL: sourceURL}
	}
	if estimate == nil {
		estimate = EstimateSize
	}

	username, ok := ExtractUsername(sourceURL)
	if !ok {
		username = models.UnknownUsername
	}

	descriptor := &models.MediaDescriptor{
		ID:              id,
		Username:        username,
		Caption:         norm.NFC.String(resp.Title),
		ThumbnailURL:    resp.Thumbnail,
		DurationSeconds: ParseDuration(resp.Duration),
		Source:          DetectPlatform(sourceURL),
		SourceURL:       sourceURL,
	}

	for _, media := range resp.Medias {
		if media.URL == "" || media.Quality == "" {
			continue
		}
		descriptor.Qualities = append(descriptor.Qualities, newVariant(media, estimate))
	}

	if len(descriptor.Qualities) == 0 {
		return nil, &apperrors.ErrNoMediaFound{URL: sourceURL}
	}

	return descriptor, nil
}

func newVariant(media models.ProviderMedia, estimate SizeEstimator) models.QualityVariant {
	variant := models.QualityVariant{
		Label:          models.QualityLabel(media.Quality),
		MIME:           models.MIMEForExtension(media.Extension),
		MediaURL:       media.URL,
		Extension:      media.Extension,
		QualityTag:     media.Quality,
		VideoAvailable: media.VideoAvailable,
		AudioAvailable: media.AudioAvailable,
	}

	if media.Size != nil && *media.Size > 0 {
		variant.SizeBytes = int64(*media.Size)
	} else {
		variant.SizeBytes = estimate(media.URL)
		variant.SizeEstimated = true
	}

	return variant
}
