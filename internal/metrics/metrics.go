package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Belphemur/ReelFetch/internal/apperrors"
)

const namespace = "reelfetch"

// Resolver metrics
var (
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_resolutions_total",
			Help:      "Total number of resolve calls by outcome.",
		},
		[]string{"outcome"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Latency of metadata provider requests by HTTP status (\"error\" for transport failures).",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"status"},
	)
)

// Transfer metrics
var (
	TransfersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_transfers_total",
			Help:      "Total number of transfer attempts by strategy and final status.",
		},
		[]string{"strategy", "status"},
	)

	TransferFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_transfer_fallbacks_total",
			Help:      "Total number of streamed transfers that fell back to the native handoff.",
		},
	)

	TransferBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_transfer_bytes_total",
			Help:      "Total number of media bytes written by streamed transfers.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ResolutionsTotal,
		ProviderRequestDuration,
		TransfersTotal,
		TransferFallbacksTotal,
		TransferBytesTotal,
	)
}

// Outcome maps err onto a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, &apperrors.ErrInvalidURL{}):
		return "invalid_url"
	case errors.Is(err, &apperrors.ErrAccessDenied{}):
		return "access_denied"
	case errors.Is(err, &apperrors.ErrNotFound{}):
		return "not_found"
	case errors.Is(err, &apperrors.ErrRateLimited{}):
		return "rate_limited"
	case errors.Is(err, &apperrors.ErrNoMediaFound{}):
		return "no_media"
	case errors.Is(err, &apperrors.ErrMalformedResponse{}):
		return "malformed"
	case errors.Is(err, &apperrors.ErrProvider{}):
		return "provider_error"
	case errors.Is(err, &apperrors.ErrNetwork{}):
		return "network"
	default:
		return "error"
	}
}
