package apperrors

import (
	"context"
	"errors"
)

// Reason codes identify an error class to API clients
const (
	ReasonInvalidURL        = "INVALID_URL"
	ReasonAccessDenied      = "ACCESS_DENIED"
	ReasonNotFound          = "NOT_FOUND"
	ReasonRateLimited       = "RATE_LIMITED"
	ReasonNoMedia           = "NO_MEDIA"
	ReasonTransferFailed    = "TRANSFER_FAILED"
	ReasonNetwork           = "NETWORK"
	ReasonMalformedResponse = "MALFORMED_RESPONSE"
	ReasonProvider          = "PROVIDER_ERROR"
	ReasonCanceled          = "CANCELED"
	ReasonDeadlineExceeded  = "DEADLINE_EXCEEDED"
	ReasonInternal          = "INTERNAL"
)

// Reason returns the reason code of err. Cancellation wins over the error that carried it.
func Reason(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonDeadlineExceeded
	case errors.Is(err, &ErrInvalidURL{}):
		return ReasonInvalidURL
	case errors.Is(err, &ErrAccessDenied{}):
		return ReasonAccessDenied
	case errors.Is(err, &ErrNotFound{}):
		return ReasonNotFound
	case errors.Is(err, &ErrRateLimited{}):
		return ReasonRateLimited
	case errors.Is(err, &ErrNoMediaFound{}):
		return ReasonNoMedia
	case errors.Is(err, &ErrTransfer{}):
		return ReasonTransferFailed
	case errors.Is(err, &ErrNetwork{}):
		return ReasonNetwork
	case errors.Is(err, &ErrMalformedResponse{}):
		return ReasonMalformedResponse
	case errors.Is(err, &ErrProvider{}):
		return ReasonProvider
	default:
		return ReasonInternal
	}
}
