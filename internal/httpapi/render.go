package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Belphemur/ReelFetch/internal/apperrors"
	"github.com/Belphemur/ReelFetch/internal/config"
)

// statusClientClosedRequest is the de-facto status for requests the client abandoned
const statusClientClosedRequest = 499

const reasonInvalidRequest = "INVALID_REQUEST"

var reasonStatus = map[string]int{
	apperrors.ReasonInvalidURL:        http.StatusBadRequest,
	apperrors.ReasonAccessDenied:      http.StatusForbidden,
	apperrors.ReasonNotFound:          http.StatusNotFound,
	apperrors.ReasonNoMedia:           http.StatusUnprocessableEntity,
	apperrors.ReasonRateLimited:       http.StatusTooManyRequests,
	apperrors.ReasonTransferFailed:    http.StatusBadGateway,
	apperrors.ReasonNetwork:           http.StatusServiceUnavailable,
	apperrors.ReasonProvider:          http.StatusBadGateway,
	apperrors.ReasonMalformedResponse: http.StatusBadGateway,
	apperrors.ReasonCanceled:          statusClientClosedRequest,
	apperrors.ReasonDeadlineExceeded:  http.StatusGatewayTimeout,
	apperrors.ReasonInternal:          http.StatusInternalServerError,
}

// errorResponse is the body of every failed request
type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	LinkURL string            `json:"linkUrl,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func newErrorResponse(err error) errorResponse {
	resp := errorResponse{
		Error:   apperrors.Reason(err),
		Message: apperrors.UserMessage(err),
	}
	var transferErr *apperrors.ErrTransfer
	if errors.As(err, &transferErr) {
		resp.LinkURL = transferErr.LinkURL
	}
	return resp
}

// httpStatus returns the HTTP status for a taxonomy error
func httpStatus(err error) int {
	if status, ok := reasonStatus[apperrors.Reason(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	var rateLimited *apperrors.ErrRateLimited
	if errors.As(err, &rateLimited) && rateLimited.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(rateLimited.RetryAfter.Seconds())))
	}
	writeJSON(w, httpStatus(err), newErrorResponse(err))
}

func writeBadRequest(w http.ResponseWriter, message string, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   reasonInvalidRequest,
		Message: message,
		Fields:  fields,
	})
}
