package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidURL is returned when a URL is not a supported Instagram or TikTok post URL.
type ErrInvalidURL struct {
	URL string
}

// Error implements the error interface.
func (e *ErrInvalidURL) Error() string {
	return fmt.Sprintf("invalid Instagram/TikTok URL: %q", e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidURL) Is(target error) bool {
	_, ok := target.(*ErrInvalidURL)
	return ok
}

// ErrAccessDenied is returned when the provider reports the content as private or restricted.
type ErrAccessDenied struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrAccessDenied) Error() string {
	return fmt.Sprintf("access denied to %s (status %d)", e.URL, e.StatusCode)
}

// Is allows for error checking with errors.Is().
func (e *ErrAccessDenied) Is(target error) bool {
	_, ok := target.(*ErrAccessDenied)
	return ok
}

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewPostNotFoundError creates a specific error for when the provider cannot find a post.
func NewPostNotFoundError(postID string) *ErrNotFound {
	var id interface{}
	if postID != "" {
		id = postID
	}
	return &ErrNotFound{
		Resource: "post",
		ID:       id,
	}
}

// ErrRateLimited is returned when the provider answers with HTTP 429.
// RetryAfter is zero when the provider did not send a usable Retry-After header.
type ErrRateLimited struct {
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *ErrRateLimited) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "provider rate limit exceeded"
}

// Is allows for error checking with errors.Is().
func (e *ErrRateLimited) Is(target error) bool {
	_, ok := target.(*ErrRateLimited)
	return ok
}

// ErrNetwork wraps a transport-level failure (DNS, refused connection, timeout, abort).
type ErrNetwork struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ErrNetwork) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("network error during %s", e.Op)
	}
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *ErrNetwork) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrNetwork) Is(target error) bool {
	_, ok := target.(*ErrNetwork)
	return ok
}

// ErrNoMediaFound is returned when a well-formed provider response has no usable media entries.
type ErrNoMediaFound struct {
	URL string
}

// Error implements the error interface.
func (e *ErrNoMediaFound) Error() string {
	return fmt.Sprintf("no downloadable media found for %s", e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrNoMediaFound) Is(target error) bool {
	_, ok := target.(*ErrNoMediaFound)
	return ok
}

// ErrMalformedResponse is returned when the provider body does not match the expected schema.
type ErrMalformedResponse struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ErrMalformedResponse) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed provider response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed provider response: %s", e.Reason)
}

// Unwrap returns the underlying decode error.
func (e *ErrMalformedResponse) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrMalformedResponse) Is(target error) bool {
	_, ok := target.(*ErrMalformedResponse)
	return ok
}

// ErrProvider is returned for provider status codes that have no dedicated error type.
type ErrProvider struct {
	StatusCode int
}

// Error implements the error interface.
func (e *ErrProvider) Error() string {
	return fmt.Sprintf("provider request failed with status %d", e.StatusCode)
}

// Is allows for error checking with errors.Is().
func (e *ErrProvider) Is(target error) bool {
	_, ok := target.(*ErrProvider)
	return ok
}

// ErrTransfer is returned when a download could not be completed by any strategy.
// LinkURL is the plain hyperlink a caller can offer as a last resort.
type ErrTransfer struct {
	URL      string
	Strategy string
	LinkURL  string
	Err      error
}

// Error implements the error interface.
func (e *ErrTransfer) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transfer of %s failed (%s): %v", e.URL, e.Strategy, e.Err)
	}
	return fmt.Sprintf("transfer of %s failed (%s)", e.URL, e.Strategy)
}

// Unwrap returns the cause of the failed transfer.
func (e *ErrTransfer) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrTransfer) Is(target error) bool {
	_, ok := target.(*ErrTransfer)
	return ok
}

// IsUserFacing reports whether err belongs to the pipeline's error taxonomy.
// Anything else is an unexpected failure worth reporting.
func IsUserFacing(err error) bool {
	switch {
	case errors.Is(err, &ErrInvalidURL{}),
		errors.Is(err, &ErrAccessDenied{}),
		errors.Is(err, &ErrNotFound{}),
		errors.Is(err, &ErrRateLimited{}),
		errors.Is(err, &ErrNetwork{}),
		errors.Is(err, &ErrNoMediaFound{}),
		errors.Is(err, &ErrTransfer{}):
		return true
	default:
		return false
	}
}

// UserMessage returns the message shown to end users for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, &ErrInvalidURL{}):
		return "Please enter a valid Instagram or TikTok URL"
	case errors.Is(err, &ErrAccessDenied{}):
		return "This post is private or restricted. Only public posts can be downloaded."
	case errors.Is(err, &ErrNotFound{}):
		return "Post not found. The video may have been deleted or the URL is incorrect."
	case errors.Is(err, &ErrRateLimited{}):
		return "Rate limit exceeded. Please try again later."
	case errors.Is(err, &ErrNoMediaFound{}):
		return "No media URLs found in response. Please check if the post contains downloadable content."
	case errors.Is(err, &ErrTransfer{}):
		return "Download failed. Use the direct link to save the file manually."
	case errors.Is(err, &ErrNetwork{}):
		return "Network error: Unable to connect to API. Please check your internet connection."
	default:
		return fmt.Sprintf("Failed to fetch video: %v", err)
	}
}
