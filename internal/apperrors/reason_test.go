package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestReason(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid url", &ErrInvalidURL{}, ReasonInvalidURL},
		{"access denied", &ErrAccessDenied{StatusCode: 403}, ReasonAccessDenied},
		{"not found", NewPostNotFoundError("x"), ReasonNotFound},
		{"rate limited", fmt.Errorf("wrap: %w", &ErrRateLimited{}), ReasonRateLimited},
		{"no media", &ErrNoMediaFound{}, ReasonNoMedia},
		{"transfer wins over network", &ErrTransfer{Err: &ErrNetwork{Op: "stream"}}, ReasonTransferFailed},
		{"network", &ErrNetwork{Op: "resolve"}, ReasonNetwork},
		{"malformed", &ErrMalformedResponse{Reason: "r"}, ReasonMalformedResponse},
		{"provider", &ErrProvider{StatusCode: 500}, ReasonProvider},
		{"cancel wins", &ErrTransfer{Err: context.Canceled}, ReasonCanceled},
		{"deadline wins", &ErrNetwork{Op: "resolve", Err: context.DeadlineExceeded}, ReasonDeadlineExceeded},
		{"unknown", errors.New("boom"), ReasonInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Reason(tt.err); got != tt.want {
				t.Errorf("Reason() = %q, want %q", got, tt.want)
			}
		})
	}
}
