// Package errreport forwards unexpected failures to Sentry. Errors from the user-facing
// taxonomy and cancellations are expected outcomes and are never reported.
package errreport

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Belphemur/ReelFetch/internal/apperrors"
	"github.com/Belphemur/ReelFetch/internal/config"
)

var enabled atomic.Bool

// Options configures the Sentry client
type Options struct {
	DSN         string
	Environment string
	Release     string

	// beforeSend lets tests observe events without a transport
	beforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event
}

// Init sets up Sentry. Without a DSN reporting stays disabled and Init returns nil.
func Init(opts Options) error {
	logger := config.GetLogger()
	if opts.DSN == "" {
		enabled.Store(false)
		logger.Debug().Msg("Sentry DSN not configured, error reporting disabled")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		AttachStacktrace: true,
		BeforeSend:       opts.beforeSend,
	})
	if err != nil {
		enabled.Store(false)
		return err
	}

	enabled.Store(true)
	logger.Info().Str("environment", opts.Environment).Msg("Sentry error reporting enabled")
	return nil
}

// Enabled reports whether Init configured a Sentry client
func Enabled() bool {
	return enabled.Load()
}

// ShouldReport reports whether err is unexpected enough to be sent to Sentry
func ShouldReport(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !apperrors.IsUserFacing(err)
}

// Capture sends err to Sentry with tags when it passes ShouldReport.
// The hub bound to ctx is used when there is one.
func Capture(ctx context.Context, err error, tags map[string]string) {
	if !enabled.Load() || !ShouldReport(err) {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}

// Flush waits up to timeout for buffered events to be delivered
func Flush(timeout time.Duration) {
	if !enabled.Load() {
		return
	}
	if !sentry.Flush(timeout) {
		logger := config.GetLogger()
		logger.Warn().Dur("timeout", timeout).Msg("Timed out flushing Sentry events")
	}
}
