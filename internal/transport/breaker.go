package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/failsafehttp"

	"github.com/Belphemur/ReelFetch/internal/config"
)

// BreakerOptions configures the circuit breaker placed in front of an upstream.
type BreakerOptions struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint
	// Delay is how long the circuit stays open before a trial request is let through.
	Delay time.Duration
}

// DefaultBreakerOptions opens after 5 consecutive failures and retries after 30s.
var DefaultBreakerOptions = BreakerOptions{FailureThreshold: 5, Delay: 30 * time.Second}

// IsCircuitOpen reports whether err was caused by an open circuit breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, circuitbreaker.ErrOpen)
}

// newBreakerTransport wraps next with a circuit breaker that counts transport errors and
// 5xx responses as failures. While open, requests fail fast with circuitbreaker.ErrOpen.
// No retry policy is installed: a failed request is reported to the caller as-is.
func newBreakerTransport(next http.RoundTripper, name string, opts BreakerOptions) http.RoundTripper {
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = DefaultBreakerOptions.FailureThreshold
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultBreakerOptions.Delay
	}

	logger := config.GetLogger()
	breaker := circuitbreaker.NewBuilder[*http.Response]().
		HandleIf(func(resp *http.Response, err error) bool {
			return err != nil || (resp != nil && resp.StatusCode >= http.StatusInternalServerError)
		}).
		WithFailureThreshold(opts.FailureThreshold).
		WithDelay(opts.Delay).
		OnOpen(func(circuitbreaker.StateChangedEvent) {
			logger.Warn().Str("upstream", name).Dur("delay", opts.Delay).Msg("Circuit breaker opened")
		}).
		OnClose(func(circuitbreaker.StateChangedEvent) {
			logger.Info().Str("upstream", name).Msg("Circuit breaker closed")
		}).
		Build()

	return failsafehttp.NewRoundTripper(next, breaker)
}
