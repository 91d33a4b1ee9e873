package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/Belphemur/ReelFetch/internal/config"
	"github.com/Belphemur/ReelFetch/internal/models"
	"github.com/Belphemur/ReelFetch/internal/transport"
)

// Navigator performs the native download handoff: it gives the media URL and the suggested
// filename to whatever can fetch it on the user's side (a browser, a desktop shell, a remote
// client). Once Navigate returns nil the transfer is out of our hands.
type Navigator interface {
	Navigate(ctx context.Context, mediaURL, filename string) error
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(ctx context.Context, mediaURL, filename string) error

func (f NavigatorFunc) Navigate(ctx context.Context, mediaURL, filename string) error {
	return f(ctx, mediaURL, filename)
}

// LogNavigator only records the handoff. It is the default for callers without a native downloader.
type LogNavigator struct{}

func (LogNavigator) Navigate(_ context.Context, mediaURL, filename string) error {
	logger := config.GetLogger()
	logger.Info().Str("url", mediaURL).Str("filename", filename).Msg("Handing media off to native download")
	return nil
}

const (
	handoffPercent      = 10
	simulatedCeiling    = 90
	simulatedFloor      = 70
	simulatedJitterSpan = 20
)

// NativeNavigationTransfer hands the URL to a Navigator and reports simulated progress, since
// the actual download happens outside this process. A failure after the handoff is invisible.
type NativeNavigationTransfer struct {
	probeClient *http.Client
	navigator   Navigator
	verify      bool
	interval    time.Duration
	duration    time.Duration
	jitter      func() int
}

// NewNativeNavigationTransfer creates the direct-fallback strategy. When verify is set, a HEAD
// request is sent first and a 403, 404 or 410 answer fails the transfer before the handoff.
func NewNativeNavigationTransfer(probeClient *http.Client, navigator Navigator, verify bool, interval, duration time.Duration) *NativeNavigationTransfer {
	if navigator == nil {
		navigator = LogNavigator{}
	}
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	if duration <= 0 {
		duration = 2 * time.Second
	}
	return &NativeNavigationTransfer{
		probeClient: probeClient,
		navigator:   navigator,
		verify:      verify,
		interval:    interval,
		duration:    duration,
		jitter: func() int {
			return simulatedFloor + int(rand.Float64()*simulatedJitterSpan)
		},
	}
}

// withNavigator returns a copy using n for the handoff
func (s *NativeNavigationTransfer) withNavigator(n Navigator) *NativeNavigationTransfer {
	clone := *s
	clone.navigator = n
	return &clone
}

func (s *NativeNavigationTransfer) Name() models.TransferStrategy {
	return models.StrategyDirectFallback
}

// Transfer probes the URL when enabled, reports 10, performs the handoff, then reports
// simulated progress every interval until duration elapses and finally reports 100.
// Timers stop as soon as ctx is done.
func (s *NativeNavigationTransfer) Transfer(ctx context.Context, task *models.TransferTask, onProgress models.ProgressFunc) error {
	logger := config.GetLogger()

	if s.verify {
		if err := s.probe(ctx, task.SourceURL); err != nil {
			return err
		}
	}

	report := func(percent int) {
		onProgress(models.Progress{Percent: percent, Exact: false, Strategy: models.StrategyDirectFallback})
	}

	report(handoffPercent)
	if err := s.navigator.Navigate(ctx, task.SourceURL, task.Filename); err != nil {
		return fmt.Errorf("native download handoff failed: %w", err)
	}
	logger.Debug().Str("taskID", task.ID).Msg("Native download handed off, simulating progress")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	done := time.NewTimer(s.duration)
	defer done.Stop()

	last := handoffPercent
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			percent := min(simulatedCeiling, s.jitter())
			if percent > last {
				last = percent
				report(percent)
			}
		case <-done.C:
			report(100)
			return nil
		}
	}
}

// probe fails on answers that prove the link is dead and on addresses the media client refuses
// to reach. Anything else, including other transport errors and servers that reject HEAD,
// lets the handoff proceed.
func (s *NativeNavigationTransfer) probe(ctx context.Context, mediaURL string) error {
	logger := config.GetLogger()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, mediaURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}
	resp, err := s.probeClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if transport.IsBlockedAddress(err) {
			return err
		}
		logger.Debug().Err(err).Str("url", mediaURL).Msg("Media probe inconclusive")
		return nil
	}
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusForbidden, http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("media link is not available (status %d)", resp.StatusCode)
	default:
		return nil
	}
}
