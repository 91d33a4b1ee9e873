package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/Belphemur/ReelFetch/internal/apperrors"
	"github.com/Belphemur/ReelFetch/internal/config"
	"github.com/Belphemur/ReelFetch/internal/metrics"
	"github.com/Belphemur/ReelFetch/internal/models"
	"github.com/Belphemur/ReelFetch/internal/transport"
)

// TransferRequest describes one download
type TransferRequest struct {
	// MediaURL is the variant URL returned by the resolver.
	MediaURL string
	// Filename is the suggested name of the saved file, usually from GenerateFilename.
	Filename string
	// Navigator overrides the downloader's default native handoff for this call.
	Navigator Navigator
}

// MediaDownloader transfers resolved media to the user
type MediaDownloader interface {
	// Download runs one transfer to completion. The returned task records the strategy that
	// ran and the final state; it is returned on failure too.
	// Cancelling ctx aborts the fetch and stops simulated progress.
	Download(ctx context.Context, req TransferRequest, onProgress models.ProgressFunc) (*models.TransferTask, error)

	// StreamDownload runs Download and emits its progress, the native handoff and the final task
	// as events. The channel is closed when the transfer ends; a failure is sent as the last
	// StreamResult with a non-nil Err field.
	StreamDownload(ctx context.Context, req TransferRequest) <-chan models.StreamResult[models.TransferEvent]
}

// DownloaderOption customises a downloader built by NewMediaDownloader
type DownloaderOption func(*downloaderSettings)

type downloaderSettings struct {
	fs         afero.Fs
	httpClient *http.Client
	navigator  Navigator
}

// WithFs stores streamed files on fs instead of the OS filesystem
func WithFs(fs afero.Fs) DownloaderOption {
	return func(s *downloaderSettings) {
		s.fs = fs
	}
}

// WithMediaHTTPClient replaces the client used for CDN requests and probes
func WithMediaHTTPClient(hc *http.Client) DownloaderOption {
	return func(s *downloaderSettings) {
		s.httpClient = hc
	}
}

// WithNavigator sets the default native handoff
func WithNavigator(n Navigator) DownloaderOption {
	return func(s *downloaderSettings) {
		s.navigator = n
	}
}

// mediaDownloader holds no per-transfer state: every call owns its task, temp file and timers,
// so concurrent downloads never interfere.
type mediaDownloader struct {
	streamed   *ByteStreamTransfer
	native     *NativeNavigationTransfer
	restricted []string
	timeout    time.Duration
}

// NewMediaDownloader creates the transfer engine from the transfer.* configuration
func NewMediaDownloader(cfg *config.Config, opts ...DownloaderOption) MediaDownloader {
	settings := &downloaderSettings{}
	for _, opt := range opts {
		opt(settings)
	}
	if settings.fs == nil {
		settings.fs = afero.NewOsFs()
	}
	if settings.httpClient == nil {
		settings.httpClient = transport.NewHTTPClient(transport.Options{
			Name:       "media-cdn",
			Proxy:      cfg.ProxyConnectionString,
			PublicOnly: !cfg.Transfer.AllowPrivateNetworks,
		})
	}

	downloadDir := cfg.Transfer.DownloadDir
	if downloadDir == "" {
		downloadDir = "downloads"
	}
	restricted := cfg.Transfer.RestrictedHosts
	if restricted == nil {
		restricted = config.DefaultRestrictedHosts
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}

	return &mediaDownloader{
		streamed: NewByteStreamTransfer(settings.httpClient, settings.fs, downloadDir, userAgent),
		native: NewNativeNavigationTransfer(
			settings.httpClient,
			settings.navigator,
			cfg.Transfer.VerifyDirect,
			config.ParseDuration(cfg.Transfer.SimulatedInterval, 500*time.Millisecond, "transfer.simulated_interval"),
			config.ParseDuration(cfg.Transfer.SimulatedDuration, 2*time.Second, "transfer.simulated_duration"),
		),
		restricted: restricted,
		timeout:    config.ParseDuration(cfg.Transfer.Timeout, 0, "transfer.timeout"),
	}
}

func (d *mediaDownloader) Download(ctx context.Context, req TransferRequest, onProgress models.ProgressFunc) (*models.TransferTask, error) {
	logger := config.GetLogger()
	if onProgress == nil {
		onProgress = func(models.Progress) {}
	}

	task := &models.TransferTask{
		ID:        uuid.NewString(),
		SourceURL: strings.TrimSpace(req.MediaURL),
		State:     models.TransferPending,
	}
	task.Filename = safeFilename(req.Filename, task.ID)

	if err := validateMediaURL(task.SourceURL); err != nil {
		return d.fail(task, err)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	task.State = models.TransferRunning
	task.StartedAt = time.Now()
	task.Strategy = SelectStrategy(task.SourceURL, d.restricted)

	logger.Info().
		Str("taskID", task.ID).
		Str("url", task.SourceURL).
		Str("filename", task.Filename).
		Str("strategy", string(task.Strategy)).
		Msg("Starting media transfer")

	if task.Strategy == models.StrategyStreamed {
		err := d.streamed.Transfer(ctx, task, onProgress)
		if err == nil {
			return d.succeed(task), nil
		}
		metrics.TransfersTotal.WithLabelValues(string(models.StrategyStreamed), models.TransferFailed.String()).Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return d.fail(task, ctxErr)
		}
		if transport.IsBlockedAddress(err) {
			return d.fail(task, err)
		}

		logger.Warn().Err(err).Str("taskID", task.ID).Msg("Streamed transfer failed, falling back to native download")
		metrics.TransferFallbacksTotal.Inc()
		task.Strategy = models.StrategyDirectFallback
		task.BytesWritten = 0
	}

	native := d.native
	if req.Navigator != nil {
		native = native.withNavigator(req.Navigator)
	}
	if err := native.Transfer(ctx, task, onProgress); err != nil {
		metrics.TransfersTotal.WithLabelValues(string(models.StrategyDirectFallback), models.TransferFailed.String()).Inc()
		return d.fail(task, err)
	}
	return d.succeed(task), nil
}

func (d *mediaDownloader) succeed(task *models.TransferTask) *models.TransferTask {
	logger := config.GetLogger()
	task.State = models.TransferSucceeded
	task.FinishedAt = time.Now()
	metrics.TransfersTotal.WithLabelValues(string(task.Strategy), models.TransferSucceeded.String()).Inc()
	logger.Info().
		Str("taskID", task.ID).
		Str("strategy", string(task.Strategy)).
		Dur("elapsed", task.FinishedAt.Sub(task.StartedAt)).
		Msg("Media transfer finished")
	return task
}

// fail marks task as failed with a terminal ErrTransfer carrying the plain link as last resort
func (d *mediaDownloader) fail(task *models.TransferTask, cause error) (*models.TransferTask, error) {
	logger := config.GetLogger()
	err := &apperrors.ErrTransfer{
		URL:      task.SourceURL,
		Strategy: string(task.Strategy),
		LinkURL:  task.SourceURL,
		Err:      cause,
	}
	task.State = models.TransferFailed
	task.FinishedAt = time.Now()
	task.Err = err

	if errors.Is(cause, context.Canceled) {
		logger.Info().Str("taskID", task.ID).Msg("Media transfer cancelled")
	} else {
		logger.Error().Err(err).Str("taskID", task.ID).Msg("Media transfer failed")
	}
	return task, err
}

func validateMediaURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid media URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("media URL must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}

// safeFilename keeps only the last path element of name, falling back to <id>.mp4
func safeFilename(name, id string) string {
	name = strings.TrimSpace(pathSeparatorReplacer.Replace(name))
	name = filepath.Base(name)
	if name == "" || name == "." || name == ".." {
		return id + ".mp4"
	}
	return name
}
