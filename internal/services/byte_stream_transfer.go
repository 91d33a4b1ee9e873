package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/Belphemur/ReelFetch/internal/apperrors"
	"github.com/Belphemur/ReelFetch/internal/config"
	"github.com/Belphemur/ReelFetch/internal/metrics"
	"github.com/Belphemur/ReelFetch/internal/models"
)

// streamChunkSize is the read buffer used while copying media bytes
const streamChunkSize = 32 * 1024

// ByteStreamTransfer fetches the media itself, writes it to storage and reports exact progress
// whenever the server announces a Content-Length.
type ByteStreamTransfer struct {
	httpClient  *http.Client
	fs          afero.Fs
	downloadDir string
	userAgent   string

	// placeMu serialises choosing a final name and renaming into it
	placeMu sync.Mutex
}

// NewByteStreamTransfer creates a streamed strategy writing finished files to downloadDir on fs.
// httpClient must not carry a cookie jar: CDN requests are always sent without credentials.
func NewByteStreamTransfer(httpClient *http.Client, fs afero.Fs, downloadDir, userAgent string) *ByteStreamTransfer {
	return &ByteStreamTransfer{
		httpClient:  httpClient,
		fs:          fs,
		downloadDir: downloadDir,
		userAgent:   userAgent,
	}
}

func (s *ByteStreamTransfer) Name() models.TransferStrategy {
	return models.StrategyStreamed
}

// Transfer downloads task.SourceURL into <downloadDir>/<task.Filename>.
// Bytes land in a temporary file first; it is removed on any failure, so a partial
// file never appears under the final name.
func (s *ByteStreamTransfer) Transfer(ctx context.Context, task *models.TransferTask, onProgress models.ProgressFunc) error {
	logger := config.GetLogger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.SourceURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create media request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &apperrors.ErrNetwork{Op: "stream media", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("media server returned status %d", resp.StatusCode)
	}

	if err := s.fs.MkdirAll(s.downloadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, s.downloadDir, "."+task.ID+"-*.part")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			if rmErr := s.fs.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, afero.ErrFileNotFound) {
				logger.Warn().Err(rmErr).Str("file", tmpName).Msg("Failed to remove temporary file")
			}
		}
	}()

	written, err := copyWithProgress(tmp, resp.Body, resp.ContentLength, func(percent int) {
		onProgress(models.Progress{Percent: percent, Exact: true, Strategy: models.StrategyStreamed})
	})
	task.BytesWritten = written
	metrics.TransferBytesTotal.Add(float64(written))
	if err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush temporary file: %w", err)
	}

	finalPath, err := s.place(tmpName, task)
	if err != nil {
		return err
	}
	committed = true

	task.Path = finalPath
	task.Filename = filepath.Base(finalPath)
	task.ContentType = contentType(resp.Header.Get("Content-Type"))

	logger.Info().
		Str("taskID", task.ID).
		Str("path", finalPath).
		Int64("bytes", written).
		Str("contentType", task.ContentType).
		Msg("Streamed media to storage")
	return nil
}

// place renames tmpName to <downloadDir>/<task.Filename>. An existing file is never replaced:
// the task id is appended to the name instead.
func (s *ByteStreamTransfer) place(tmpName string, task *models.TransferTask) (string, error) {
	s.placeMu.Lock()
	defer s.placeMu.Unlock()

	finalPath := filepath.Join(s.downloadDir, task.Filename)
	exists, err := afero.Exists(s.fs, finalPath)
	if err != nil {
		return "", fmt.Errorf("failed to check download target: %w", err)
	}
	if exists {
		ext := filepath.Ext(task.Filename)
		finalPath = filepath.Join(s.downloadDir, strings.TrimSuffix(task.Filename, ext)+"-"+task.ID+ext)
	}
	if err := s.fs.Rename(tmpName, finalPath); err != nil {
		return "", fmt.Errorf("failed to move download into place: %w", err)
	}
	return finalPath, nil
}

// copyWithProgress copies src into dst chunk by chunk. When total is known it reports
// round(loaded/total*100) after each chunk, but only when the value increased, and always
// finishes with 100.
func copyWithProgress(dst io.Writer, src io.Reader, total int64, report func(int)) (int64, error) {
	buf := make([]byte, streamChunkSize)
	var loaded int64
	last := 0

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return loaded, fmt.Errorf("failed to write media bytes: %w", err)
			}
			loaded += int64(n)

			if total > 0 {
				percent := int(math.Round(float64(loaded) / float64(total) * 100))
				if percent > 100 {
					percent = 100
				}
				if percent > last {
					last = percent
					report(percent)
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return loaded, &apperrors.ErrNetwork{Op: "stream media", Err: readErr}
		}
	}

	if last < 100 {
		report(100)
	}
	return loaded, nil
}

// contentType returns the media type of header, defaulting to video/mp4
func contentType(header string) string {
	if header == "" {
		return models.DefaultMIME
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || mediaType == "" {
		return models.DefaultMIME
	}
	return mediaType
}
