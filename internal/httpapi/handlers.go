package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/Belphemur/ReelFetch/internal/client"
	"github.com/Belphemur/ReelFetch/internal/config"
	"github.com/Belphemur/ReelFetch/internal/errreport"
	"github.com/Belphemur/ReelFetch/internal/models"
	"github.com/Belphemur/ReelFetch/internal/services"
)

// maxBodySize bounds request bodies; every request is a small JSON object
const maxBodySize = 64 << 10

// Handlers serves the REST API on top of the resolver and the transfer engine
type Handlers struct {
	client     client.Client
	downloader services.MediaDownloader
}

// NewHandlers creates the REST handlers
func NewHandlers(c client.Client, d services.MediaDownloader) *Handlers {
	return &Handlers{client: c, downloader: d}
}

// decode reads a JSON body into v, answering 400 itself when the body is unusable
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v); err != nil {
		writeBadRequest(w, "request body must be a JSON object: "+err.Error(), nil)
		return false
	}
	if validatable, ok := v.(interface{ Validate() error }); ok {
		if err := validatable.Validate(); err != nil {
			writeBadRequest(w, err.Error(), fieldErrors(err))
			return false
		}
	}
	return true
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": h.client.Validate(req.URL)})
}

func (h *Handlers) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !decode(w, r, &req) {
		return
	}

	descriptor, err := h.client.Resolve(r.Context(), req.URL)
	if err != nil {
		h.fail(w, r, "resolve", err)
		return
	}
	writeJSON(w, http.StatusOK, descriptor)
}

func (h *Handlers) Filename(w http.ResponseWriter, r *http.Request) {
	var req filenameRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" {
		req.Username = models.UnknownUsername
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"filename": services.GenerateFilename(req.Username, req.ID, req.Quality),
	})
}

func (h *Handlers) FileSize(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("bytes")
	size, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeBadRequest(w, "bytes must be an integer", map[string]string{"bytes": "must be an integer"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bytes":     size,
		"formatted": services.FormatFileSize(size),
	})
}

// Download streams TransferEvents as newline-delimited JSON. A failure after the stream
// started is written as a final errorResponse line.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	logger := config.GetLogger()

	var req downloadRequest
	if !decode(w, r, &req) {
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)
	ctx := r.Context()

	for result := range h.downloader.StreamDownload(ctx, services.TransferRequest{
		MediaURL: req.MediaURL,
		Filename: req.Filename,
	}) {
		var line any = result.Value
		if result.Err != nil {
			errreport.Capture(ctx, result.Err, map[string]string{"transport": "http", "route": "downloads"})
			line = newErrorResponse(result.Err)
		}
		if err := enc.Encode(line); err != nil {
			logger.Debug().Err(err).Msg("Download client went away")
			return
		}
		if err := rc.Flush(); err != nil {
			logger.Debug().Err(err).Msg("Response writer cannot flush")
		}
	}
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, route string, err error) {
	logger := config.GetLogger()
	logger.Error().Err(err).Str("route", route).Str("requestID", RequestIDFromContext(r.Context())).Msg("Request failed")
	errreport.Capture(r.Context(), err, map[string]string{"transport": "http", "route": route})
	writeError(w, err)
}
