package testutil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/Belphemur/ReelFetch/internal/models"
)

// Collect consumes a stream until it is closed and returns every value in order.
// It returns the first error carried by the stream, or ctx.Err() if ctx ends first.
// This is a test helper and should not be used in production code.
func Collect[T any](ctx context.Context, stream <-chan models.StreamResult[T]) ([]T, error) {
	var values []T
	for {
		select {
		case result, ok := <-stream:
			if !ok {
				return values, nil
			}
			if result.Err != nil {
				return values, result.Err
			}
			values = append(values, result.Value)
		case <-ctx.Done():
			return values, ctx.Err()
		}
	}
}

// ProgressRecorder is a concurrency-safe ProgressFunc sink
type ProgressRecorder struct {
	mu     sync.Mutex
	events []models.Progress
}

// Record appends p; pass it as the ProgressFunc of a transfer.
func (r *ProgressRecorder) Record(p models.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, p)
}

// Events returns a copy of the recorded progress reports
func (r *ProgressRecorder) Events() []models.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Progress(nil), r.events...)
}

// Percents returns the recorded percentages in order
func (r *ProgressRecorder) Percents() []int {
	events := r.Events()
	out := make([]int, len(events))
	for i, e := range events {
		out[i] = e.Percent
	}
	return out
}

// ChunkedBody serves data in reads of at most chunk bytes, so progress tests see a fixed
// number of chunks regardless of the read buffer size.
type ChunkedBody struct {
	data  []byte
	chunk int
	// FailAfter, when positive, makes Read fail with io.ErrUnexpectedEOF once that many bytes were served.
	FailAfter int
	served    int
}

// NewChunkedBody returns a body that yields data chunk bytes at a time
func NewChunkedBody(data []byte, chunk int) *ChunkedBody {
	return &ChunkedBody{data: data, chunk: chunk}
}

func (b *ChunkedBody) Read(p []byte) (int, error) {
	if b.FailAfter > 0 && b.served >= b.FailAfter {
		return 0, io.ErrUnexpectedEOF
	}
	if b.served >= len(b.data) {
		return 0, io.EOF
	}
	n := b.chunk
	if n > len(p) {
		n = len(p)
	}
	if rest := len(b.data) - b.served; n > rest {
		n = rest
	}
	copy(p, b.data[b.served:b.served+n])
	b.served += n
	return n, nil
}

func (b *ChunkedBody) Close() error {
	return nil
}

// ChunkedRoundTripper answers every GET with data served in fixed-size chunks and HEAD with
// the headers only. Status defaults to 200. Requests are recorded for assertions.
type ChunkedRoundTripper struct {
	Data        []byte
	Chunk       int
	Status      int
	ContentType string
	// OmitLength hides Content-Length, as chunked transfer encoding would.
	OmitLength bool
	// FailAfter is forwarded to the ChunkedBody of every response.
	FailAfter int

	mu       sync.Mutex
	requests []*http.Request
}

func (rt *ChunkedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	rt.requests = append(rt.requests, req)
	rt.mu.Unlock()

	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	status := rt.Status
	if status == 0 {
		status = http.StatusOK
	}
	header := make(http.Header)
	if rt.ContentType != "" {
		header.Set("Content-Type", rt.ContentType)
	}
	length := int64(len(rt.Data))
	if rt.OmitLength {
		length = -1
	} else {
		header.Set("Content-Length", strconv.Itoa(len(rt.Data)))
	}

	resp := &http.Response{
		StatusCode:    status,
		Status:        http.StatusText(status),
		Header:        header,
		ContentLength: length,
		Request:       req,
		Body:          http.NoBody,
	}
	if req.Method != http.MethodHead {
		body := NewChunkedBody(rt.Data, rt.Chunk)
		body.FailAfter = rt.FailAfter
		resp.Body = body
	}
	return resp, nil
}

// Requests returns the requests seen so far
func (rt *ChunkedRoundTripper) Requests() []*http.Request {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]*http.Request(nil), rt.requests...)
}
