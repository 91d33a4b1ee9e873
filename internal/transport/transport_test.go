package transport

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

func compress(t *testing.T, encoding string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch encoding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "br":
		w = brotli.NewWriter(&buf)
	case "zstd":
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatalf("zstd writer: %v", err)
		}
		w = zw
	default:
		return data
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("compress %s: %v", encoding, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close %s writer: %v", encoding, err)
	}
	return buf.Bytes()
}

func TestDecompressingTransport_Encodings(t *testing.T) {
	payload := []byte(`{"medias":[{"url":"https://cdn.example.com/v.mp4","quality":"hd"}]}`)

	tests := []struct {
		name     string
		header   string
		encoding string
	}{
		{"gzip", "gzip", "gzip"},
		{"brotli", "br", "br"},
		{"zstd", "zstd", "zstd"},
		{"identity", "", ""},
		{"comma list uses outermost", "identity, gzip", "gzip"},
		{"whitespace and case", " GZIP ", "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Accept-Encoding"); got != acceptEncoding {
					t.Errorf("Expected Accept-Encoding %q, got %q", acceptEncoding, got)
				}
				if tt.header != "" {
					w.Header().Set("Content-Encoding", tt.header)
				}
				_, _ = w.Write(compress(t, tt.encoding, payload))
			}))
			defer server.Close()

			client := NewHTTPClient(Options{Name: "test", Decompress: true})
			resp, err := client.Get(server.URL)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("Failed to read body: %v", err)
			}
			if !bytes.Equal(body, payload) {
				t.Errorf("Expected body %q, got %q", payload, body)
			}
			if resp.Header.Get("Content-Encoding") != "" {
				t.Errorf("Expected Content-Encoding to be removed, got %q", resp.Header.Get("Content-Encoding"))
			}
		})
	}
}

func TestDecompressingTransport_PreservesExplicitAcceptEncoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Header.Get("Accept-Encoding")))
	}))
	defer server.Close()

	client := NewHTTPClient(Options{Decompress: true})
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "identity" {
		t.Errorf("Expected explicit Accept-Encoding to be kept, server saw %q", body)
	}
	if req.Header.Get("Accept-Encoding") != "identity" {
		t.Error("Caller request headers must not be modified")
	}
}

func TestDecompressingTransport_UnknownEncodingPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "compress")
		_, _ = w.Write([]byte("raw"))
	}))
	defer server.Close()

	resp, err := NewHTTPClient(Options{Decompress: true}).Get(server.URL)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "raw" || resp.Header.Get("Content-Encoding") != "compress" {
		t.Errorf("Expected unknown encoding to pass through, got %q / %q", body, resp.Header.Get("Content-Encoding"))
	}
}

func TestDecompressingTransport_HeadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := NewHTTPClient(Options{Decompress: true}).Head(server.URL)
	if err != nil {
		t.Fatalf("HEAD failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestNewHTTPClient_KeepsContentLengthWithoutDecompress(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 1000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept-Encoding"); got != "" {
			t.Errorf("Expected no Accept-Encoding for media requests, got %q", got)
		}
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	resp, err := NewHTTPClient(Options{Name: "media"}).Get(server.URL)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.ContentLength != int64(len(payload)) {
		t.Errorf("Expected ContentLength %d, got %d", len(payload), resp.ContentLength)
	}
}

func TestNewHTTPClient_InvalidProxyIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	resp, err := NewHTTPClient(Options{Proxy: "://bad proxy"}).Get(server.URL)
	if err != nil {
		t.Fatalf("Expected invalid proxy to be ignored, got %v", err)
	}
	resp.Body.Close()
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(Options{
		Name:    "provider",
		Breaker: &BreakerOptions{FailureThreshold: 2, Delay: time.Minute},
	})

	for i := 0; i < 2; i++ {
		resp, err := client.Get(server.URL)
		if err != nil {
			t.Fatalf("Request %d failed early: %v", i, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadGateway {
			t.Fatalf("Expected 502 to be passed through, got %d", resp.StatusCode)
		}
	}

	_, err := client.Get(server.URL)
	if err == nil {
		t.Fatal("Expected open circuit to fail the request")
	}
	if !IsCircuitOpen(err) {
		t.Fatalf("Expected circuit-open error, got %v", err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("Expected upstream to see 2 requests, got %d", n)
	}
}

func TestBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(Options{Breaker: &BreakerOptions{FailureThreshold: 1, Delay: time.Minute}})
	for i := 0; i < 3; i++ {
		resp, err := client.Get(server.URL)
		if err != nil {
			t.Fatalf("Request %d: expected 429 to reach the caller, got %v", i, err)
		}
		resp.Body.Close()
	}
}

func TestOutermostEncoding(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"gzip":          "gzip",
		" BR ":          "br",
		"gzip, zstd":    "zstd",
		"deflate,gzip ": "gzip",
	}
	for header, want := range tests {
		if got := outermostEncoding(header); got != want {
			t.Errorf("outermostEncoding(%q) = %q, want %q", header, got, want)
		}
	}
}
