package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type recordingLogger struct {
	msgs []string
}

func (l *recordingLogger) Error(msg string, _ error) {
	l.msgs = append(l.msgs, msg)
}

func TestJSON_RoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := newTestMemoryCache(t, ProviderConfig{Size: 10, TTL: time.Hour})
	c := NewJSON[sample](inner, "sample", nil)

	if _, ok := c.Get(ctx, "a"); ok {
		t.Fatal("Expected miss on empty cache")
	}

	c.Set(ctx, "a", sample{Name: "x", Count: 2})
	got, ok := c.Get(ctx, "a")
	if !ok || got.Name != "x" || got.Count != 2 {
		t.Fatalf("Unexpected value %+v (ok=%v)", got, ok)
	}

	if _, ok := inner.Get(ctx, "sample:a"); !ok {
		t.Error("Expected namespaced key in the underlying cache")
	}
}

func TestJSON_UndecodableEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	inner := newTestMemoryCache(t, ProviderConfig{Size: 10, TTL: time.Hour})
	logger := &recordingLogger{}
	c := NewJSON[sample](inner, "sample", logger)

	inner.Set(ctx, "sample:bad", []byte("not json"))
	if _, ok := c.Get(ctx, "bad"); ok {
		t.Fatal("Expected undecodable entry to be a miss")
	}
	if len(logger.msgs) != 1 {
		t.Errorf("Expected one logged error, got %v", logger.msgs)
	}
}

func TestZerologLogger(t *testing.T) {
	var l Logger = NewZerologLogger(zerolog.Nop())
	l.Error("boom", errors.New("cause"))
}
