package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Belphemur/ReelFetch/internal/apperrors"
	"github.com/Belphemur/ReelFetch/internal/models"
	"github.com/Belphemur/ReelFetch/internal/testutil"
)

func TestStreamDownload_EmitsHandoffAndTask(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	d := NewMediaDownloader(testTransferConfig(false),
		WithFs(afero.NewMemMapFs()),
		WithMediaHTTPClient(newRecordingClient(&testutil.ChunkedRoundTripper{})),
	)

	events, err := testutil.Collect(ctx, d.StreamDownload(ctx, TransferRequest{MediaURL: restrictedURL, Filename: "s.mp4"}))
	if err != nil {
		t.Fatalf("StreamDownload failed: %v", err)
	}
	if len(events) < 3 {
		t.Fatalf("Expected progress, handoff and task events, got %d", len(events))
	}

	var handoff *models.Handoff
	for _, e := range events {
		if e.Handoff != nil {
			handoff = e.Handoff
		}
	}
	if handoff == nil || handoff.URL != restrictedURL || handoff.Filename != "s.mp4" {
		t.Errorf("Expected a handoff event for the media URL, got %+v", handoff)
	}

	if events[0].Progress == nil || events[0].Progress.Percent != 10 {
		t.Errorf("Expected the first event to report 10%%, got %+v", events[0])
	}
	last := events[len(events)-1]
	if last.Task == nil || last.Task.State != models.TransferSucceeded {
		t.Fatalf("Expected the final event to carry the finished task, got %+v", last)
	}
	if prev := events[len(events)-2]; prev.Progress == nil || prev.Progress.Percent != 100 {
		t.Errorf("Expected 100%% right before the task, got %+v", prev)
	}
}

func TestStreamDownload_Streamed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rt := &testutil.ChunkedRoundTripper{Data: make([]byte, 1000), Chunk: 500}
	d := NewMediaDownloader(testTransferConfig(false),
		WithFs(afero.NewMemMapFs()),
		WithMediaHTTPClient(newRecordingClient(rt)),
	)

	events, err := testutil.Collect(ctx, d.StreamDownload(ctx, TransferRequest{MediaURL: streamableURL, Filename: "s.mp4"}))
	if err != nil {
		t.Fatalf("StreamDownload failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 50%%, 100%% and the task, got %d events", len(events))
	}
	if events[0].Progress.Percent != 50 || events[1].Progress.Percent != 100 {
		t.Errorf("Unexpected progress events %+v %+v", events[0].Progress, events[1].Progress)
	}
	if events[2].Task == nil || events[2].Task.Path == "" {
		t.Errorf("Expected a task with a stored path, got %+v", events[2])
	}
}

func TestStreamDownload_Failure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	d := NewMediaDownloader(testTransferConfig(false),
		WithFs(afero.NewMemMapFs()),
		WithMediaHTTPClient(newRecordingClient(&testutil.ChunkedRoundTripper{})),
	)

	events, err := testutil.Collect(ctx, d.StreamDownload(ctx, TransferRequest{MediaURL: "not-a-url"}))
	if !errors.Is(err, &apperrors.ErrTransfer{}) {
		t.Fatalf("Expected ErrTransfer, got %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Expected no events before the failure, got %d", len(events))
	}
}
