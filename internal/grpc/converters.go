package grpc

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Belphemur/ReelFetch/internal/models"
)

// convertDescriptorToStruct converts a models.MediaDescriptor to a protobuf Struct
func convertDescriptorToStruct(d *models.MediaDescriptor) (*structpb.Struct, error) {
	qualities := make([]any, len(d.Qualities))
	for i, q := range d.Qualities {
		qualities[i] = convertQualityToMap(q)
	}

	return structpb.NewStruct(map[string]any{
		"id":               d.ID,
		"username":         d.Username,
		"caption":          d.Caption,
		"thumbnail_url":    d.ThumbnailURL,
		"duration_seconds": d.DurationSeconds,
		"source":           d.Source.String(),
		"source_url":       d.SourceURL,
		"qualities":        qualities,
	})
}

func convertQualityToMap(q models.QualityVariant) map[string]any {
	return map[string]any{
		"label":           q.Label,
		"mime":            q.MIME,
		"size_bytes":      q.SizeBytes,
		"size_estimated":  q.SizeEstimated,
		"media_url":       q.MediaURL,
		"extension":       q.Extension,
		"quality_tag":     q.QualityTag,
		"video_available": q.VideoAvailable,
		"audio_available": q.AudioAvailable,
	}
}

// convertTransferEventToStruct converts a models.TransferEvent to a Struct with exactly one
// of the "progress", "handoff" or "task" keys set
func convertTransferEventToStruct(e models.TransferEvent) (*structpb.Struct, error) {
	fields := map[string]any{}
	switch {
	case e.Progress != nil:
		fields["progress"] = map[string]any{
			"percent":  e.Progress.Percent,
			"exact":    e.Progress.Exact,
			"strategy": string(e.Progress.Strategy),
		}
	case e.Handoff != nil:
		fields["handoff"] = map[string]any{
			"url":      e.Handoff.URL,
			"filename": e.Handoff.Filename,
		}
	case e.Task != nil:
		fields["task"] = convertTaskToMap(e.Task)
	}
	return structpb.NewStruct(fields)
}

func convertTaskToMap(t *models.TransferTask) map[string]any {
	return map[string]any{
		"id":            t.ID,
		"source_url":    t.SourceURL,
		"filename":      t.Filename,
		"strategy":      string(t.Strategy),
		"state":         t.State.String(),
		"path":          t.Path,
		"content_type":  t.ContentType,
		"bytes_written": t.BytesWritten,
		"started_at":    formatTime(t.StartedAt),
		"finished_at":   formatTime(t.FinishedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// stringField returns the string value stored under key, or "" when absent or not a string
func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}
