package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/Belphemur/ReelFetch/internal/apperrors"
)

func TestProviderParser_Parse(t *testing.T) {
	t.Parallel()
	body := `{
		"title": "Sunset",
		"thumbnail": "https://cdn.example.com/t.jpg",
		"duration": "01:05",
		"source": "instagram",
		"medias": [
			{"url": "https://cdn.example.com/a.mp4", "quality": "hd", "extension": "mp4", "size": 1024, "videoAvailable": true, "audioAvailable": true},
			{"url": "https://cdn.example.com/a.mp3", "quality": "128kbps", "extension": "mp3"}
		]
	}`

	resp, err := NewProviderParser().Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if resp.Title != "Sunset" || resp.Duration != "01:05" || resp.Source != "instagram" {
		t.Errorf("Unexpected scalar fields: %+v", resp)
	}
	if len(resp.Medias) != 2 {
		t.Fatalf("Expected 2 medias, got %d", len(resp.Medias))
	}
	if resp.Medias[0].Size == nil || *resp.Medias[0].Size != 1024 {
		t.Errorf("Expected first media size 1024, got %v", resp.Medias[0].Size)
	}
	if resp.Medias[1].Size != nil {
		t.Errorf("Expected second media size to be absent, got %v", *resp.Medias[1].Size)
	}
}

func TestProviderParser_Malformed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"html", "<html>error</html>"},
		{"json array", `[{"url":"a"}]`},
		{"json string", `"nope"`},
		{"truncated", `{"medias": [`},
		{"medias not array", `{"medias": {"url": "a"}}`},
		{"media not object", `{"medias": ["a"]}`},
		{"title not string", `{"title": 12, "medias": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewProviderParser().Parse(strings.NewReader(tt.body))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, &apperrors.ErrMalformedResponse{}) {
				t.Errorf("Expected ErrMalformedResponse, got %T: %v", err, err)
			}
		})
	}
}

func TestProviderParser_EmptyObject(t *testing.T) {
	t.Parallel()
	resp, err := NewProviderParser().Parse(strings.NewReader("  {}  "))
	if err != nil {
		t.Fatalf("Expected empty object to parse, got %v", err)
	}
	if len(resp.Medias) != 0 {
		t.Errorf("Expected no medias, got %d", len(resp.Medias))
	}
}
