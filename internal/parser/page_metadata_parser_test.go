package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Belphemur/ReelFetch/internal/models"
)

func TestPageMetadataParser_Parse(t *testing.T) {
	t.Parallel()
	html := `<html><head>
		<meta property="og:title" content=" Alice on Instagram ">
		<meta property="og:description" content="Sunset at the beach">
		<meta property="og:image" content="https://cdn.example.com/poster.jpg">
	</head><body></body></html>`

	meta, err := NewPageMetadataParser().Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Title != "Alice on Instagram" {
		t.Errorf("Expected trimmed title, got %q", meta.Title)
	}
	if meta.Description != "Sunset at the beach" {
		t.Errorf("Unexpected description %q", meta.Description)
	}
	if meta.Image != "https://cdn.example.com/poster.jpg" {
		t.Errorf("Unexpected image %q", meta.Image)
	}
}

func TestPageMetadataParser_NameAttributeAndMissingTags(t *testing.T) {
	t.Parallel()
	html := `<html><head><meta name="og:image" content="https://cdn.example.com/p.jpg"></head></html>`

	meta, err := NewPageMetadataParser().Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Image != "https://cdn.example.com/p.jpg" {
		t.Errorf("Expected image from name attribute, got %q", meta.Image)
	}
	if meta.Title != "" || meta.Description != "" {
		t.Errorf("Expected empty title/description, got %+v", meta)
	}
}

func TestPageMetadataParser_SkipsEmptyContent(t *testing.T) {
	t.Parallel()
	html := `<html><head>
		<meta property="og:title" content="">
		<meta property="og:title" content="Second">
	</head></html>`

	meta, err := NewPageMetadataParser().Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Title != "Second" {
		t.Errorf("Expected first non-empty og:title, got %q", meta.Title)
	}
}

func TestPageMetadataParser_ISO88591(t *testing.T) {
	t.Parallel()
	// é = 0xE9 in ISO-8859-1
	input := []byte(`<html><head><meta charset="ISO-8859-1"><meta property="og:title" content="Caf` + string([]byte{0xE9}) + `"></head></html>`)

	meta, err := NewPageMetadataParser().Parse(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Title != "Caf\u00e9" {
		t.Errorf("Expected 'Café', got %q", meta.Title)
	}
}

func TestApplyPageMetadata(t *testing.T) {
	t.Parallel()

	t.Run("fills empty fields preferring description", func(t *testing.T) {
		d := &models.MediaDescriptor{}
		ApplyPageMetadata(d, models.PageMetadata{Title: "T", Description: "D", Image: "I"})
		if d.Caption != "D" || d.ThumbnailURL != "I" {
			t.Errorf("Unexpected descriptor %+v", d)
		}
	})

	t.Run("falls back to title", func(t *testing.T) {
		d := &models.MediaDescriptor{}
		ApplyPageMetadata(d, models.PageMetadata{Title: "T"})
		if d.Caption != "T" {
			t.Errorf("Expected caption from title, got %q", d.Caption)
		}
	})

	t.Run("normalizes captions to NFC", func(t *testing.T) {
		decomposed := "Cafe\u0301 cre\u0300me"
		d := &models.MediaDescriptor{}
		ApplyPageMetadata(d, models.PageMetadata{Description: decomposed})
		if d.Caption != "Caf\u00e9 cr\u00e8me" {
			t.Errorf("Expected NFC caption, got %q", d.Caption)
		}

		d = &models.MediaDescriptor{}
		ApplyPageMetadata(d, models.PageMetadata{Title: decomposed})
		if d.Caption != "Caf\u00e9 cr\u00e8me" {
			t.Errorf("Expected NFC caption from title, got %q", d.Caption)
		}
	})

	t.Run("keeps provider values", func(t *testing.T) {
		d := &models.MediaDescriptor{Caption: "provider", ThumbnailURL: "thumb"}
		ApplyPageMetadata(d, models.PageMetadata{Title: "T", Description: "D", Image: "I"})
		if d.Caption != "provider" || d.ThumbnailURL != "thumb" {
			t.Errorf("Provider values were overwritten: %+v", d)
		}
	})
}
