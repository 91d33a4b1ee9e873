package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"

	"github.com/Belphemur/ReelFetch/internal/config"
	"github.com/Belphemur/ReelFetch/internal/models"
)

// PageMetadataParser implements the SingleResultParser interface for OpenGraph tags of a post page
type PageMetadataParser struct{}

// NewPageMetadataParser creates a new OpenGraph metadata parser instance
func NewPageMetadataParser() SingleResultParser[models.PageMetadata] {
	return &PageMetadataParser{}
}

// Parse extracts og:title, og:description and og:image from an HTML document.
// Pages served in a legacy encoding are converted to UTF-8 first, based on their meta tags or BOM.
func (p *PageMetadataParser) Parse(body io.Reader) (models.PageMetadata, error) {
	logger := config.GetLogger()

	utf8Body, err := charset.NewReader(body, "")
	if err != nil {
		return models.PageMetadata{}, fmt.Errorf("failed to detect page encoding: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse HTML document")
		return models.PageMetadata{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	meta := models.PageMetadata{
		Title:       metaContent(doc, "og:title"),
		Description: metaContent(doc, "og:description"),
		Image:       metaContent(doc, "og:image"),
	}

	logger.Debug().
		Bool("hasTitle", meta.Title != "").
		Bool("hasDescription", meta.Description != "").
		Bool("hasImage", meta.Image != "").
		Msg("Extracted OpenGraph metadata")

	return meta, nil
}

// metaContent returns the trimmed content of the first meta tag whose property (or name) equals key
func metaContent(doc *goquery.Document, key string) string {
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		prop, ok := s.Attr("property")
		if !ok {
			prop, ok = s.Attr("name")
		}
		if !ok || !strings.EqualFold(prop, key) {
			return true
		}
		content = strings.TrimSpace(s.AttrOr("content", ""))
		return content == ""
	})
	return content
}

// ApplyPageMetadata fills the caption and thumbnail of descriptor from meta when they are empty.
// Captions are NFC-normalized like provider titles.
func ApplyPageMetadata(descriptor *models.MediaDescriptor, meta models.PageMetadata) {
	if descriptor.Caption == "" {
		if meta.Description != "" {
			descriptor.Caption = norm.NFC.String(meta.Description)
		} else {
			descriptor.Caption = norm.NFC.String(meta.Title)
		}
	}
	if descriptor.ThumbnailURL == "" {
		descriptor.ThumbnailURL = meta.Image
	}
}
