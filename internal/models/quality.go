package models

import "strings"

// qualityLabels maps provider quality tags (lower-cased) to display labels
var qualityLabels = map[string]string{
	"hd":      "720p HD",
	"full hd": "1080p Full HD",
	"128kbps": "Audio (MP3)",
	"medium":  "480p",
	"low":     "360p",
}

// mimeTypes maps file extensions (lower-cased) to MIME types
var mimeTypes = map[string]string{
	"mp4":  "video/mp4",
	"mp3":  "audio/mpeg",
	"webm": "video/webm",
	"avi":  "video/avi",
}

// DefaultMIME is used for extensions missing from the lookup table
const DefaultMIME = "video/mp4"

// QualityLabel returns the human-readable label for a provider quality tag.
// Unknown tags are returned unchanged.
func QualityLabel(tag string) string {
	if label, ok := qualityLabels[strings.ToLower(tag)]; ok {
		return label
	}
	return tag
}

// MIMEForExtension returns the MIME type for a file extension, defaulting to video/mp4
func MIMEForExtension(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return DefaultMIME
}
