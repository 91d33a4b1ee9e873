package services

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// pathSeparatorReplacer keeps user-controlled parts from escaping the download directory
var pathSeparatorReplacer = strings.NewReplacer("/", "-", "\\", "-")

// GenerateFilename builds instagram_<username>_<id>[_<quality>]_<YYYY-MM-DD>.mp4 using today's UTC date.
// The quality segment is omitted when qualityLabel is empty. The extension is always .mp4,
// even for audio-only variants.
func GenerateFilename(username, id, qualityLabel string) string {
	return generateFilename(username, id, qualityLabel, time.Now())
}

func generateFilename(username, id, qualityLabel string, now time.Time) string {
	var b strings.Builder
	b.WriteString("instagram_")
	b.WriteString(pathSeparatorReplacer.Replace(username))
	b.WriteString("_")
	b.WriteString(pathSeparatorReplacer.Replace(id))
	if qualityLabel != "" {
		b.WriteString("_")
		b.WriteString(pathSeparatorReplacer.Replace(qualityLabel))
	}
	b.WriteString("_")
	b.WriteString(now.UTC().Format(time.DateOnly))
	b.WriteString(".mp4")
	return b.String()
}

// FormatFileSize renders bytes in base-1024 units with at most two decimals,
// e.g. 1536 -> "1.5 KB". Sizes beyond the GB range stay in GB.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}

	value := float64(bytes) / math.Pow(1024, float64(i))
	value = math.Round(value*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[i]
}
