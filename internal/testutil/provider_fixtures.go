package testutil

import (
	"encoding/json"
	"fmt"
)

// IntPtr is a helper for creating *int values in tests
func IntPtr(v int) *int {
	return &v
}

// MediaOptions describes one entry of a generated provider "medias" array
type MediaOptions struct {
	URL            string
	Quality        string
	Extension      string
	Size           interface{} // number, numeric string, or nil to omit
	VideoAvailable bool
	AudioAvailable bool
}

// ProviderOptions describes a generated provider response body
type ProviderOptions struct {
	Title     string
	Thumbnail string
	Duration  string
	Source    string
	Medias    []MediaOptions
}

// GenerateProviderJSON renders a provider response body in the wire format of the metadata API.
// A nil Medias slice is rendered as an empty array.
func GenerateProviderJSON(opts ProviderOptions) string {
	medias := make([]map[string]interface{}, 0, len(opts.Medias))
	for _, m := range opts.Medias {
		entry := map[string]interface{}{
			"url":            m.URL,
			"quality":        m.Quality,
			"extension":      m.Extension,
			"videoAvailable": m.VideoAvailable,
			"audioAvailable": m.AudioAvailable,
		}
		if m.Size != nil {
			entry["size"] = m.Size
		}
		medias = append(medias, entry)
	}

	body := map[string]interface{}{
		"title":     opts.Title,
		"thumbnail": opts.Thumbnail,
		"duration":  opts.Duration,
		"source":    opts.Source,
		"medias":    medias,
	}

	data, err := json.Marshal(body)
	if err != nil {
		panic(fmt.Sprintf("testutil: provider fixture is not serializable: %v", err))
	}
	return string(data)
}

// HDAndAudioMedias returns the common two-variant fixture: an hd mp4 followed by a 128kbps mp3.
func HDAndAudioMedias(baseURL string) []MediaOptions {
	return []MediaOptions{
		{URL: baseURL + "/video_hd.mp4", Quality: "hd", Extension: "mp4", Size: 2097152, VideoAvailable: true, AudioAvailable: true},
		{URL: baseURL + "/audio.mp3", Quality: "128kbps", Extension: "mp3", AudioAvailable: true},
	}
}
