package parser

import (
	"regexp"

	"github.com/Belphemur/ReelFetch/internal/models"
)

var (
	// instagramPostPattern matches post, reel and IGTV links and captures the shortcode
	instagramPostPattern = regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/(?:p|reel|tv)/([A-Za-z0-9_-]+)/?`)
	// tiktokVideoPattern matches video links and captures the handle and the numeric id
	tiktokVideoPattern = regexp.MustCompile(`^https?://(?:www\.)?tiktok\.com/@([A-Za-z0-9_.-]+)/video/(\d+)/?`)

	// instagramUsernamePattern captures the path segment in front of /p/, /reel/ or /tv/
	instagramUsernamePattern = regexp.MustCompile(`instagram\.com/([^/]+)/(?:p|reel|tv)/`)
	// tiktokUsernamePattern captures the handle between @ and /video/
	tiktokUsernamePattern = regexp.MustCompile(`tiktok\.com/@([^/]+)/video/`)
)

// Validate reports whether rawURL is a supported Instagram post/reel/IGTV link or TikTok video link.
// It is purely syntactic and never touches the network.
func Validate(rawURL string) bool {
	return instagramPostPattern.MatchString(rawURL) || tiktokVideoPattern.MatchString(rawURL)
}

// DetectPlatform returns the platform of a valid URL, or PlatformUnknown
func DetectPlatform(rawURL string) models.Platform {
	switch {
	case instagramPostPattern.MatchString(rawURL):
		return models.PlatformInstagram
	case tiktokVideoPattern.MatchString(rawURL):
		return models.PlatformTikTok
	default:
		return models.PlatformUnknown
	}
}

// ExtractID returns the Instagram shortcode or the TikTok numeric video id.
// The second return value is false when rawURL does not pass Validate.
func ExtractID(rawURL string) (string, bool) {
	if m := instagramPostPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	if m := tiktokVideoPattern.FindStringSubmatch(rawURL); m != nil {
		return m[2], true
	}
	return "", false
}

// ExtractUsername returns the creator handle embedded in the URL, if any.
func ExtractUsername(rawURL string) (string, bool) {
	if m := instagramUsernamePattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	if m := tiktokUsernamePattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	return "", false
}
