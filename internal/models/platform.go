package models

// Platform identifies the social network a source URL belongs to
type Platform string

const (
	PlatformUnknown   Platform = ""
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
)

// String returns the string representation of the platform
func (p Platform) String() string {
	if p == PlatformUnknown {
		return "unknown"
	}
	return string(p)
}
