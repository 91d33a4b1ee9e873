package models

// MediaDescriptor is the normalized result of resolving one source URL
type MediaDescriptor struct {
	ID              string           `json:"id"`
	Username        string           `json:"username"`
	Caption         string           `json:"caption"`
	ThumbnailURL    string           `json:"thumbnailUrl"`
	DurationSeconds int              `json:"durationSeconds"`
	Qualities       []QualityVariant `json:"qualities"`
	Source          Platform         `json:"source"`
	SourceURL       string           `json:"sourceUrl"`
}

// QualityVariant is one downloadable rendition of the resolved media
type QualityVariant struct {
	Label          string `json:"label"`
	MIME           string `json:"mime"`
	SizeBytes      int64  `json:"sizeBytes"`
	SizeEstimated  bool   `json:"sizeEstimated"` // SizeBytes is a best-effort UX estimate, not the provider's value
	MediaURL       string `json:"mediaUrl"`
	Extension      string `json:"extension"`
	QualityTag     string `json:"qualityTag"`
	VideoAvailable bool   `json:"videoAvailable"`
	AudioAvailable bool   `json:"audioAvailable"`
}

// UnknownUsername is used when the creator handle cannot be derived from the URL
const UnknownUsername = "unknown"

// PageMetadata holds the OpenGraph fields of a public post page
type PageMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}
