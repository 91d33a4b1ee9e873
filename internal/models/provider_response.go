package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProviderResponse is the raw JSON body returned by the metadata provider's /download endpoint
type ProviderResponse struct {
	Title     string          `json:"title"`
	Thumbnail string          `json:"thumbnail"`
	Duration  string          `json:"duration"` // "MM:SS"
	URL       string          `json:"url"`
	Source    string          `json:"source"`
	Medias    []ProviderMedia `json:"medias"`
}

// ProviderMedia is one entry of the provider's medias array
type ProviderMedia struct {
	URL            string     `json:"url"`
	Quality        string     `json:"quality"`
	Extension      string     `json:"extension"`
	Size           *FlexInt64 `json:"size"`
	VideoAvailable bool       `json:"videoAvailable"`
	AudioAvailable bool       `json:"audioAvailable"`
}

// FlexInt64 decodes a JSON number or a numeric string into an int64
type FlexInt64 int64

// UnmarshalJSON implements json.Unmarshaler interface
func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	str := strings.Trim(string(data), `"`)
	if str == "" {
		return nil
	}

	if n, err := strconv.ParseInt(str, 10, 64); err == nil {
		*f = FlexInt64(n)
		return nil
	}

	// Some providers emit sizes as floats
	var fl float64
	if err := json.Unmarshal([]byte(str), &fl); err != nil {
		return fmt.Errorf("invalid size value %q: %w", str, err)
	}
	*f = FlexInt64(int64(fl))
	return nil
}
