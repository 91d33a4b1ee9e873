package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Belphemur/ReelFetch/internal/apperrors"
	"github.com/Belphemur/ReelFetch/internal/config"
	"github.com/Belphemur/ReelFetch/internal/models"
)

// MaxProviderBodySize bounds how much of a provider response is read into memory
const MaxProviderBodySize = 4 << 20

// ProviderParser implements the SingleResultParser interface for the provider's JSON payload
type ProviderParser struct{}

// NewProviderParser creates a new provider response parser instance
func NewProviderParser() SingleResultParser[models.ProviderResponse] {
	return &ProviderParser{}
}

// Parse decodes the provider body into the intermediate schema.
// Any payload that is not a JSON object matching the schema yields *apperrors.ErrMalformedResponse.
func (p *ProviderParser) Parse(body io.Reader) (models.ProviderResponse, error) {
	logger := config.GetLogger()

	data, err := io.ReadAll(io.LimitReader(body, MaxProviderBodySize+1))
	if err != nil {
		return models.ProviderResponse{}, &apperrors.ErrMalformedResponse{Reason: "failed to read body", Err: err}
	}
	if len(data) > MaxProviderBodySize {
		return models.ProviderResponse{}, &apperrors.ErrMalformedResponse{Reason: fmt.Sprintf("body exceeds %d bytes", MaxProviderBodySize)}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		logger.Debug().Int("size", len(data)).Msg("Provider body is not a JSON object")
		return models.ProviderResponse{}, &apperrors.ErrMalformedResponse{Reason: "body is not a JSON object"}
	}

	var resp models.ProviderResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		logger.Debug().Err(err).Str("body", string(trimmed)).Msg("Provider body does not match expected schema")
		return models.ProviderResponse{}, &apperrors.ErrMalformedResponse{Reason: "body does not match schema", Err: err}
	}

	logger.Debug().Int("medias", len(resp.Medias)).Msg("Provider response parsed")
	return resp, nil
}
