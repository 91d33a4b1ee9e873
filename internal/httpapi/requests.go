package httpapi

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

const maxURLLength = 2048

var absoluteHTTPURL = regexp.MustCompile(`^https?://\S+$`)

type validateRequest struct {
	URL string `json:"url"`
}

type resolveRequest struct {
	URL string `json:"url"`
}

func (req *resolveRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.URL, validation.Required, validation.Length(1, maxURLLength)),
	)
}

type filenameRequest struct {
	Username string `json:"username"`
	ID       string `json:"id"`
	Quality  string `json:"quality"`
}

func (req *filenameRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ID, validation.Required, validation.Length(1, 256)),
		validation.Field(&req.Username, validation.Length(0, 256)),
		validation.Field(&req.Quality, validation.Length(0, 64)),
	)
}

type downloadRequest struct {
	MediaURL string `json:"mediaUrl"`
	Filename string `json:"filename"`
}

func (req *downloadRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.MediaURL,
			validation.Required,
			validation.Length(1, maxURLLength),
			validation.Match(absoluteHTTPURL).Error("must be an absolute http(s) URL"),
		),
		validation.Field(&req.Filename, validation.Length(0, 255)),
	)
}

// fieldErrors flattens ozzo validation errors into field -> message
func fieldErrors(err error) map[string]string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}
	out := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		var nested validation.Errors
		if errors.As(fieldErr, &nested) {
			for k, v := range fieldErrors(nested) {
				out[field+"."+k] = v
			}
			continue
		}
		out[field] = fieldErr.Error()
	}
	return out
}
