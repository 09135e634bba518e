package generation

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// GenerateProfileRequest asks for a biography draft. Traits feed the
// pack's prompt template when data_pack_id is set, otherwise the
// built-in default template.
type GenerateProfileRequest struct {
	Name       string            `json:"name"`
	Traits     map[string]string `json:"traits"`
	DataPackID string            `json:"data_pack_id"`
}

func (r GenerateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.DataPackID, is.UUIDv4),
	)
}

type GeneratePortraitRequest struct {
	Prompt string `json:"prompt"`
}

func (r GeneratePortraitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Prompt, validation.Required, validation.Length(1, 2000)),
	)
}

// ProfileDraft is a generated biography the client reviews before
// submitting through the character create endpoint.
type ProfileDraft struct {
	Name      string `json:"name"`
	Biography string `json:"biography"`
	Prompt    string `json:"prompt"`
}

// PortraitDraft carries the generated portrait inline as a data URI so
// the client can preview it and pass it straight to character create.
type PortraitDraft struct {
	ImageData string `json:"image_data"`
}
