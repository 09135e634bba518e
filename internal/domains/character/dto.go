package character

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// ========================================
// Request DTOs
// ========================================

// CreateCharacterRequest carries a new profile. Exactly one portrait
// source must be present: a remote URL or an inline data URI. New
// records always start private; publishing goes through the status
// endpoint.
type CreateCharacterRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Biography   string `json:"biography"`
	ImageURL    string `json:"image_url"`
	ImageData   string `json:"image_data"`
	DataPackID  string `json:"data_pack_id"`
}

func (r CreateCharacterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Biography, validation.Required, validation.Length(1, 15000)),
		validation.Field(&r.ImageURL, validation.By(r.checkPortraitSource), is.URL),
		validation.Field(&r.DataPackID, is.UUIDv4),
	)
}

// checkPortraitSource enforces exactly one of image_url / image_data.
func (r CreateCharacterRequest) checkPortraitSource(interface{}) error {
	if r.ImageURL == "" && r.ImageData == "" {
		return validation.NewError("validation_portrait_required", "either image_url or image_data is required")
	}
	if r.ImageURL != "" && r.ImageData != "" {
		return validation.NewError("validation_portrait_conflict", "image_url and image_data are mutually exclusive")
	}
	return nil
}

// UpdateStatusRequest toggles a character's visibility.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In("private", "public")),
	)
}

// ========================================
// Response DTOs
// ========================================

// CharacterDTO is the hydrated read model returned by the service.
// Pack is nil when the record references no pack, or when hydration
// degraded because the pack could not be resolved.
type CharacterDTO struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Biography   string       `json:"biography"`
	ImageURL    string       `json:"image_url"`
	UserID      uuid.UUID    `json:"user_id"`
	UserName    string       `json:"user_name"`
	Status      Status       `json:"status"`
	Likes       int          `json:"likes"`
	Pack        *PackSummary `json:"pack,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// SaveResult reports the outcome of a create.
type SaveResult struct {
	ID       uuid.UUID `json:"id"`
	ImageURL string    `json:"image_url"`
}
