package character

import (
	"time"

	"github.com/google/uuid"
)

// Status is the visibility flag controlling whether non-owners may read
// a character record.
type Status string

const (
	StatusPrivate Status = "private"
	StatusPublic  Status = "public"
)

// Character is a user-owned profile record.
// CreatedAt is assigned by the store's clock on insert and never changes.
type Character struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Biography   string     `json:"biography"`
	ImageURL    string     `json:"image_url"`
	UserID      uuid.UUID  `json:"user_id"`
	UserName    string     `json:"user_name"` // denormalized display name
	Status      Status     `json:"status"`
	Likes       int        `json:"likes"`
	DataPackID  *uuid.UUID `json:"data_pack_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// PackSummary is the hydrated view of a referenced data pack. Kept local
// to this package so the character pathway does not depend on the pack
// domain's types.
type PackSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Tags []string  `json:"tags,omitempty"`
}
