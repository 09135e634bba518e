package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Stats is the per-user counter aggregate. characters_created is
// maintained transactionally with character create/delete; the
// reconciliation job repairs any residual drift.
type Stats struct {
	UserID            uuid.UUID   `json:"user_id"`
	CharactersCreated int         `json:"characters_created"`
	TotalLikes        int         `json:"total_likes"`
	Followers         int         `json:"followers"`
	Following         int         `json:"following"`
	InstalledPacks    []uuid.UUID `json:"installed_packs"`
	MemberSince       time.Time   `json:"member_since"`
}
