package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists accounts, follow edges and the stats aggregate.
// Create also seeds the user's stats row in the same transaction so
// counter updates never race a missing row.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error

	GetStats(ctx context.Context, userID uuid.UUID) (*Stats, error)

	// Follow inserts the edge and adjusts both follower counters in one
	// transaction; Unfollow is the inverse, counters floored at zero.
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error

	InstallPack(ctx context.Context, userID, packID uuid.UUID) error

	// Reconciliation support.
	ListStatsUserIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
	GetCharactersCreated(ctx context.Context, userID uuid.UUID) (int, error)
	SetCharactersCreated(ctx context.Context, userID uuid.UUID, count int) error
}
