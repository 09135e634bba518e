package character

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists character records together with the owner's
// counters. Create and Delete are atomic with the corresponding
// characters_created adjustment: either both apply or neither does.
type Repository interface {
	// Create inserts the record, stamps CreatedAt from the store clock
	// and increments the owner's characters_created in the same
	// transaction. The id must be assigned by the caller.
	Create(ctx context.Context, ch *Character) error

	FindByID(ctx context.Context, id uuid.UUID) (*Character, error)

	// ListByUser returns the owner's records newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Character, error)

	// ListPublic returns public records newest first with the total count.
	ListPublic(ctx context.Context, limit, offset int) ([]Character, int, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	// Delete removes the record and decrements the owner's
	// characters_created in the same transaction. The counter never
	// goes below zero.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddLike increments the record's like counter and the owner's
	// total_likes atomically. RemoveLike is the inverse; both counters
	// floor at zero.
	AddLike(ctx context.Context, id uuid.UUID) error
	RemoveLike(ctx context.Context, id uuid.UUID) error

	// CountByUser recounts the owner's records from source of truth,
	// used by the counter reconciliation job.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
