package datapack

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *DataPack) error
	FindByID(ctx context.Context, id uuid.UUID) (*DataPack, error)
	List(ctx context.Context, limit, offset int) ([]DataPack, int, error)
	Update(ctx context.Context, p *DataPack) error
	Delete(ctx context.Context, id uuid.UUID) error
}
