package datapack

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	CreatePack(ctx context.Context, req CreatePackRequest) (*DataPack, error)
	GetPack(ctx context.Context, id uuid.UUID) (*DataPack, error)
	GetSummary(ctx context.Context, id uuid.UUID) (*Summary, error)
	ListPacks(ctx context.Context, page, limit int) ([]DataPack, int, error)
	UpdatePack(ctx context.Context, id uuid.UUID, req CreatePackRequest) (*DataPack, error)
	DeletePack(ctx context.Context, id uuid.UUID) error

	// InstallPack records ownership of a pack for the caller.
	InstallPack(ctx context.Context, callerID, packID uuid.UUID) error
}

// PackInstaller is the slice of the user domain this service needs to
// record pack ownership.
type PackInstaller interface {
	InstallPack(ctx context.Context, userID, packID uuid.UUID) error
}
