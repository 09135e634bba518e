package user

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*AuthResponse, error)

	GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, callerID uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error)

	// GetUserStats returns the caller-visible counter aggregate.
	GetUserStats(ctx context.Context, userID uuid.UUID) (*StatsDTO, error)

	Follow(ctx context.Context, callerID, targetID uuid.UUID) error
	Unfollow(ctx context.Context, callerID, targetID uuid.UUID) error
}
