package generation

import "context"

type Service interface {
	GenerateProfile(ctx context.Context, req GenerateProfileRequest) (*ProfileDraft, error)
	GeneratePortrait(ctx context.Context, req GeneratePortraitRequest) (*PortraitDraft, error)
}
