package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"charaforge-backend/internal/domains/datapack"
	"charaforge-backend/internal/domains/generation/prompt"
	"charaforge-backend/internal/domains/user"
	"charaforge-backend/pkg/logger"
)

type datapackService struct {
	repo      datapack.Repository
	installer datapack.PackInstaller
}

func NewDatapackService(repo datapack.Repository, installer datapack.PackInstaller) datapack.Service {
	return &datapackService{repo: repo, installer: installer}
}

func (s *datapackService) CreatePack(ctx context.Context, req datapack.CreatePackRequest) (*datapack.DataPack, error) {
	p, err := s.buildPack(uuid.New(), req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info("Data pack created", map[string]interface{}{
		"pack_id": p.ID.String(),
		"name":    p.Name,
	})

	return p, nil
}

func (s *datapackService) GetPack(ctx context.Context, id uuid.UUID) (*datapack.DataPack, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *datapackService) GetSummary(ctx context.Context, id uuid.UUID) (*datapack.Summary, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := p.Summary()
	return &summary, nil
}

func (s *datapackService) ListPacks(ctx context.Context, page, limit int) ([]datapack.DataPack, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, limit, (page-1)*limit)
}

func (s *datapackService) UpdatePack(ctx context.Context, id uuid.UUID, req datapack.CreatePackRequest) (*datapack.DataPack, error) {
	p, err := s.buildPack(id, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *datapackService) DeletePack(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *datapackService) InstallPack(ctx context.Context, callerID, packID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, packID); err != nil {
		return err
	}

	if err := s.installer.InstallPack(ctx, callerID, packID); err != nil {
		if errors.Is(err, user.ErrPackAlreadyOwned) {
			return datapack.ErrAlreadyOwned
		}
		return err
	}

	logger.Info("Data pack installed", map[string]interface{}{
		"pack_id": packID.String(),
		"user_id": callerID.String(),
	})

	return nil
}

// buildPack validates the request and checks the prompt template renders
// before anything touches the store.
func (s *datapackService) buildPack(id uuid.UUID, req datapack.CreatePackRequest) (*datapack.DataPack, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := prompt.Check(req.PromptTemplate); err != nil {
		return nil, datapack.ErrTemplateBroken
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, err
	}

	return &datapack.DataPack{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		Tags:           req.Tags,
		Fields:         req.Fields,
		PromptTemplate: req.PromptTemplate,
		Price:          price,
	}, nil
}
