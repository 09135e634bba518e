package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"charaforge-backend/internal/domains/user"
	"charaforge-backend/pkg/jwt"
	"charaforge-backend/pkg/logger"
)

const bcryptCost = 12

type userService struct {
	repo user.Repository
	jwt  *jwt.Manager
}

func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{repo: repo, jwt: jwtManager}
}

// ========================================
// Auth
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         user.RoleUser,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": u.ID.String(),
	})

	return s.issueTokens(u)
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Same error for unknown email and bad password.
		return nil, user.ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, user.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

func (s *userService) RefreshToken(ctx context.Context, req user.RefreshTokenRequest) (*user.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, user.ErrInvalidCredentials
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, user.ErrInvalidCredentials
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil || !u.IsActive {
		return nil, user.ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

func (s *userService) issueTokens(u *user.User) (*user.AuthResponse, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID.String(), u.Email, u.DisplayName, u.Role)
	if err != nil {
		return nil, err
	}

	refresh, err := s.jwt.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, err
	}

	return &user.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.ToProfileDTO(u),
	}, nil
}

// ========================================
// Profile and stats
// ========================================

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*user.ProfileDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := user.ToProfileDTO(u)
	return &dto, nil
}

func (s *userService) UpdateProfile(ctx context.Context, callerID uuid.UUID, req user.UpdateProfileRequest) (*user.ProfileDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateDisplayName(ctx, callerID, req.DisplayName); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, callerID)
}

func (s *userService) GetUserStats(ctx context.Context, userID uuid.UUID) (*user.StatsDTO, error) {
	stats, err := s.repo.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &user.StatsDTO{
		UserID:            stats.UserID,
		CharactersCreated: stats.CharactersCreated,
		TotalLikes:        stats.TotalLikes,
		Followers:         stats.Followers,
		Following:         stats.Following,
		InstalledPacks:    stats.InstalledPacks,
		MemberSince:       stats.MemberSince,
	}, nil
}

// ========================================
// Social graph
// ========================================

func (s *userService) Follow(ctx context.Context, callerID, targetID uuid.UUID) error {
	if callerID == targetID {
		return user.ErrCannotFollowSelf
	}

	if _, err := s.repo.FindByID(ctx, targetID); err != nil {
		return err
	}

	return s.repo.Follow(ctx, callerID, targetID)
}

func (s *userService) Unfollow(ctx context.Context, callerID, targetID uuid.UUID) error {
	if callerID == targetID {
		return user.ErrCannotFollowSelf
	}

	return s.repo.Unfollow(ctx, callerID, targetID)
}
