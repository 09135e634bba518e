package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charaforge-backend/internal/domains/user"
	"charaforge-backend/pkg/jwt"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]user.User
	byEmail map[string]uuid.UUID
	stats   map[uuid.UUID]*user.Stats
	follows map[[2]uuid.UUID]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[uuid.UUID]user.User),
		byEmail: make(map[string]uuid.UUID),
		stats:   make(map[uuid.UUID]*user.Stats),
		follows: make(map[[2]uuid.UUID]bool),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.byEmail[u.Email]; taken {
		return user.ErrEmailAlreadyExists
	}
	u.IsActive = true
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = *u
	f.byEmail[u.Email] = u.ID
	f.stats[u.ID] = &user.Stats{UserID: u.ID, MemberSince: u.CreatedAt, InstalledPacks: []uuid.UUID{}}
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	id, ok := f.byEmail[email]
	f.mu.Unlock()
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return f.FindByID(ctx, id)
}

func (f *fakeUserRepo) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.DisplayName = displayName
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) GetStats(ctx context.Context, userID uuid.UUID) (*user.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stats[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeUserRepo) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uuid.UUID{followerID, followeeID}
	if f.follows[key] {
		return user.ErrAlreadyFollowing
	}
	f.follows[key] = true
	f.stats[followerID].Following++
	f.stats[followeeID].Followers++
	return nil
}

func (f *fakeUserRepo) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uuid.UUID{followerID, followeeID}
	if !f.follows[key] {
		return user.ErrNotFollowing
	}
	delete(f.follows, key)
	f.stats[followerID].Following--
	f.stats[followeeID].Followers--
	return nil
}

func (f *fakeUserRepo) InstallPack(ctx context.Context, userID, packID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stats[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	for _, p := range s.InstalledPacks {
		if p == packID {
			return user.ErrPackAlreadyOwned
		}
	}
	s.InstalledPacks = append(s.InstalledPacks, packID)
	return nil
}

func (f *fakeUserRepo) ListStatsUserIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []uuid.UUID{}
	for id := range f.stats {
		if len(ids) >= limit {
			break
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeUserRepo) GetCharactersCreated(ctx context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stats[userID]
	if !ok {
		return 0, user.ErrUserNotFound
	}
	return s.CharactersCreated, nil
}

func (f *fakeUserRepo) SetCharactersCreated(ctx context.Context, userID uuid.UUID, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stats[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	s.CharactersCreated = count
	return nil
}

func newTestUserService(repo user.Repository) user.Service {
	return NewUserService(repo, jwt.NewManager("test-secret", 15, 168))
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	t.Run("registers and issues tokens", func(t *testing.T) {
		auth, err := svc.Register(context.Background(), user.RegisterRequest{
			Email:       "rin@example.com",
			Password:    "correct horse",
			DisplayName: "rin",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, auth.AccessToken)
		assert.NotEmpty(t, auth.RefreshToken)
		assert.Equal(t, "rin", auth.User.DisplayName)
		assert.Equal(t, user.RoleUser, auth.User.Role)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(context.Background(), user.RegisterRequest{
			Email:       "rin@example.com",
			Password:    "correct horse",
			DisplayName: "rin2",
		})
		assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := svc.Register(context.Background(), user.RegisterRequest{
			Email:       "short@example.com",
			Password:    "short",
			DisplayName: "shorty",
		})
		require.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	_, err := svc.Register(context.Background(), user.RegisterRequest{
		Email:       "rin@example.com",
		Password:    "correct horse",
		DisplayName: "rin",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		auth, err := svc.Login(context.Background(), user.LoginRequest{
			Email:    "rin@example.com",
			Password: "correct horse",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, auth.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), user.LoginRequest{
			Email:    "rin@example.com",
			Password: "wrong horse",
		})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		_, err := svc.Login(context.Background(), user.LoginRequest{
			Email:    "nobody@example.com",
			Password: "correct horse",
		})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	auth, err := svc.Register(context.Background(), user.RegisterRequest{
		Email:       "rin@example.com",
		Password:    "correct horse",
		DisplayName: "rin",
	})
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		renewed, err := svc.RefreshToken(context.Background(), user.RefreshTokenRequest{
			RefreshToken: auth.RefreshToken,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, renewed.AccessToken)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		_, err := svc.RefreshToken(context.Background(), user.RefreshTokenRequest{
			RefreshToken: auth.AccessToken,
		})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestFollow(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	a, err := svc.Register(context.Background(), user.RegisterRequest{
		Email: "a@example.com", Password: "password1", DisplayName: "a",
	})
	require.NoError(t, err)
	b, err := svc.Register(context.Background(), user.RegisterRequest{
		Email: "b@example.com", Password: "password1", DisplayName: "b",
	})
	require.NoError(t, err)

	t.Run("follow adjusts both counters", func(t *testing.T) {
		require.NoError(t, svc.Follow(context.Background(), a.User.ID, b.User.ID))

		aStats, err := svc.GetUserStats(context.Background(), a.User.ID)
		require.NoError(t, err)
		bStats, err := svc.GetUserStats(context.Background(), b.User.ID)
		require.NoError(t, err)

		assert.Equal(t, 1, aStats.Following)
		assert.Equal(t, 1, bStats.Followers)
	})

	t.Run("cannot follow self", func(t *testing.T) {
		err := svc.Follow(context.Background(), a.User.ID, a.User.ID)
		assert.ErrorIs(t, err, user.ErrCannotFollowSelf)
	})

	t.Run("double follow rejected", func(t *testing.T) {
		err := svc.Follow(context.Background(), a.User.ID, b.User.ID)
		assert.ErrorIs(t, err, user.ErrAlreadyFollowing)
	})

	t.Run("unfollow restores counters", func(t *testing.T) {
		require.NoError(t, svc.Unfollow(context.Background(), a.User.ID, b.User.ID))

		aStats, err := svc.GetUserStats(context.Background(), a.User.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, aStats.Following)
	})
}
