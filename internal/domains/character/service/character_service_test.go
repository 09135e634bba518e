package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charaforge-backend/internal/domains/character"
	"charaforge-backend/internal/infrastructure/storage"
)

// ========================================
// In-memory fakes
// ========================================

type fakeRepo struct {
	mu         sync.Mutex
	characters map[uuid.UUID]character.Character
	created    map[uuid.UUID]int
	likes      map[uuid.UUID]int
	failCreate bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		characters: make(map[uuid.UUID]character.Character),
		created:    make(map[uuid.UUID]int),
		likes:      make(map[uuid.UUID]int),
	}
}

func (f *fakeRepo) Create(ctx context.Context, ch *character.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("store unavailable")
	}
	ch.CreatedAt = time.Now().UTC()
	f.characters[ch.ID] = *ch
	f.created[ch.UserID]++
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*character.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.characters[id]
	if !ok {
		return nil, character.ErrCharacterNotFound
	}
	return &ch, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]character.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []character.Character{}
	for _, ch := range f.characters {
		if ch.UserID == userID {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) ListPublic(ctx context.Context, limit, offset int) ([]character.Character, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := []character.Character{}
	for _, ch := range f.characters {
		if ch.Status == character.StatusPublic {
			all = append(all, ch)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset >= total {
		return []character.Character{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status character.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.characters[id]
	if !ok {
		return character.ErrCharacterNotFound
	}
	ch.Status = status
	f.characters[id] = ch
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.characters[id]
	if !ok {
		return character.ErrCharacterNotFound
	}
	delete(f.characters, id)
	if f.created[ch.UserID] > 0 {
		f.created[ch.UserID]--
	}
	return nil
}

func (f *fakeRepo) AddLike(ctx context.Context, id uuid.UUID) error {
	return f.adjustLikes(id, 1)
}

func (f *fakeRepo) RemoveLike(ctx context.Context, id uuid.UUID) error {
	return f.adjustLikes(id, -1)
}

func (f *fakeRepo) adjustLikes(id uuid.UUID, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.characters[id]
	if !ok {
		return character.ErrCharacterNotFound
	}
	ch.Likes += delta
	if ch.Likes < 0 {
		ch.Likes = 0
	}
	f.characters[id] = ch
	f.likes[ch.UserID] += delta
	return nil
}

func (f *fakeRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, ch := range f.characters {
		if ch.UserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeUploader struct {
	uploads []string
	fail    bool
}

func (f *fakeUploader) Upload(ctx context.Context, src storage.PortraitSource, pathPrefix string) (string, error) {
	if f.fail {
		return "", storage.ErrUploadFailed
	}
	f.uploads = append(f.uploads, pathPrefix)
	return "http://localhost:9000/charaforge/" + pathPrefix + "/portrait.png", nil
}

type fakePacks struct {
	summaries map[uuid.UUID]*character.PackSummary
}

func (f *fakePacks) Summary(ctx context.Context, packID uuid.UUID) (*character.PackSummary, error) {
	if s, ok := f.summaries[packID]; ok {
		return s, nil
	}
	return nil, errors.New("pack lookup failed")
}

type fakeTasks struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
}

func (f *fakeTasks) EnqueueDeletePortraits(ctx context.Context, characterID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, characterID)
	return nil
}

const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="

func newTestService(repo *fakeRepo, packs *fakePacks) (character.Service, *fakeUploader, *fakeTasks) {
	uploader := &fakeUploader{}
	tasks := &fakeTasks{}
	return NewCharacterService(repo, uploader, packs, tasks), uploader, tasks
}

// ========================================
// Writer
// ========================================

func TestSaveCharacter(t *testing.T) {
	ownerID := uuid.New()

	t.Run("uploads inline portrait and stores record", func(t *testing.T) {
		repo := newFakeRepo()
		svc, uploader, _ := newTestService(repo, nil)

		result, err := svc.SaveCharacter(context.Background(), ownerID, "rin", character.CreateCharacterRequest{
			Name:      "Rin",
			Biography: "A wandering swordswoman.",
			ImageData: pngDataURI,
		})

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.NotEqual(t, uuid.Nil, result.ID)
		assert.Contains(t, result.ImageURL, result.ID.String())
		assert.Len(t, uploader.uploads, 1)

		stored := repo.characters[result.ID]
		assert.Equal(t, character.StatusPrivate, stored.Status)
		assert.Equal(t, ownerID, stored.UserID)
		assert.Equal(t, "rin", stored.UserName)
		assert.Equal(t, 1, repo.created[ownerID])
	})

	t.Run("always starts private even when the client sends a status", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _, _ := newTestService(repo, nil)

		var req character.CreateCharacterRequest
		body := `{"name":"Rin","biography":"A wandering swordswoman.","image_url":"https://cdn.example.com/rin.png","status":"public"}`
		require.NoError(t, json.Unmarshal([]byte(body), &req))

		result, err := svc.SaveCharacter(context.Background(), ownerID, "rin", req)

		require.NoError(t, err)
		assert.Equal(t, character.StatusPrivate, repo.characters[result.ID].Status)
	})

	t.Run("keeps remote url without uploading", func(t *testing.T) {
		repo := newFakeRepo()
		svc, uploader, _ := newTestService(repo, nil)

		result, err := svc.SaveCharacter(context.Background(), ownerID, "rin", character.CreateCharacterRequest{
			Name:      "Rin",
			Biography: "A wandering swordswoman.",
			ImageURL:  "https://cdn.example.com/rin.png",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/rin.png", result.ImageURL)
		assert.Empty(t, uploader.uploads)
	})

	t.Run("rejects missing portrait source", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _, _ := newTestService(repo, nil)

		_, err := svc.SaveCharacter(context.Background(), ownerID, "rin", character.CreateCharacterRequest{
			Name:      "Rin",
			Biography: "A wandering swordswoman.",
		})

		require.Error(t, err)
		assert.Empty(t, repo.characters)
	})

	t.Run("rejects both portrait sources", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _, _ := newTestService(repo, nil)

		_, err := svc.SaveCharacter(context.Background(), ownerID, "rin", character.CreateCharacterRequest{
			Name:      "Rin",
			Biography: "A wandering swordswoman.",
			ImageURL:  "https://cdn.example.com/rin.png",
			ImageData: pngDataURI,
		})

		require.Error(t, err)
	})

	t.Run("maps store failure to generic error", func(t *testing.T) {
		repo := newFakeRepo()
		repo.failCreate = true
		svc, _, _ := newTestService(repo, nil)

		_, err := svc.SaveCharacter(context.Background(), ownerID, "rin", character.CreateCharacterRequest{
			Name:      "Rin",
			Biography: "A wandering swordswoman.",
			ImageURL:  "https://cdn.example.com/rin.png",
		})

		assert.ErrorIs(t, err, character.ErrCouldNotSave)
	})
}

// ========================================
// Reader and access gate
// ========================================

func seedCharacter(t *testing.T, repo *fakeRepo, ownerID uuid.UUID, status character.Status, packID *uuid.UUID) uuid.UUID {
	t.Helper()
	ch := &character.Character{
		ID:         uuid.New(),
		Name:       "Seeded",
		Biography:  "bio",
		ImageURL:   "https://cdn.example.com/x.png",
		UserID:     ownerID,
		UserName:   "owner",
		Status:     status,
		DataPackID: packID,
	}
	require.NoError(t, repo.Create(context.Background(), ch))
	return ch.ID
}

func TestGetCharacter(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()

	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, nil)

	privateID := seedCharacter(t, repo, ownerID, character.StatusPrivate, nil)
	publicID := seedCharacter(t, repo, ownerID, character.StatusPublic, nil)

	t.Run("owner reads private record", func(t *testing.T) {
		dto, err := svc.GetCharacter(context.Background(), ownerID, privateID)
		require.NoError(t, err)
		assert.Equal(t, privateID, dto.ID)
	})

	t.Run("private record hidden from stranger", func(t *testing.T) {
		_, err := svc.GetCharacter(context.Background(), strangerID, privateID)
		assert.ErrorIs(t, err, character.ErrCharacterNotFound)
	})

	t.Run("public record readable anonymously", func(t *testing.T) {
		dto, err := svc.GetCharacter(context.Background(), uuid.Nil, publicID)
		require.NoError(t, err)
		assert.Equal(t, publicID, dto.ID)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := svc.GetCharacter(context.Background(), ownerID, uuid.New())
		assert.ErrorIs(t, err, character.ErrCharacterNotFound)
	})
}

func TestGetCharacters(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()

	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, nil)

	for i := 0; i < 3; i++ {
		status := character.StatusPublic
		if i == 1 {
			status = character.StatusPrivate
		}
		seedCharacter(t, repo, ownerID, status, nil)
		time.Sleep(time.Millisecond)
	}

	t.Run("owner sees everything newest first", func(t *testing.T) {
		dtos, err := svc.GetCharacters(context.Background(), ownerID, ownerID)
		require.NoError(t, err)
		require.Len(t, dtos, 3)
		for i := 1; i < len(dtos); i++ {
			assert.True(t, dtos[i-1].CreatedAt.After(dtos[i].CreatedAt) || dtos[i-1].CreatedAt.Equal(dtos[i].CreatedAt))
		}
	})

	t.Run("stranger sees public records only", func(t *testing.T) {
		dtos, err := svc.GetCharacters(context.Background(), strangerID, ownerID)
		require.NoError(t, err)
		assert.Len(t, dtos, 2)
		for _, dto := range dtos {
			assert.Equal(t, character.StatusPublic, dto.Status)
		}
	})
}

func TestHydration(t *testing.T) {
	ownerID := uuid.New()
	knownPack := uuid.New()
	brokenPack := uuid.New()

	repo := newFakeRepo()
	packs := &fakePacks{summaries: map[uuid.UUID]*character.PackSummary{
		knownPack: {ID: knownPack, Name: "Fantasy Pack", Tags: []string{"fantasy"}},
	}}
	svc, _, _ := newTestService(repo, packs)

	withPack := seedCharacter(t, repo, ownerID, character.StatusPublic, &knownPack)
	time.Sleep(time.Millisecond)
	degraded := seedCharacter(t, repo, ownerID, character.StatusPublic, &brokenPack)
	time.Sleep(time.Millisecond)
	plain := seedCharacter(t, repo, ownerID, character.StatusPublic, nil)

	dtos, err := svc.GetCharacters(context.Background(), ownerID, ownerID)
	require.NoError(t, err)
	require.Len(t, dtos, 3)

	// Newest first, one degraded record, order intact.
	assert.Equal(t, plain, dtos[0].ID)
	assert.Nil(t, dtos[0].Pack)
	assert.Equal(t, degraded, dtos[1].ID)
	assert.Nil(t, dtos[1].Pack)
	assert.Equal(t, withPack, dtos[2].ID)
	require.NotNil(t, dtos[2].Pack)
	assert.Equal(t, "Fantasy Pack", dtos[2].Pack.Name)
}

func TestListPublic(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, nil)

	ownerID := uuid.New()
	for i := 0; i < 5; i++ {
		seedCharacter(t, repo, ownerID, character.StatusPublic, nil)
		time.Sleep(time.Millisecond)
	}
	seedCharacter(t, repo, ownerID, character.StatusPrivate, nil)

	dtos, total, err := svc.ListPublic(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, dtos, 3)

	dtos, total, err = svc.ListPublic(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, dtos, 2)
}

// ========================================
// Mutations
// ========================================

func TestUpdateCharacterStatus(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()

	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, nil)
	id := seedCharacter(t, repo, ownerID, character.StatusPrivate, nil)

	t.Run("stranger denied", func(t *testing.T) {
		err := svc.UpdateCharacterStatus(context.Background(), strangerID, id, character.UpdateStatusRequest{Status: "public"})
		assert.ErrorIs(t, err, character.ErrPermissionDenied)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		err := svc.UpdateCharacterStatus(context.Background(), ownerID, id, character.UpdateStatusRequest{Status: "unlisted"})
		require.Error(t, err)
	})

	t.Run("owner publishes", func(t *testing.T) {
		err := svc.UpdateCharacterStatus(context.Background(), ownerID, id, character.UpdateStatusRequest{Status: "public"})
		require.NoError(t, err)
		assert.Equal(t, character.StatusPublic, repo.characters[id].Status)
	})
}

func TestDeleteCharacter(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()

	t.Run("stranger denied", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _, tasks := newTestService(repo, nil)
		id := seedCharacter(t, repo, ownerID, character.StatusPrivate, nil)

		err := svc.DeleteCharacter(context.Background(), strangerID, id)
		assert.ErrorIs(t, err, character.ErrPermissionDenied)
		assert.Empty(t, tasks.enqueued)
	})

	t.Run("owner delete decrements counter and enqueues cleanup", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _, tasks := newTestService(repo, nil)
		id := seedCharacter(t, repo, ownerID, character.StatusPrivate, nil)
		require.Equal(t, 1, repo.created[ownerID])

		err := svc.DeleteCharacter(context.Background(), ownerID, id)
		require.NoError(t, err)

		_, found := repo.characters[id]
		assert.False(t, found)
		assert.Equal(t, 0, repo.created[ownerID])
		require.Len(t, tasks.enqueued, 1)
		assert.Equal(t, id, tasks.enqueued[0])
	})

	t.Run("missing record", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _, _ := newTestService(repo, nil)
		err := svc.DeleteCharacter(context.Background(), ownerID, uuid.New())
		assert.ErrorIs(t, err, character.ErrCharacterNotFound)
	})
}

func TestLikeCharacter(t *testing.T) {
	ownerID := uuid.New()
	fanID := uuid.New()

	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, nil)
	publicID := seedCharacter(t, repo, ownerID, character.StatusPublic, nil)
	privateID := seedCharacter(t, repo, ownerID, character.StatusPrivate, nil)

	t.Run("like public record", func(t *testing.T) {
		require.NoError(t, svc.LikeCharacter(context.Background(), fanID, publicID))
		assert.Equal(t, 1, repo.characters[publicID].Likes)
		assert.Equal(t, 1, repo.likes[ownerID])
	})

	t.Run("unlike floors at zero", func(t *testing.T) {
		require.NoError(t, svc.UnlikeCharacter(context.Background(), fanID, publicID))
		require.NoError(t, svc.UnlikeCharacter(context.Background(), fanID, publicID))
		assert.Equal(t, 0, repo.characters[publicID].Likes)
	})

	t.Run("private record invisible to fan", func(t *testing.T) {
		err := svc.LikeCharacter(context.Background(), fanID, privateID)
		assert.ErrorIs(t, err, character.ErrCharacterNotFound)
	})
}
