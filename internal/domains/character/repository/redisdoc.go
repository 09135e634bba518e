package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"charaforge-backend/internal/domains/character"
)

// Key layout of the legacy document store:
//
//	character:<id>          JSON document
//	characters:user:<uid>   sorted set of ids, score = created_at (unix nano)
//	characters:public       sorted set of public ids, same score
//	user:stats:<uid>        hash with characters_created / total_likes
const (
	docKeyFmt       = "character:%s"
	userIndexKeyFmt = "characters:user:%s"
	publicIndexKey  = "characters:public"
	statsKeyFmt     = "user:stats:%s"

	statsFieldCreated = "characters_created"
	statsFieldLikes   = "total_likes"
)

type redisDocRepository struct {
	client *redis.Client
}

// NewRedisDocRepository creates a character repository over the legacy
// Redis document layout. All writes that touch a document and a counter
// go through MULTI/EXEC so they apply together.
func NewRedisDocRepository(client *redis.Client) character.Repository {
	return &redisDocRepository{client: client}
}

func (r *redisDocRepository) Create(ctx context.Context, ch *character.Character) error {
	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	ch.CreatedAt = time.Now().UTC()

	doc, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("failed to encode character document: %w", err)
	}

	score := float64(ch.CreatedAt.UnixNano())
	member := ch.ID.String()

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(docKeyFmt, ch.ID), doc, 0)
		pipe.ZAdd(ctx, fmt.Sprintf(userIndexKeyFmt, ch.UserID), redis.Z{Score: score, Member: member})
		if ch.Status == character.StatusPublic {
			pipe.ZAdd(ctx, publicIndexKey, redis.Z{Score: score, Member: member})
		}
		pipe.HIncrBy(ctx, fmt.Sprintf(statsKeyFmt, ch.UserID), statsFieldCreated, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store character document: %w", err)
	}

	return nil
}

func (r *redisDocRepository) FindByID(ctx context.Context, id uuid.UUID) (*character.Character, error) {
	raw, err := r.client.Get(ctx, fmt.Sprintf(docKeyFmt, id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, character.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to read character document: %w", err)
	}

	ch := &character.Character{}
	if err := json.Unmarshal([]byte(raw), ch); err != nil {
		return nil, fmt.Errorf("failed to decode character document: %w", err)
	}

	return ch, nil
}

func (r *redisDocRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]character.Character, error) {
	ids, err := r.client.ZRevRange(ctx, fmt.Sprintf(userIndexKeyFmt, userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read user index: %w", err)
	}

	return r.fetchDocuments(ctx, ids)
}

func (r *redisDocRepository) ListPublic(ctx context.Context, limit, offset int) ([]character.Character, int, error) {
	total, err := r.client.ZCard(ctx, publicIndexKey).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to size public index: %w", err)
	}

	stop := int64(offset + limit - 1)
	ids, err := r.client.ZRevRange(ctx, publicIndexKey, int64(offset), stop).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read public index: %w", err)
	}

	items, err := r.fetchDocuments(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	return items, int(total), nil
}

func (r *redisDocRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status character.Status) error {
	ch, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ch.Status = status
	doc, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("failed to encode character document: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(docKeyFmt, id), doc, 0)
		if status == character.StatusPublic {
			pipe.ZAdd(ctx, publicIndexKey, redis.Z{
				Score:  float64(ch.CreatedAt.UnixNano()),
				Member: id.String(),
			})
		} else {
			pipe.ZRem(ctx, publicIndexKey, id.String())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update character status: %w", err)
	}

	return nil
}

func (r *redisDocRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ch, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	statsKey := fmt.Sprintf(statsKeyFmt, ch.UserID)

	var created *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, fmt.Sprintf(docKeyFmt, id))
		pipe.ZRem(ctx, fmt.Sprintf(userIndexKeyFmt, ch.UserID), id.String())
		pipe.ZRem(ctx, publicIndexKey, id.String())
		created = pipe.HIncrBy(ctx, statsKey, statsFieldCreated, -1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete character document: %w", err)
	}

	// HIncrBy has no floor; clamp a drifted counter back to zero.
	if created.Val() < 0 {
		_ = r.client.HSet(ctx, statsKey, statsFieldCreated, 0).Err()
	}

	return nil
}

func (r *redisDocRepository) AddLike(ctx context.Context, id uuid.UUID) error {
	return r.adjustLikes(ctx, id, +1)
}

func (r *redisDocRepository) RemoveLike(ctx context.Context, id uuid.UUID) error {
	return r.adjustLikes(ctx, id, -1)
}

func (r *redisDocRepository) adjustLikes(ctx context.Context, id uuid.UUID, delta int) error {
	ch, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ch.Likes += delta
	if ch.Likes < 0 {
		ch.Likes = 0
	}

	doc, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("failed to encode character document: %w", err)
	}

	statsKey := fmt.Sprintf(statsKeyFmt, ch.UserID)

	var likes *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(docKeyFmt, id), doc, 0)
		likes = pipe.HIncrBy(ctx, statsKey, statsFieldLikes, int64(delta))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to adjust likes: %w", err)
	}

	if likes.Val() < 0 {
		_ = r.client.HSet(ctx, statsKey, statsFieldLikes, 0).Err()
	}

	return nil
}

func (r *redisDocRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := r.client.ZCard(ctx, fmt.Sprintf(userIndexKeyFmt, userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count characters: %w", err)
	}
	return int(count), nil
}

// fetchDocuments resolves index members to documents, skipping entries
// whose document has expired or been removed out of band.
func (r *redisDocRepository) fetchDocuments(ctx context.Context, ids []string) ([]character.Character, error) {
	characters := []character.Character{}
	if len(ids) == 0 {
		return characters, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf(docKeyFmt, id)
	}

	raws, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read character documents: %w", err)
	}

	for _, raw := range raws {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var ch character.Character
		if err := json.Unmarshal([]byte(str), &ch); err != nil {
			continue
		}
		characters = append(characters, ch)
	}

	return characters, nil
}
