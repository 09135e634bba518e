package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"charaforge-backend/internal/domains/character"
	"charaforge-backend/pkg/cache"
	"charaforge-backend/pkg/database"
)

const (
	publicListCacheKeyFmt  = "characters:public:%d:%d"
	publicListCachePattern = "characters:public:*"
	publicListCacheTTL     = 2 * time.Minute
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a character repository backed by Postgres
// with a cache-aside layer over the public listing.
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) character.Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

// Create inserts the character and bumps the owner's characters_created
// inside one transaction. The stats row is upserted so a first-time
// creator does not need a pre-existing row. The id is caller-assigned;
// created_at comes from the database clock.
func (r *postgresRepository) Create(ctx context.Context, ch *character.Character) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO characters (id, name, description, biography, image_url, user_id, user_name, status, data_pack_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			RETURNING created_at`

		err := tx.QueryRow(ctx, query,
			ch.ID, ch.Name, ch.Description, ch.Biography, ch.ImageURL,
			ch.UserID, ch.UserName, ch.Status, ch.DataPackID,
		).Scan(&ch.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert character: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_stats (user_id, characters_created)
			VALUES ($1, 1)
			ON CONFLICT (user_id)
			DO UPDATE SET characters_created = user_stats.characters_created + 1`,
			ch.UserID)
		if err != nil {
			return fmt.Errorf("failed to increment creation counter: %w", err)
		}

		return nil
	})
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*character.Character, error) {
	query := `
		SELECT id, name, description, biography, image_url, user_id, user_name, status, likes, data_pack_id, created_at
		FROM characters
		WHERE id = $1`

	ch := &character.Character{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ch.ID, &ch.Name, &ch.Description, &ch.Biography, &ch.ImageURL,
		&ch.UserID, &ch.UserName, &ch.Status, &ch.Likes, &ch.DataPackID, &ch.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, character.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to find character: %w", err)
	}

	return ch, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]character.Character, error) {
	query := `
		SELECT id, name, description, biography, image_url, user_id, user_name, status, likes, data_pack_id, created_at
		FROM characters
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	return scanCharacters(rows)
}

func (r *postgresRepository) ListPublic(ctx context.Context, limit, offset int) ([]character.Character, int, error) {
	cacheKey := fmt.Sprintf(publicListCacheKeyFmt, limit, offset)

	var cached publicPage
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return cached.Items, cached.Total, nil
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM characters WHERE status = 'public'`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count public characters: %w", err)
	}

	query := `
		SELECT id, name, description, biography, image_url, user_id, user_name, status, likes, data_pack_id, created_at
		FROM characters
		WHERE status = 'public'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list public characters: %w", err)
	}
	defer rows.Close()

	items, err := scanCharacters(rows)
	if err != nil {
		return nil, 0, err
	}

	_ = r.cache.Set(ctx, cacheKey, publicPage{Items: items, Total: total}, publicListCacheTTL)

	return items, total, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status character.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE characters SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return character.ErrCharacterNotFound
	}

	// Visibility changed, the public listing is stale.
	_ = r.cache.DeletePattern(ctx, publicListCachePattern)

	return nil
}

// Delete removes the character and decrements the owner's
// characters_created in the same transaction, mirroring Create. The
// counter floors at zero so a drifted counter cannot go negative.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var ownerID uuid.UUID
		err := tx.QueryRow(ctx,
			`DELETE FROM characters WHERE id = $1 RETURNING user_id`, id).Scan(&ownerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return character.ErrCharacterNotFound
			}
			return fmt.Errorf("failed to delete character: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE user_stats
			SET characters_created = GREATEST(characters_created - 1, 0)
			WHERE user_id = $1`,
			ownerID)
		if err != nil {
			return fmt.Errorf("failed to decrement creation counter: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	_ = r.cache.DeletePattern(ctx, publicListCachePattern)

	return nil
}

func (r *postgresRepository) AddLike(ctx context.Context, id uuid.UUID) error {
	return r.adjustLikes(ctx, id, +1)
}

func (r *postgresRepository) RemoveLike(ctx context.Context, id uuid.UUID) error {
	return r.adjustLikes(ctx, id, -1)
}

func (r *postgresRepository) adjustLikes(ctx context.Context, id uuid.UUID, delta int) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var ownerID uuid.UUID
		err := tx.QueryRow(ctx, `
			UPDATE characters
			SET likes = GREATEST(likes + $1, 0)
			WHERE id = $2
			RETURNING user_id`,
			delta, id).Scan(&ownerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return character.ErrCharacterNotFound
			}
			return fmt.Errorf("failed to adjust likes: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE user_stats
			SET total_likes = GREATEST(total_likes + $1, 0)
			WHERE user_id = $2`,
			delta, ownerID)
		if err != nil {
			return fmt.Errorf("failed to adjust owner like counter: %w", err)
		}

		return nil
	})
}

func (r *postgresRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM characters WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count characters: %w", err)
	}
	return count, nil
}

// publicPage is the cached shape of one public-listing page.
type publicPage struct {
	Items []character.Character `json:"items"`
	Total int                   `json:"total"`
}

func scanCharacters(rows pgx.Rows) ([]character.Character, error) {
	characters := []character.Character{}
	for rows.Next() {
		var ch character.Character
		err := rows.Scan(
			&ch.ID, &ch.Name, &ch.Description, &ch.Biography, &ch.ImageURL,
			&ch.UserID, &ch.UserName, &ch.Status, &ch.Likes, &ch.DataPackID, &ch.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		characters = append(characters, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate characters: %w", err)
	}

	return characters, nil
}
