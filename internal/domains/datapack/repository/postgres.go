package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"charaforge-backend/internal/domains/datapack"
	"charaforge-backend/pkg/cache"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	packCacheKeyFmt = "datapack:%s"
	packCacheTTL    = 10 * time.Minute
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a pack repository with cache-aside reads
// on single-pack lookups; packs change rarely but get hydrated often.
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) datapack.Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

func (r *postgresRepository) Create(ctx context.Context, p *datapack.DataPack) error {
	query := `
		INSERT INTO data_packs (id, name, description, tags, fields, prompt_template, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Tags, p.Fields, p.PromptTemplate, p.Price,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return datapack.ErrNameTaken
		}
		return fmt.Errorf("failed to insert data pack: %w", err)
	}

	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*datapack.DataPack, error) {
	cacheKey := fmt.Sprintf(packCacheKeyFmt, id)

	cached := &datapack.DataPack{}
	if found, err := r.cache.Get(ctx, cacheKey, cached); err == nil && found {
		return cached, nil
	}

	query := `
		SELECT id, name, description, tags, fields, prompt_template, price, created_at, updated_at
		FROM data_packs
		WHERE id = $1`

	p := &datapack.DataPack{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Tags, &p.Fields,
		&p.PromptTemplate, &p.Price, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, datapack.ErrPackNotFound
		}
		return nil, fmt.Errorf("failed to find data pack: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, p, packCacheTTL)

	return p, nil
}

func (r *postgresRepository) List(ctx context.Context, limit, offset int) ([]datapack.DataPack, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM data_packs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count data packs: %w", err)
	}

	query := `
		SELECT id, name, description, tags, fields, prompt_template, price, created_at, updated_at
		FROM data_packs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list data packs: %w", err)
	}
	defer rows.Close()

	packs := []datapack.DataPack{}
	for rows.Next() {
		var p datapack.DataPack
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Tags, &p.Fields,
			&p.PromptTemplate, &p.Price, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan data pack: %w", err)
		}
		packs = append(packs, p)
	}

	return packs, total, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, p *datapack.DataPack) error {
	query := `
		UPDATE data_packs
		SET name = $1, description = $2, tags = $3, fields = $4, prompt_template = $5, price = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.Name, p.Description, p.Tags, p.Fields, p.PromptTemplate, p.Price, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return datapack.ErrPackNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return datapack.ErrNameTaken
		}
		return fmt.Errorf("failed to update data pack: %w", err)
	}

	_ = r.cache.Delete(ctx, fmt.Sprintf(packCacheKeyFmt, p.ID))

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM data_packs WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return datapack.ErrPackInUse
		}
		return fmt.Errorf("failed to delete data pack: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return datapack.ErrPackNotFound
	}

	_ = r.cache.Delete(ctx, fmt.Sprintf(packCacheKeyFmt, id))

	return nil
}
