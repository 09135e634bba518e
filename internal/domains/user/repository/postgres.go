package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"charaforge-backend/internal/domains/user"
	"charaforge-backend/pkg/database"
)

const pgUniqueViolation = "23505"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

// Create inserts the account and its empty stats row together, so the
// stats upsert on first character create is a pure fast path.
func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO users (id, email, password_hash, display_name, role, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
			RETURNING created_at, updated_at`

		err := tx.QueryRow(ctx, query,
			u.ID, u.Email, u.PasswordHash, u.DisplayName, u.Role,
		).Scan(&u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return user.ErrEmailAlreadyExists
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_stats (user_id, characters_created, total_likes, followers, following)
			VALUES ($1, 0, 0, 0, 0)`,
			u.ID)
		if err != nil {
			return fmt.Errorf("failed to seed user stats: %w", err)
		}

		return nil
	})
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findBy(ctx, "id = $1", id)
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findBy(ctx, "email = $1", email)
}

func (r *postgresRepository) findBy(ctx context.Context, where string, arg interface{}) (*user.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, display_name, role, is_active, created_at, updated_at
		FROM users
		WHERE %s`, where)

	u := &user.User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return u, nil
}

func (r *postgresRepository) UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET display_name = $1, updated_at = NOW() WHERE id = $2`,
		displayName, id)
	if err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) GetStats(ctx context.Context, userID uuid.UUID) (*user.Stats, error) {
	query := `
		SELECT s.user_id, s.characters_created, s.total_likes, s.followers, s.following, u.created_at,
		       COALESCE(array_agg(p.pack_id) FILTER (WHERE p.pack_id IS NOT NULL), '{}')
		FROM user_stats s
		JOIN users u ON u.id = s.user_id
		LEFT JOIN user_packs p ON p.user_id = s.user_id
		WHERE s.user_id = $1
		GROUP BY s.user_id, s.characters_created, s.total_likes, s.followers, s.following, u.created_at`

	stats := &user.Stats{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.UserID, &stats.CharactersCreated, &stats.TotalLikes,
		&stats.Followers, &stats.Following, &stats.MemberSince, &stats.InstalledPacks,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user stats: %w", err)
	}

	return stats, nil
}

func (r *postgresRepository) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO follows (follower_id, followee_id, created_at)
			VALUES ($1, $2, NOW())`,
			followerID, followeeID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return user.ErrAlreadyFollowing
			}
			return fmt.Errorf("failed to insert follow edge: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE user_stats SET following = following + 1 WHERE user_id = $1`,
			followerID); err != nil {
			return fmt.Errorf("failed to bump following counter: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE user_stats SET followers = followers + 1 WHERE user_id = $1`,
			followeeID); err != nil {
			return fmt.Errorf("failed to bump followers counter: %w", err)
		}

		return nil
	})
}

func (r *postgresRepository) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
			followerID, followeeID)
		if err != nil {
			return fmt.Errorf("failed to delete follow edge: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return user.ErrNotFollowing
		}

		if _, err := tx.Exec(ctx, `
			UPDATE user_stats SET following = GREATEST(following - 1, 0) WHERE user_id = $1`,
			followerID); err != nil {
			return fmt.Errorf("failed to drop following counter: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE user_stats SET followers = GREATEST(followers - 1, 0) WHERE user_id = $1`,
			followeeID); err != nil {
			return fmt.Errorf("failed to drop followers counter: %w", err)
		}

		return nil
	})
}

func (r *postgresRepository) InstallPack(ctx context.Context, userID, packID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_packs (user_id, pack_id, installed_at)
		VALUES ($1, $2, NOW())`,
		userID, packID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return user.ErrPackAlreadyOwned
		}
		return fmt.Errorf("failed to install pack: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListStatsUserIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM user_stats ORDER BY user_id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stats rows: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *postgresRepository) GetCharactersCreated(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT characters_created FROM user_stats WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, user.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) SetCharactersCreated(ctx context.Context, userID uuid.UUID, count int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE user_stats SET characters_created = $1 WHERE user_id = $2`,
		count, userID)
	if err != nil {
		return fmt.Errorf("failed to set counter: %w", err)
	}
	return nil
}
