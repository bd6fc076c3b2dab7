package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bkozyrev/vidstream/internal/common"
	"github.com/bkozyrev/vidstream/internal/dbx"
	"github.com/bkozyrev/vidstream/internal/server/models"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, full_name, password_hash, refresh_token,
		avatar, avatar_key, cover_image, cover_image_key, created_at`

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.PasswordHash, &user.RefreshToken,
		&user.Avatar, &user.AvatarKey, &user.CoverImage, &user.CoverImageKey,
		&user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, full_name, password_hash,
			avatar, avatar_key, cover_image, cover_image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.FullName, user.PasswordHash,
		user.Avatar, user.AvatarKey, user.CoverImage, user.CoverImageKey).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE username = $1 OR email = $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	return r.execOne(ctx, `UPDATE users SET refresh_token = $2 WHERE id = $1`, id, token)
}

// SwapRefreshToken is the rotation write: the WHERE clause makes the
// compare-and-swap atomic, so two concurrent refreshes for the same user
// cannot both succeed.
func (r *PostgresRepository) SwapRefreshToken(ctx context.Context, id, old, new string) error {
	return r.execOne(ctx,
		`UPDATE users SET refresh_token = $3 WHERE id = $1 AND refresh_token = $2`,
		id, old, new)
}

func (r *PostgresRepository) ClearRefreshToken(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE users SET refresh_token = '' WHERE id = $1`, id)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.execOne(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id, url, key string) error {
	return r.execOne(ctx, `UPDATE users SET avatar = $2, avatar_key = $3 WHERE id = $1`, id, url, key)
}

func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, id, url, key string) error {
	return r.execOne(ctx, `UPDATE users SET cover_image = $2, cover_image_key = $3 WHERE id = $1`, id, url, key)
}

// execOne runs an UPDATE that must touch exactly one row; zero rows means the
// target (user, or user+expected token) was not there.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
