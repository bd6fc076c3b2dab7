package videos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bkozyrev/vidstream/internal/common"
	"github.com/bkozyrev/vidstream/internal/dbx"
	"github.com/bkozyrev/vidstream/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const videoColumns = `id, owner_id, title, description, thumbnail, thumbnail_key,
		video_file, video_file_key, duration, views, is_published, created_at, updated_at`

func scanVideo(scan func(dest ...any) error) (*models.Video, error) {
	v := &models.Video{}
	err := scan(&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.Thumbnail, &v.ThumbnailKey,
		&v.VideoFile, &v.VideoFileKey, &v.Duration, &v.Views, &v.IsPublished,
		&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) Create(ctx context.Context, video *models.Video) (*models.Video, error) {
	query := `
		INSERT INTO videos (owner_id, title, description, thumbnail, thumbnail_key,
			video_file, video_file_key, duration, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, views, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		video.OwnerID, video.Title, video.Description, video.Thumbnail, video.ThumbnailKey,
		video.VideoFile, video.VideoFileKey, video.Duration, video.IsPublished).
		Scan(&video.ID, &video.Views, &video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return video, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanVideo(row.Scan)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Video
	for rows.Next() {
		v, err := scanVideo(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	query := `UPDATE videos SET views = views + 1, updated_at = now() WHERE id = $1 RETURNING views`

	var views int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&views); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return views, nil
}
