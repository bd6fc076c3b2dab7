// Package videos declares the repository contract for video metadata.
package videos

import (
	"context"

	"github.com/bkozyrev/vidstream/internal/server/models"
)

type Repository interface {
	// Create inserts a new video row and returns it with the assigned id.
	Create(ctx context.Context, video *models.Video) (*models.Video, error)

	// GetByID returns the video with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Video, error)

	// ListByOwner returns the owner's videos, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Video, error)

	// IncrementViews bumps the view counter and returns the new count.
	IncrementViews(ctx context.Context, id string) (int64, error)
}
