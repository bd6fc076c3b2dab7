// Package users declares the repository contract for the persisted identity
// records backing the authentication flows.
package users

import (
	"context"

	"github.com/bkozyrev/vidstream/internal/server/models"
)

// Repository defines storage operations over identity records. The refresh
// token is a single slot per user: Set overwrites it, Swap replaces it only
// when the stored value still equals old (refresh rotation), Clear empties it.
type Repository interface {
	// Create inserts a new user and returns it with the assigned id.
	// A duplicate username or email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// Exists reports whether a user with the given username or email exists.
	Exists(ctx context.Context, username, email string) (bool, error)

	// GetByEmail returns the user with the given email, or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// SetRefreshToken stores token as the user's current refresh token.
	SetRefreshToken(ctx context.Context, id, token string) error

	// SwapRefreshToken replaces the stored refresh token with new only if it
	// still equals old. When the slot has moved on, common.ErrorNotFound is
	// returned and nothing is written.
	SwapRefreshToken(ctx context.Context, id, old, new string) error

	// ClearRefreshToken empties the user's refresh token slot.
	ClearRefreshToken(ctx context.Context, id string) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// UpdateAvatar stores the avatar URL and storage key ("" values reset).
	UpdateAvatar(ctx context.Context, id, url, key string) error

	// UpdateCoverImage stores the cover image URL and storage key ("" values reset).
	UpdateCoverImage(ctx context.Context, id, url, key string) error
}
