package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bkozyrev/vidstream/internal/common"
	"github.com/bkozyrev/vidstream/internal/logging"
	"github.com/bkozyrev/vidstream/internal/server/auth"
	"github.com/bkozyrev/vidstream/internal/server/config"
	"github.com/bkozyrev/vidstream/internal/server/models"
	"github.com/bkozyrev/vidstream/internal/server/repositories/users"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterParams carries the registration input. Avatar and CoverImage are
// optional uploads.
type RegisterParams struct {
	Username   string
	FullName   string
	Email      string
	Password   string
	Avatar     *Upload
	CoverImage *Upload
}

// AuthService implements the authentication flows:
//   - Register / Login / Logout
//   - Refresh: refresh-token rotation against the stored single-slot token
//   - ChangePassword, CurrentUser, avatar and cover image management
type AuthService struct {
	users         users.Repository
	media         MediaStore
	logger        logging.Logger
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(repo users.Repository, media MediaStore, logger logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		users:         repo,
		media:         media,
		logger:        logger.With("module", "auth_service"),
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessExpiry:  cfg.AccessTokenExpiry,
		refreshExpiry: cfg.RefreshTokenExpiry,
	}
}

// Register creates a new identity record. The password is hashed before
// anything is persisted, and nothing is written until every check has passed.
// There is no auto-login.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	username := normalize(p.Username)
	email := normalize(p.Email)
	fullName := strings.TrimSpace(p.FullName)
	password := strings.TrimSpace(p.Password)

	if username == "" || fullName == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateFullName(fullName); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword("password", password); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, username, email)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if exists {
		return nil, fmt.Errorf("%w: email or username already exist", common.ErrorAlreadyExists)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	}

	var uploadedKeys []string
	if p.Avatar != nil {
		key, url, err := s.media.Put(ctx, *p.Avatar)
		if err != nil {
			return nil, common.ErrorInternal
		}
		user.Avatar, user.AvatarKey = url, key
		uploadedKeys = append(uploadedKeys, key)
	}
	if p.CoverImage != nil {
		key, url, err := s.media.Put(ctx, *p.CoverImage)
		if err != nil {
			s.discardUploads(ctx, uploadedKeys)
			return nil, common.ErrorInternal
		}
		user.CoverImage, user.CoverImageKey = url, key
		uploadedKeys = append(uploadedKeys, key)
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		s.discardUploads(ctx, uploadedKeys)
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: email or username already exist", common.ErrorAlreadyExists)
		}
		return nil, common.ErrorInternal
	}

	return sanitize(created), nil
}

// Login verifies credentials, mints a token pair, and persists the refresh
// token as the user's current one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = normalize(email)
	password = strings.TrimSpace(password)

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword("password", password); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: account does not exist with this email", common.ErrorNotFound)
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrWrongPassword
	}

	pair, err := s.mintPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// Logout clears the stored refresh token, invalidating every previously
// issued refresh token for this identity.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	err := s.users.ClearRefreshToken(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return common.ErrorInternal
	}
	return nil
}

// Refresh validates a presented refresh token, requires exact equality with
// the stored slot, and rotates: the new token is persisted with a
// compare-and-swap against the presented one, so a concurrent refresh for the
// same identity cannot also win.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	claims, err := auth.ParseRefreshToken(presented, s.refreshSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user not found for this refresh token", common.ErrorNotFound)
		}
		return nil, common.ErrorInternal
	}

	if user.RefreshToken == "" || user.RefreshToken != presented {
		return nil, common.ErrInvalidToken
	}

	pair, err := s.mintPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.SwapRefreshToken(ctx, user.ID, presented, pair.RefreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Slot rotated between read and write: a concurrent refresh won.
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	return pair, nil
}

// ChangePassword verifies the old password and re-hashes the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	oldPassword = strings.TrimSpace(oldPassword)
	newPassword = strings.TrimSpace(newPassword)

	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	}
	if err := validatePassword("old password", oldPassword); err != nil {
		return err
	}
	if err := validatePassword("new password", newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: user not found while changing password", common.ErrorNotFound)
		}
		return common.ErrorInternal
	}

	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		return fmt.Errorf("%w: incorrect old password", common.ErrorValidation)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return common.ErrorInternal
	}

	return nil
}

// CurrentUser returns the caller's record with secret fields excluded.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user not found", common.ErrorNotFound)
		}
		return nil, common.ErrorInternal
	}
	return sanitize(user), nil
}

// UpdateAvatar replaces the user's avatar: the old object is removed from the
// media store, the new one uploaded, and the record updated.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID string, upload Upload) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return s.notFoundOrInternal(err)
	}

	if user.AvatarKey != "" {
		if err := s.media.Delete(ctx, user.AvatarKey); err != nil {
			return common.ErrorInternal
		}
	}

	key, url, err := s.media.Put(ctx, upload)
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.users.UpdateAvatar(ctx, userID, url, key); err != nil {
		s.discardUploads(ctx, []string{key})
		return common.ErrorInternal
	}

	return nil
}

// DeleteAvatar removes the user's avatar object and resets the record.
func (s *AuthService) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return s.notFoundOrInternal(err)
	}

	if user.AvatarKey == "" {
		return fmt.Errorf("%w: user has no avatar to delete", common.ErrorValidation)
	}

	if err := s.media.Delete(ctx, user.AvatarKey); err != nil {
		return common.ErrorInternal
	}

	if err := s.users.UpdateAvatar(ctx, userID, "", ""); err != nil {
		return common.ErrorInternal
	}

	return nil
}

// UpdateCoverImage mirrors UpdateAvatar for the cover image.
func (s *AuthService) UpdateCoverImage(ctx context.Context, userID string, upload Upload) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return s.notFoundOrInternal(err)
	}

	if user.CoverImageKey != "" {
		if err := s.media.Delete(ctx, user.CoverImageKey); err != nil {
			return common.ErrorInternal
		}
	}

	key, url, err := s.media.Put(ctx, upload)
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.users.UpdateCoverImage(ctx, userID, url, key); err != nil {
		s.discardUploads(ctx, []string{key})
		return common.ErrorInternal
	}

	return nil
}

// DeleteCoverImage mirrors DeleteAvatar for the cover image.
func (s *AuthService) DeleteCoverImage(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return s.notFoundOrInternal(err)
	}

	if user.CoverImageKey == "" {
		return fmt.Errorf("%w: user has no cover image to delete", common.ErrorValidation)
	}

	if err := s.media.Delete(ctx, user.CoverImageKey); err != nil {
		return common.ErrorInternal
	}

	if err := s.users.UpdateCoverImage(ctx, userID, "", ""); err != nil {
		return common.ErrorInternal
	}

	return nil
}

// --- helpers below ---

func (s *AuthService) mintPair(user *models.User) (*TokenPair, error) {
	access, err := auth.IssueAccessToken(user, s.accessSecret, s.accessExpiry)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := auth.IssueRefreshToken(user.ID, s.refreshSecret, s.refreshExpiry)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) notFoundOrInternal(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: user not found", common.ErrorNotFound)
	}
	return common.ErrorInternal
}

// discardUploads removes objects uploaded before a failed write, keeping the
// store consistent with the record. Best effort.
func (s *AuthService) discardUploads(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.media.Delete(ctx, key); err != nil {
			s.logger.Warn(ctx, "failed to discard uploaded object", "key", key, "error", err)
		}
	}
}

func sanitize(user *models.User) *models.User {
	clean := *user
	clean.PasswordHash = ""
	clean.RefreshToken = ""
	return &clean
}
