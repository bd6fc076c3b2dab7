package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bkozyrev/vidstream/internal/common"
	"github.com/bkozyrev/vidstream/internal/logging"
	"github.com/bkozyrev/vidstream/internal/server/models"
	"github.com/bkozyrev/vidstream/internal/server/repositories/videos"
)

// VideoUploadParams carries the input of a video upload. Both files are
// required; Duration is reported by the client (seconds).
type VideoUploadParams struct {
	Title       string
	Description string
	Duration    float64
	Thumbnail   *Upload
	VideoFile   *Upload
}

// VideoService manages video metadata and the underlying media objects.
type VideoService struct {
	videos videos.Repository
	media  MediaStore
	logger logging.Logger
}

func NewVideoService(repo videos.Repository, media MediaStore, logger logging.Logger) *VideoService {
	return &VideoService{
		videos: repo,
		media:  media,
		logger: logger.With("module", "video_service"),
	}
}

// Upload stores both media objects and then inserts the metadata row.
// If the insert fails, the uploaded objects are discarded.
func (s *VideoService) Upload(ctx context.Context, ownerID string, p VideoUploadParams) (*models.Video, error) {
	title := strings.TrimSpace(p.Title)
	description := strings.TrimSpace(p.Description)

	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	}
	if err := validateVideoTitle(title); err != nil {
		return nil, err
	}
	if err := validateVideoDescription(description); err != nil {
		return nil, err
	}
	if p.Thumbnail == nil || p.VideoFile == nil {
		return nil, fmt.Errorf("%w: both thumbnail and video file are required", common.ErrorValidation)
	}

	thumbKey, thumbURL, err := s.media.Put(ctx, *p.Thumbnail)
	if err != nil {
		return nil, common.ErrorInternal
	}

	videoKey, videoURL, err := s.media.Put(ctx, *p.VideoFile)
	if err != nil {
		s.discard(ctx, thumbKey)
		return nil, common.ErrorInternal
	}

	video := &models.Video{
		OwnerID:      ownerID,
		Title:        title,
		Description:  description,
		Thumbnail:    thumbURL,
		ThumbnailKey: thumbKey,
		VideoFile:    videoURL,
		VideoFileKey: videoKey,
		Duration:     p.Duration,
		IsPublished:  true,
	}

	created, err := s.videos.Create(ctx, video)
	if err != nil {
		s.discard(ctx, thumbKey, videoKey)
		return nil, common.ErrorInternal
	}

	return created, nil
}

// MyVideos lists the caller's videos, newest first.
func (s *VideoService) MyVideos(ctx context.Context, ownerID string) ([]*models.Video, error) {
	list, err := s.videos.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Play returns the video's metadata together with a short-lived playback URL
// and bumps the view counter.
func (s *VideoService) Play(ctx context.Context, videoID string) (*models.Video, string, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", fmt.Errorf("%w: video not found", common.ErrorNotFound)
		}
		return nil, "", common.ErrorInternal
	}

	playbackURL, err := s.media.PresignGet(ctx, video.VideoFileKey)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	views, err := s.videos.IncrementViews(ctx, videoID)
	if err != nil {
		return nil, "", common.ErrorInternal
	}
	video.Views = views

	return video, playbackURL, nil
}

func (s *VideoService) discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.media.Delete(ctx, key); err != nil {
			s.logger.Warn(ctx, "failed to discard uploaded object", "key", key, "error", err)
		}
	}
}
