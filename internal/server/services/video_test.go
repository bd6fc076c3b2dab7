package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bkozyrev/vidstream/internal/common"
	"github.com/bkozyrev/vidstream/internal/server/models"
)

type memVideosRepo struct {
	seq       int
	byID      map[string]*models.Video
	createErr error
}

func newMemVideosRepo() *memVideosRepo {
	return &memVideosRepo{byID: map[string]*models.Video{}}
}

func (m *memVideosRepo) Create(_ context.Context, video *models.Video) (*models.Video, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.seq++
	video.ID = fmt.Sprintf("v-%d", m.seq)
	video.CreatedAt = time.Now()
	video.UpdatedAt = video.CreatedAt
	m.byID[video.ID] = video
	return video, nil
}

func (m *memVideosRepo) GetByID(_ context.Context, id string) (*models.Video, error) {
	v, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *v
	return &clone, nil
}

func (m *memVideosRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.Video, error) {
	var out []*models.Video
	for _, v := range m.byID {
		if v.OwnerID == ownerID {
			clone := *v
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memVideosRepo) IncrementViews(_ context.Context, id string) (int64, error) {
	v, ok := m.byID[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	v.Views++
	return v.Views, nil
}

func newVideoServiceForTest(t *testing.T) (*VideoService, *memVideosRepo, *fakeMedia) {
	t.Helper()
	repo := newMemVideosRepo()
	media := &fakeMedia{}
	return NewVideoService(repo, media, testLogger()), repo, media
}

func uploadParams() VideoUploadParams {
	return VideoUploadParams{
		Title:       "My first video",
		Description: "A short clip.",
		Duration:    12.5,
		Thumbnail:   &Upload{Body: strings.NewReader("thumb"), ContentType: "image/png"},
		VideoFile:   &Upload{Body: strings.NewReader("vid"), ContentType: "video/mp4"},
	}
}

func TestVideoUpload_Success(t *testing.T) {
	s, repo, _ := newVideoServiceForTest(t)

	v, err := s.Upload(context.Background(), "u-1", uploadParams())
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if v.ID == "" || v.OwnerID != "u-1" {
		t.Fatalf("unexpected video: %+v", v)
	}
	stored := repo.byID[v.ID]
	if stored.Thumbnail == "" || stored.VideoFile == "" || stored.ThumbnailKey == "" || stored.VideoFileKey == "" {
		t.Fatalf("media fields not persisted: %+v", stored)
	}
}

func TestVideoUpload_MissingFiles(t *testing.T) {
	s, _, _ := newVideoServiceForTest(t)

	p := uploadParams()
	p.VideoFile = nil
	_, err := s.Upload(context.Background(), "u-1", p)
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected common.ErrorValidation, got %v", err)
	}

	p = uploadParams()
	p.Thumbnail = nil
	_, err = s.Upload(context.Background(), "u-1", p)
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected common.ErrorValidation, got %v", err)
	}
}

func TestVideoUpload_TitleValidation(t *testing.T) {
	s, _, _ := newVideoServiceForTest(t)

	p := uploadParams()
	p.Title = strings.Repeat("x", 101)
	_, err := s.Upload(context.Background(), "u-1", p)
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected common.ErrorValidation, got %v", err)
	}
}

func TestVideoUpload_InsertFailureDiscardsUploads(t *testing.T) {
	s, repo, media := newVideoServiceForTest(t)
	repo.createErr = errors.New("db down")

	_, err := s.Upload(context.Background(), "u-1", uploadParams())
	if err == nil {
		t.Fatal("expected error when insert fails")
	}
	if len(media.deleted) != 2 {
		t.Fatalf("uploaded objects not discarded: %+v", media.deleted)
	}
}

func TestMyVideos(t *testing.T) {
	s, _, _ := newVideoServiceForTest(t)

	if _, err := s.Upload(context.Background(), "u-1", uploadParams()); err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if _, err := s.Upload(context.Background(), "u-2", uploadParams()); err != nil {
		t.Fatalf("Upload error: %v", err)
	}

	mine, err := s.MyVideos(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("MyVideos error: %v", err)
	}
	if len(mine) != 1 || mine[0].OwnerID != "u-1" {
		t.Fatalf("unexpected listing: %+v", mine)
	}
}

func TestPlay_PresignsAndCountsView(t *testing.T) {
	s, repo, _ := newVideoServiceForTest(t)

	v, err := s.Upload(context.Background(), "u-1", uploadParams())
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}

	got, url, err := s.Play(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("Play error: %v", err)
	}
	if got.ID != v.ID {
		t.Fatalf("unexpected video: %+v", got)
	}
	if !strings.Contains(url, got.VideoFileKey) {
		t.Fatalf("playback url not derived from the stored object: %q", url)
	}
	if repo.byID[v.ID].Views != 1 {
		t.Fatalf("view not counted: %+v", repo.byID[v.ID])
	}
}

func TestPlay_UnknownVideo(t *testing.T) {
	s, _, _ := newVideoServiceForTest(t)

	_, _, err := s.Play(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}
