package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bkozyrev/vidstream/internal/common"
	"github.com/bkozyrev/vidstream/internal/server/services"
)

func (s *Server) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, fmt.Errorf("%w: login required", common.ErrorUnauthorized))
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		s.writeError(w, fmt.Errorf("%w: expected multipart form data", common.ErrorValidation))
		return
	}

	params := services.VideoUploadParams{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if raw := r.FormValue("duration"); raw != "" {
		duration, err := strconv.ParseFloat(raw, 64)
		if err != nil || duration < 0 {
			s.writeError(w, fmt.Errorf("%w: duration must be a non-negative number", common.ErrorValidation))
			return
		}
		params.Duration = duration
	}

	thumbnail, closeThumb, err := uploadFromForm(r, "thumbnail")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if closeThumb != nil {
		defer closeThumb()
	}
	params.Thumbnail = thumbnail

	videoFile, closeVideo, err := uploadFromForm(r, "videoFile")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if closeVideo != nil {
		defer closeVideo()
	}
	params.VideoFile = videoFile

	video, err := s.videos.Upload(r.Context(), identity.UserID, params)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, http.StatusCreated, "video uploaded successfully", video)
}

func (s *Server) handleMyVideos(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, fmt.Errorf("%w: login required", common.ErrorUnauthorized))
		return
	}

	list, err := s.videos.MyVideos(r.Context(), identity.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, http.StatusOK, "videos fetched successfully", list)
}

func (s *Server) handlePlayVideo(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFrom(r.Context()); !ok {
		s.writeError(w, fmt.Errorf("%w: login required", common.ErrorUnauthorized))
		return
	}

	videoID := chi.URLParam(r, "videoId")
	if videoID == "" {
		s.writeError(w, fmt.Errorf("%w: video id is required", common.ErrorValidation))
		return
	}

	video, playbackURL, err := s.videos.Play(r.Context(), videoID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, http.StatusOK, "video fetched successfully", map[string]any{
		"video":       video,
		"playbackUrl": playbackURL,
	})
}
