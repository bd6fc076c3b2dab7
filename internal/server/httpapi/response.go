package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bkozyrev/vidstream/internal/common"
)

// ApiResponse is the envelope every endpoint answers with.
type ApiResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func (s *Server) writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	s.writeJSON(w, status, ApiResponse{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// writeError maps the service sentinels onto HTTP status codes. The error
// text is the message, so wrapped detail like "account does not exist with
// this email" reaches the client as is.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrAlreadyLoggedIn):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrorAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, common.ErrWrongPassword),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrAccessTokenValid),
		errors.Is(err, common.ErrorUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrRefreshTokenAbsent):
		status = http.StatusNotFound
	default:
		message = "internal server error"
	}

	s.writeJSON(w, status, ApiResponse{
		Success:    false,
		StatusCode: status,
		Message:    message,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error(context.Background(), "failed to encode response", "error", err)
	}
}
