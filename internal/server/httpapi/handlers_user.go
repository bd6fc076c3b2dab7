package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bkozyrev/vidstream/internal/common"
	"github.com/bkozyrev/vidstream/internal/server/services"
)

const maxMultipartMemory = 32 << 20

// handleRegister creates a new account from a multipart form. The avatar and
// coverImage files are optional. No auto-login: the client logs in afterwards.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFrom(r.Context()); ok {
		s.writeError(w, common.ErrAlreadyLoggedIn)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		s.writeError(w, fmt.Errorf("%w: expected multipart form data", common.ErrorValidation))
		return
	}

	params := services.RegisterParams{
		Username: r.FormValue("username"),
		FullName: r.FormValue("fullName"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	avatar, closeAvatar, err := uploadFromForm(r, "avatar")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if closeAvatar != nil {
		defer closeAvatar()
	}
	params.Avatar = avatar

	cover, closeCover, err := uploadFromForm(r, "coverImage")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if closeCover != nil {
		defer closeCover()
	}
	params.CoverImage = cover

	user, err := s.auth.Register(r.Context(), params)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, http.StatusCreated, "user registered successfully", user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFrom(r.Context()); ok {
		s.writeError(w, common.ErrAlreadyLoggedIn)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return
	}

	pair, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.setAuthCookies(w, pair.AccessToken, pair.RefreshToken)
	s.writeSuccess(w, http.StatusOK, "user logged in successfully", map[string]string{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, fmt.Errorf("%w: login required", common.ErrorUnauthorized))
		return
	}

	if err := s.auth.Logout(r.Context(), identity.UserID); err != nil {
		s.writeError(w, err)
		return
	}

	s.clearAuthCookies(w)
	s.writeSuccess(w, http.StatusOK, "user logged out successfully", nil)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// handleRefreshToken rotates the refresh token. A caller whose access token
// still verifies has nothing to refresh and is told so.
func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFrom(r.Context()); ok {
		s.writeError(w, common.ErrAccessTokenValid)
		return
	}

	token := ""
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		s.writeError(w, fmt.Errorf("%w, please login again", common.ErrRefreshTokenAbsent))
		return
	}

	pair, err := s.auth.Refresh(r.Context(), token)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.setAuthCookies(w, pair.AccessToken, pair.RefreshToken)
	s.writeSuccess(w, http.StatusOK, "tokens refreshed successfully", map[string]string{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, fmt.Errorf("%w: login required", common.ErrorUnauthorized))
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return
	}

	if err := s.auth.ChangePassword(r.Context(), identity.UserID, req.OldPassword, req.NewPassword); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, http.StatusCreated, "password changed successfully", nil)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, fmt.Errorf("%w: login required", common.ErrorUnauthorized))
		return
	}

	user, err := s.auth.CurrentUser(r.Context(), identity.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, http.StatusOK, "user fetched successfully", user)
}

func (s *Server) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	s.updateUserImage(w, r, "avatar", s.auth.UpdateAvatar)
}

func (s *Server) handleUpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	s.updateUserImage(w, r, "coverImage", s.auth.UpdateCoverImage)
}

func (s *Server) handleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	s.deleteUserImage(w, r, "avatar", s.auth.DeleteAvatar)
}

func (s *Server) handleDeleteCoverImage(w http.ResponseWriter, r *http.Request) {
	s.deleteUserImage(w, r, "cover image", s.auth.DeleteCoverImage)
}

func (s *Server) updateUserImage(w http.ResponseWriter, r *http.Request, field string, update func(ctx context.Context, userID string, upload services.Upload) error) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, fmt.Errorf("%w: login required", common.ErrorUnauthorized))
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		s.writeError(w, fmt.Errorf("%w: expected multipart form data", common.ErrorValidation))
		return
	}

	upload, closeUpload, err := uploadFromForm(r, field)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if upload == nil {
		s.writeError(w, fmt.Errorf("%w: %s file is required", common.ErrorValidation, field))
		return
	}
	defer closeUpload()

	if err := update(r.Context(), identity.UserID, *upload); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, http.StatusCreated, field+" updated successfully", nil)
}

func (s *Server) deleteUserImage(w http.ResponseWriter, r *http.Request, label string, del func(ctx context.Context, userID string) error) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, fmt.Errorf("%w: login required", common.ErrorUnauthorized))
		return
	}

	if err := del(r.Context(), identity.UserID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeSuccess(w, http.StatusOK, label+" deleted successfully", nil)
}

// uploadFromForm returns the named file as an Upload, or nil when the field
// is absent. The returned closer must be called after the upload is consumed.
func uploadFromForm(r *http.Request, field string) (*services.Upload, func() error, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: malformed %s upload", common.ErrorValidation, field)
	}

	upload := &services.Upload{
		Body:        file,
		ContentType: header.Header.Get("Content-Type"),
	}
	return upload, file.Close, nil
}
