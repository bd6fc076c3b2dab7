package httpapi

import (
	"fmt"
	"net/http"

	"github.com/bkozyrev/vidstream/internal/common"
)

// handleSession reports whether the request carries a verifiable session and
// returns the identity snapshot baked into the access token.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		s.writeError(w, fmt.Errorf("%w: no active session", common.ErrorUnauthorized))
		return
	}

	s.writeSuccess(w, http.StatusOK, "session is active", map[string]string{
		"userId":     identity.UserID,
		"username":   identity.Username,
		"fullName":   identity.FullName,
		"email":      identity.Email,
		"avatar":     identity.Avatar,
		"coverImage": identity.CoverImage,
	})
}
