package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/bkozyrev/vidstream/internal/server/auth"
)

type ctxKey int

const identityKey ctxKey = iota

// sessionResolver looks for an access token in the accessToken cookie, then
// in the Authorization header. On success the claims snapshot is attached to
// the request context; on any failure the request proceeds anonymously. This
// layer never rejects.
func (s *Server) sessionResolver(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ParseAccessToken(token, s.accessSecret)
		if err != nil {
			s.logger.Debug(r.Context(), "access token rejected, continuing anonymously", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// identityFrom returns the resolved claims, if any.
func identityFrom(ctx context.Context) (*auth.AccessClaims, bool) {
	claims, ok := ctx.Value(identityKey).(*auth.AccessClaims)
	return claims, ok
}
