package httpapi

import (
	"net/http"
	"time"

	"github.com/bkozyrev/vidstream/internal/server/config"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// CookieOptions holds the attributes shared by both auth cookies. The values
// come from configuration so local development can relax Secure/SameSite
// without code changes.
type CookieOptions struct {
	Path     string
	Secure   bool
	SameSite http.SameSite
}

func cookieOptionsFromConfig(cfg *config.Config) CookieOptions {
	return CookieOptions{
		Path:     "/",
		Secure:   cfg.CookieSecure,
		SameSite: parseSameSite(cfg.CookieSameSite),
	}
}

func parseSameSite(v string) http.SameSite {
	switch v {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}

func (o CookieOptions) set(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	})
}

func (o CookieOptions) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     o.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	})
}

func (s *Server) setAuthCookies(w http.ResponseWriter, access, refresh string) {
	s.cookies.set(w, accessTokenCookie, access, s.accessTTL)
	s.cookies.set(w, refreshTokenCookie, refresh, s.refreshTTL)
}

func (s *Server) clearAuthCookies(w http.ResponseWriter) {
	s.cookies.clear(w, accessTokenCookie)
	s.cookies.clear(w, refreshTokenCookie)
}
