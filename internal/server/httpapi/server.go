// Package httpapi exposes the REST surface: routing, the session-resolver
// middleware, the response envelope, and the auth cookie handling.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bkozyrev/vidstream/internal/logging"
	"github.com/bkozyrev/vidstream/internal/server/config"
	"github.com/bkozyrev/vidstream/internal/server/services"
)

type Server struct {
	address      string
	logger       logging.Logger
	auth         *services.AuthService
	videos       *services.VideoService
	cookies      CookieOptions
	corsOrigins  []string
	accessSecret []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewServer(cfg *config.Config, l logging.Logger, as *services.AuthService, vs *services.VideoService) *Server {
	return &Server{
		address:      cfg.EndpointAddrHTTP,
		logger:       l.With("module", "http_server"),
		auth:         as,
		videos:       vs,
		cookies:      cookieOptionsFromConfig(cfg),
		corsOrigins:  cfg.CORSAllowedOrigins,
		accessSecret: []byte(cfg.AccessTokenSecret),
		accessTTL:    cfg.AccessTokenExpiry,
		refreshTTL:   cfg.RefreshTokenExpiry,
	}
}

func (s *Server) router() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(s.sessionResolver)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.Post("/refresh-token", s.handleRefreshToken)
			r.Patch("/change-password", s.handleChangePassword)
			r.Get("/", s.handleCurrentUser)
			r.Patch("/avatar", s.handleUpdateAvatar)
			r.Delete("/avatar", s.handleDeleteAvatar)
			r.Patch("/cover-image", s.handleUpdateCoverImage)
			r.Delete("/cover-image", s.handleDeleteCoverImage)
		})
		r.Route("/video", func(r chi.Router) {
			r.Post("/upload-video", s.handleUploadVideo)
			r.Get("/my-videos", s.handleMyVideos)
			r.Get("/play-video/{videoId}", s.handlePlayVideo)
		})
		r.Get("/auth/session", s.handleSession)
	})

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
