// Package server initializes and runs the application: configuration,
// logging, database and media backends, and the HTTP server, with graceful
// shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bkozyrev/vidstream/internal/logging"
	"github.com/bkozyrev/vidstream/internal/server/config"
	"github.com/bkozyrev/vidstream/internal/server/db"
	"github.com/bkozyrev/vidstream/internal/server/httpapi"
	"github.com/bkozyrev/vidstream/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   db.RepositoryManager
	httpSrv *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	rm, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	media := services.NewS3MediaStore(cfg)
	authService := services.NewAuthService(rm.Users(), media, logger, cfg)
	videoService := services.NewVideoService(rm.Videos(), media, logger)

	srv := httpapi.NewServer(cfg, logger, authService, videoService)

	return &App{config: cfg, logger: logger, repos: rm, httpSrv: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpSrv.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
