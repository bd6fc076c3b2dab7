// Package db wires the PostgreSQL connection, the repositories, and the
// embedded migrations together behind a single manager.
package db

import (
	"context"
	"database/sql"

	"github.com/bkozyrev/vidstream/internal/server/repositories/users"
	"github.com/bkozyrev/vidstream/internal/server/repositories/videos"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Close() error
	Users() users.Repository
	Videos() videos.Repository
}
