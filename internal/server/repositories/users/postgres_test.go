package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bkozyrev/vidstream/internal/common"
	"github.com/bkozyrev/vidstream/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRow(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "full_name", "password_hash", "refresh_token",
		"avatar", "avatar_key", "cover_image", "cover_image_key", "created_at",
	}).AddRow(u.ID, u.Username, u.Email, u.FullName, u.PasswordHash, u.RefreshToken,
		u.Avatar, u.AvatarKey, u.CoverImage, u.CoverImageKey, u.CreatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+users\s*\(username,\s*email,.*RETURNING\s+id,\s*created_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("42", now)
	mock.ExpectQuery(q).
		WithArgs("alice_go", "a@x.com", "Alice Doe", "hash", "", "", "", "").
		WillReturnRows(rows)

	u := &models.User{Username: "alice_go", Email: "a@x.com", FullName: "Alice Doe", PasswordHash: "hash"}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "42" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{Username: "alice_go", Email: "a@x.com"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Username: "alice_go", Email: "a@x.com"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+EXISTS`).
		WithArgs("alice_go", "a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "alice_go", "a@x.com")
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !ok {
		t.Fatal("expected exists=true")
	}
}

func TestGetByEmail_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := &models.User{
		ID: "42", Username: "alice_go", Email: "a@x.com", FullName: "Alice Doe",
		PasswordHash: "hash", RefreshToken: "rt", CreatedAt: time.Now(),
	}
	mock.ExpectQuery(`SELECT .* FROM users\s+WHERE email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(userRow(want))

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != want.ID || got.RefreshToken != "rt" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users\s+WHERE email = \$1`).
		WithArgs("missing@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@x.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users\s+WHERE id = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestSwapRefreshToken_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET refresh_token = \$3 WHERE id = \$1 AND refresh_token = \$2`).
		WithArgs("42", "old-token", "new-token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SwapRefreshToken(context.Background(), "42", "old-token", "new-token"); err != nil {
		t.Fatalf("SwapRefreshToken error: %v", err)
	}
}

func TestSwapRefreshToken_SlotMoved(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// Another refresh already rotated the slot: zero rows match.
	mock.ExpectExec(`UPDATE users SET refresh_token = \$3 WHERE id = \$1 AND refresh_token = \$2`).
		WithArgs("42", "stale-token", "new-token").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SwapRefreshToken(context.Background(), "42", "stale-token", "new-token")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestClearRefreshToken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET refresh_token = '' WHERE id = \$1`).
		WithArgs("42").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ClearRefreshToken(context.Background(), "42"); err != nil {
		t.Fatalf("ClearRefreshToken error: %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET password_hash = \$2 WHERE id = \$1`).
		WithArgs("42", "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(context.Background(), "42", "new-hash"); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
}

func TestUpdateAvatar_UnknownUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET avatar = \$2, avatar_key = \$3 WHERE id = \$1`).
		WithArgs("nope", "url", "key").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateAvatar(context.Background(), "nope", "url", "key")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}
