// AngelaMos | 2026
// repository_test.go

package content

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/sitehub/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var blockCols = []string{"key", "value", "type", "section", "updated_at"}

func TestUpdateSnapshotsBeforeOverwriteInOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewService(repo)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("hero_headline").
		WillReturnRows(sqlmock.NewRows(blockCols).
			AddRow("hero_headline", "A", "text", "home", now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO content_block_versions")).
		WithArgs("hero_headline", "A").
		WillReturnRows(sqlmock.NewRows([]string{"id", "block_key", "value", "created_at"}).
			AddRow(int64(1), "hero_headline", "A", now))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE content_blocks")).
		WithArgs("hero_headline", "B", TypeText, "home").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectCommit()

	b, err := svc.Update(context.Background(), "hero_headline", UpdateBlockRequest{Value: strPtr("B")})
	require.NoError(t, err)
	assert.Equal(t, "B", b.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRollsBackWhenOverwriteFails(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewService(repo)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows(blockCols).AddRow("k", "old", "text", "home", now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO content_block_versions")).
		WithArgs("k", "old").
		WillReturnRows(sqlmock.NewRows([]string{"id", "block_key", "value", "created_at"}).
			AddRow(int64(7), "k", "old", now))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE content_blocks")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), "k", UpdateBlockRequest{Value: strPtr("new")})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCreatesMissingBlockWithoutVersion(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewService(repo)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("fresh").
		WillReturnRows(sqlmock.NewRows(blockCols))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO content_blocks")).
		WithArgs("fresh", "x", TypeText, DefaultSection).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	_, err := svc.Update(context.Background(), "fresh", UpdateBlockRequest{Value: strPtr("x")})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackSequence(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewService(repo)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM content_block_versions")).
		WithArgs("k", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "block_key", "value", "created_at"}).
			AddRow(int64(3), "k", "A", now))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows(blockCols).AddRow("k", "B", "text", "home", now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO content_block_versions")).
		WithArgs("k", "B").
		WillReturnRows(sqlmock.NewRows([]string{"id", "block_key", "value", "created_at"}).
			AddRow(int64(4), "k", "B", now))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE content_blocks")).
		WithArgs("k", "A", TypeText, "home").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM content_block_versions WHERE block_key = $1 AND id = $2")).
		WithArgs("k", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := svc.Rollback(context.Background(), "k", 3)
	require.NoError(t, err)
	assert.Equal(t, "A", b.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRemovesVersionsFirst(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewService(repo)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows(blockCols).AddRow("k", "v", "text", "home", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM content_block_versions WHERE block_key = $1")).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM content_blocks")).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Delete(context.Background(), "k"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryInsertDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO content_blocks")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Insert(context.Background(), &Block{Key: "k", Type: TypeText, Section: "home"})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListVersionsLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC")).
		WithArgs("k", MaxVersions).
		WillReturnRows(sqlmock.NewRows([]string{"id", "block_key", "value", "created_at"}))

	versions, err := repo.ListVersions(context.Background(), "k", MaxVersions)
	require.NoError(t, err)
	assert.NotNil(t, versions)
	assert.Empty(t, versions)
	assert.NoError(t, mock.ExpectationsWereMet())
}
