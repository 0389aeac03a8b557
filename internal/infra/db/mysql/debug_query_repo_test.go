package mysql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/code-debugger/internal/domain/debugging"
	"github.com/bryanwahyu/code-debugger/internal/infra/db/mysql"
)

func TestDebugQueryRepositoryCreate(t *testing.T) {
	t.Parallel()

	db, m, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m.ExpectExec(`INSERT INTO debug_queries`).
		WithArgs("rec-1", "var x = 1", `{"errors":[],"fix":"var x = 1","explanation":"ok"}`, at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := mysql.NewDebugQueryRepository(db)
	err = repo.Create(context.Background(), &domain.Record{
		ID:        "rec-1",
		Code:      "var x = 1",
		Result:    `{"errors":[],"fix":"var x = 1","explanation":"ok"}`,
		CreatedAt: at,
	})
	require.NoError(t, err)
	assert.NoError(t, m.ExpectationsWereMet())
}

func TestDebugQueryRepositoryCreateDefaults(t *testing.T) {
	t.Parallel()

	db, m, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m.ExpectExec(`INSERT INTO debug_queries`).
		WithArgs("rec-2", "x", "{}", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := mysql.NewDebugQueryRepository(db)
	require.NoError(t, repo.Create(context.Background(), &domain.Record{ID: "rec-2", Code: "x", Result: "  "}))
	assert.NoError(t, m.ExpectationsWereMet())
}

func TestDebugQueryRepositoryCreateError(t *testing.T) {
	t.Parallel()

	db, m, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("table debug_queries doesn't exist")
	m.ExpectExec(`INSERT INTO debug_queries`).WillReturnError(boom)

	repo := mysql.NewDebugQueryRepository(db)
	err = repo.Create(context.Background(), &domain.Record{ID: "rec-3", Code: "x", Result: "{}"})
	assert.ErrorIs(t, err, boom)
}
