package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newTaskRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTaskRepositoryComplete(t *testing.T) {
	db, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()

	repo := NewTaskRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	comment := "approved with notes"
	require.NoError(t, repo.Complete(context.Background(), "task-1", "mgr-1", "approved", &comment))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryCompleteTwice(t *testing.T) {
	db, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()

	repo := NewTaskRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Complete(context.Background(), "task-1", "mgr-1", "rejected", nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()

	repo := NewTaskRepository(db)
	rows := sqlmock.NewRows([]string{"id", "title", "content_id", "assignee_id", "status", "outcome", "comment", "completed_by", "completed_at", "created_at"}).
		AddRow("task-1", "Review Hand Hygiene", "c-1", nil, "open", nil, nil, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE id")).
		WithArgs("task-1").
		WillReturnRows(rows)

	task, err := repo.GetByID(context.Background(), "task-1")
	require.NoError(t, err)
	require.Equal(t, "task-1", task.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
