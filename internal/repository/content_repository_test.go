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

	"github.com/noah-isme/facility-ops-api/internal/models"
)

func newContentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func pendingRowColumns(withFacility bool) []string {
	cols := []string{"id", "title", "description", "author_id", "author_name", "content_type",
		"submitted_for_approval_at", "revision_number", "previous_rejections"}
	if withFacility {
		cols = append(cols, "facility_id")
	}
	return append(cols, "task_id")
}

func TestContentRepositoryListPendingMergesAndSorts(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db, nil)
	older := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 22, 8, 0, 0, 0, time.UTC)

	courseRows := sqlmock.NewRows(pendingRowColumns(true)).
		AddRow("c-1", "Hand Hygiene", nil, "author-1", "Alex Author", "course", older, 2, 0, "fac-1", "task-1")
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses c")).
		WithArgs("fac-1").
		WillReturnRows(courseRows)

	policyRows := sqlmock.NewRows(pendingRowColumns(false)).
		AddRow("p-1", "Sepsis Protocol", nil, "author-2", "Blair Writer", "policy", newer, 1, 0, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM policies t")).
		WillReturnRows(policyRows)

	procedureRows := sqlmock.NewRows(pendingRowColumns(false))
	mock.ExpectQuery(regexp.QuoteMeta("FROM procedures t")).
		WillReturnRows(procedureRows)

	items, err := repo.ListPending(context.Background(), "fac-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	// newest submission first
	require.Equal(t, "p-1", items[0].ID)
	require.Equal(t, "c-1", items[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryListPendingSurvivesTableFailure(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db, nil)
	submitted := time.Date(2026, 8, 22, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses c")).
		WithArgs("fac-1").
		WillReturnError(sql.ErrConnDone)

	policyRows := sqlmock.NewRows(pendingRowColumns(false)).
		AddRow("p-1", "Sepsis Protocol", nil, "author-2", "Blair Writer", "policy", submitted, 1, 0, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM policies t")).
		WillReturnRows(policyRows)

	mock.ExpectQuery(regexp.QuoteMeta("FROM procedures t")).
		WillReturnRows(sqlmock.NewRows(pendingRowColumns(false)))

	items, err := repo.ListPending(context.Background(), "fac-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "p-1", items[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryGetPending(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db, nil)
	submitted := time.Date(2026, 8, 22, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(pendingRowColumns(true)).
		AddRow("c-1", "Hand Hygiene", nil, "author-1", "Alex Author", "course", submitted, 3, 1, "fac-1", "task-1")
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses t")).
		WithArgs("c-1").
		WillReturnRows(rows)

	item, err := repo.GetPending(context.Background(), "c-1", models.ContentTypeCourse)
	require.NoError(t, err)
	require.Equal(t, "Hand Hygiene", item.Title)
	require.NotNil(t, item.TaskID)
	require.Equal(t, "task-1", *item.TaskID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryGetPendingMissing(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM policies t")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(pendingRowColumns(false)))

	_, err := repo.GetPending(context.Background(), "ghost", models.ContentTypePolicy)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryApprove(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db, nil)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Approve(context.Background(), "c-1", models.ContentTypeCourse, "mgr-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryApproveAlreadyDecided(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db, nil)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Approve(context.Background(), "c-1", models.ContentTypeCourse, "mgr-1")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryReject(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db, nil)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE policies")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Reject(context.Background(), "p-1", models.ContentTypePolicy, "mgr-1", "needs work"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryRejectAlreadyDecided(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db, nil)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE procedures")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Reject(context.Background(), "pr-1", models.ContentTypeProcedure, "mgr-1", "outdated")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryLearningPathwayUsesCourses(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db, nil)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Approve(context.Background(), "lp-1", models.ContentTypeLearningPathway, "mgr-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryGetStatus(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT approval_status FROM courses")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"approval_status"}).AddRow("approved"))

	status, err := repo.GetStatus(context.Background(), "c-1", models.ContentTypeCourse)
	require.NoError(t, err)
	require.Equal(t, models.ApprovalStatusApproved, status)
	require.NoError(t, mock.ExpectationsWereMet())
}
