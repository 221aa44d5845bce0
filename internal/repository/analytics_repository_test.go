package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/facility-ops-api/internal/models"
)

func newAnalyticsRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAnalyticsRepositoryPendingCounts(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()

	repo := NewAnalyticsRepository(db)
	rows := sqlmock.NewRows([]string{"content_type", "total"}).
		AddRow("course", 3).
		AddRow("learning_pathway", 1).
		AddRow("policy", 2).
		AddRow("procedure", 0)
	mock.ExpectQuery(regexp.QuoteMeta("UNION ALL")).
		WithArgs("fac-1").
		WillReturnRows(rows)

	counts, err := repo.PendingCounts(context.Background(), "fac-1")
	require.NoError(t, err)
	require.Equal(t, 3, counts[models.ContentTypeCourse])
	require.Equal(t, 1, counts[models.ContentTypeLearningPathway])
	require.Equal(t, 2, counts[models.ContentTypePolicy])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepositoryDecisionStats(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()

	repo := NewAnalyticsRepository(db)
	rows := sqlmock.NewRows([]string{"approved", "rejected", "avg_hours"}).
		AddRow(12, 4, 17.25)
	mock.ExpectQuery(regexp.QuoteMeta("WITH decisions AS")).
		WillReturnRows(rows)

	approved, rejected, avgHours, err := repo.DecisionStats(context.Background(), time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Equal(t, 12, approved)
	require.Equal(t, 4, rejected)
	require.InDelta(t, 17.25, avgHours, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepositoryDecisionStatsNoDecisions(t *testing.T) {
	db, mock, cleanup := newAnalyticsRepoMock(t)
	defer cleanup()

	repo := NewAnalyticsRepository(db)
	rows := sqlmock.NewRows([]string{"approved", "rejected", "avg_hours"}).
		AddRow(0, 0, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WITH decisions AS")).
		WillReturnRows(rows)

	approved, rejected, avgHours, err := repo.DecisionStats(context.Background(), time.Now())
	require.NoError(t, err)
	require.Zero(t, approved)
	require.Zero(t, rejected)
	require.Zero(t, avgHours)
	require.NoError(t, mock.ExpectationsWereMet())
}
