package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/facility-ops-api/internal/models"
	appErrors "github.com/noah-isme/facility-ops-api/pkg/errors"
)

type statsRepoStub struct {
	counts   map[models.ContentType]int
	approved int
	rejected int
	avgHours float64
	since    time.Time
}

func (s *statsRepoStub) PendingCounts(ctx context.Context, facilityID string) (map[models.ContentType]int, error) {
	return s.counts, nil
}

func (s *statsRepoStub) DecisionStats(ctx context.Context, since time.Time) (int, int, float64, error) {
	s.since = since
	return s.approved, s.rejected, s.avgHours, nil
}

func TestAnalyticsServiceOverview(t *testing.T) {
	repo := &statsRepoStub{
		counts: map[models.ContentType]int{
			models.ContentTypeCourse: 3,
			models.ContentTypePolicy: 2,
		},
		approved: 10,
		rejected: 4,
		avgHours: 18.5,
	}
	svc := NewAnalyticsService(repo, nil, nil, time.Minute, nil)

	overview, err := svc.Overview(context.Background(), "fac-1", 30)
	require.NoError(t, err)
	require.Equal(t, 5, overview.PendingTotal)
	require.Equal(t, 10, overview.ApprovedInWindow)
	require.Equal(t, 4, overview.RejectedInWindow)
	require.InDelta(t, 18.5, overview.AvgDecisionHours, 0.001)
	require.Equal(t, 30, overview.WindowDays)

	// window start should be roughly 30 days back
	expected := time.Now().UTC().AddDate(0, 0, -30)
	require.WithinDuration(t, expected, repo.since, time.Minute)
}

func TestAnalyticsServiceDefaultWindow(t *testing.T) {
	repo := &statsRepoStub{counts: map[models.ContentType]int{}}
	svc := NewAnalyticsService(repo, nil, nil, time.Minute, nil)

	overview, err := svc.Overview(context.Background(), "fac-1", 0)
	require.NoError(t, err)
	require.Equal(t, 30, overview.WindowDays)
}

func TestAnalyticsServiceRequiresFacility(t *testing.T) {
	svc := NewAnalyticsService(&statsRepoStub{}, nil, nil, time.Minute, nil)
	_, err := svc.Overview(context.Background(), "", 30)
	require.ErrorIs(t, err, appErrors.ErrNoFacility)
}

func TestAnalyticsServiceSystemMetrics(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest("GET", "/approvals/pending", 200, 25*time.Millisecond)
	svc := NewAnalyticsService(&statsRepoStub{}, nil, metrics, time.Minute, nil)

	snapshot := svc.SystemMetrics()
	require.Equal(t, uint64(1), snapshot.RequestsTotal)
	require.Positive(t, snapshot.Goroutines)
}
