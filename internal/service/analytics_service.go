package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/facility-ops-api/internal/models"
	appErrors "github.com/noah-isme/facility-ops-api/pkg/errors"
)

type approvalStatsRepository interface {
	PendingCounts(ctx context.Context, facilityID string) (map[models.ContentType]int, error)
	DecisionStats(ctx context.Context, since time.Time) (approved, rejected int, avgHours float64, err error)
}

// AnalyticsService aggregates approval workflow statistics for dashboards,
// caching the computed overview per facility and window.
type AnalyticsService struct {
	repo     approvalStatsRepository
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(repo approvalStatsRepository, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &AnalyticsService{repo: repo, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger}
}

// Overview returns the approval dashboard aggregate for the facility over the
// trailing window.
func (s *AnalyticsService) Overview(ctx context.Context, facilityID string, windowDays int) (*models.ApprovalOverview, error) {
	if facilityID == "" {
		return nil, appErrors.ErrNoFacility
	}
	if windowDays <= 0 {
		windowDays = 30
	}

	cacheKey := fmt.Sprintf("analytics:approvals:%s:%d", facilityID, windowDays)
	var overview models.ApprovalOverview
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &overview); err == nil && hit {
			return &overview, nil
		}
	}

	counts, err := s.repo.PendingCounts(ctx, facilityID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate pending counts")
	}

	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	approved, rejected, avgHours, err := s.repo.DecisionStats(ctx, since)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate decision stats")
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	overview = models.ApprovalOverview{
		PendingByType:    counts,
		PendingTotal:     total,
		ApprovedInWindow: approved,
		RejectedInWindow: rejected,
		AvgDecisionHours: avgHours,
		WindowDays:       windowDays,
		GeneratedAt:      time.Now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, &overview, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache approval overview", zap.Error(err))
		}
	}
	return &overview, nil
}

// SystemMetrics returns the in-process health snapshot.
func (s *AnalyticsService) SystemMetrics() models.AnalyticsSystemMetrics {
	if s.metrics == nil {
		return models.AnalyticsSystemMetrics{GeneratedAt: time.Now().UTC()}
	}
	return s.metrics.Snapshot()
}
