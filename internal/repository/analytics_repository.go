package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/facility-ops-api/internal/models"
)

// AnalyticsRepository aggregates approval activity across the content tables.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository constructs the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

type pendingCountRow struct {
	ContentType models.ContentType `db:"content_type"`
	Total       int                `db:"total"`
}

// PendingCounts returns the number of pending items per content type.
// Courses are facility scoped; policies and procedures are not (no facility
// column in their schema).
func (r *AnalyticsRepository) PendingCounts(ctx context.Context, facilityID string) (map[models.ContentType]int, error) {
	const query = `SELECT COALESCE(content_type, 'course') AS content_type, COUNT(*) AS total
	FROM courses
	WHERE approval_status = 'pending_approval' AND published_at IS NULL AND facility_id = $1
	GROUP BY COALESCE(content_type, 'course')
UNION ALL
	SELECT 'policy' AS content_type, COUNT(*) AS total
	FROM policies
	WHERE approval_status = 'pending_approval' AND published_at IS NULL
UNION ALL
	SELECT 'procedure' AS content_type, COUNT(*) AS total
	FROM procedures
	WHERE approval_status = 'pending_approval' AND published_at IS NULL`

	var rows []pendingCountRow
	if err := r.db.SelectContext(ctx, &rows, query, facilityID); err != nil {
		return nil, fmt.Errorf("pending counts: %w", err)
	}

	counts := make(map[models.ContentType]int, len(rows))
	for _, row := range rows {
		counts[row.ContentType] += row.Total
	}
	return counts, nil
}

type decisionStatsRow struct {
	Approved int      `db:"approved"`
	Rejected int      `db:"rejected"`
	AvgHours *float64 `db:"avg_hours"`
}

// DecisionStats returns approve/reject throughput and the average
// submission-to-decision latency since the window start.
func (r *AnalyticsRepository) DecisionStats(ctx context.Context, since time.Time) (approved, rejected int, avgHours float64, err error) {
	const query = `WITH decisions AS (
	SELECT approval_status, submitted_for_approval_at, approved_at, rejected_at FROM courses
		WHERE approval_status IN ('approved', 'rejected')
	UNION ALL
	SELECT approval_status, submitted_for_approval_at, approved_at, rejected_at FROM policies
		WHERE approval_status IN ('approved', 'rejected')
	UNION ALL
	SELECT approval_status, submitted_for_approval_at, approved_at, rejected_at FROM procedures
		WHERE approval_status IN ('approved', 'rejected')
)
SELECT
	COUNT(*) FILTER (WHERE approval_status = 'approved' AND approved_at >= $1) AS approved,
	COUNT(*) FILTER (WHERE approval_status = 'rejected' AND rejected_at >= $1) AS rejected,
	AVG(EXTRACT(EPOCH FROM COALESCE(approved_at, rejected_at) - submitted_for_approval_at) / 3600)
		FILTER (WHERE COALESCE(approved_at, rejected_at) >= $1) AS avg_hours
FROM decisions`

	var row decisionStatsRow
	if err = r.db.GetContext(ctx, &row, query, since); err != nil {
		return 0, 0, 0, fmt.Errorf("decision stats: %w", err)
	}
	if row.AvgHours != nil {
		avgHours = *row.AvgHours
	}
	return row.Approved, row.Rejected, avgHours, nil
}
