package models

import "time"

// ApprovalOverview aggregates the approval workflow for dashboards.
type ApprovalOverview struct {
	PendingByType    map[ContentType]int `json:"pending_by_type"`
	PendingTotal     int                 `json:"pending_total"`
	ApprovedInWindow int                 `json:"approved_in_window"`
	RejectedInWindow int                 `json:"rejected_in_window"`
	AvgDecisionHours float64             `json:"avg_decision_hours"`
	WindowDays       int                 `json:"window_days"`
	GeneratedAt      time.Time           `json:"generated_at"`
}

// AnalyticsSystemMetrics is a lightweight snapshot of process health used by
// the analytics endpoints alongside the Prometheus export.
type AnalyticsSystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
