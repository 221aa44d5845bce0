package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/facility-ops-api/internal/models"
)

// authorNameExpr joins the author's display name: first+last name, falling
// back to email, falling back to 'Unknown'.
const authorNameExpr = `COALESCE(NULLIF(TRIM(CONCAT(u.first_name, ' ', u.last_name)), ''), NULLIF(u.email, ''), 'Unknown')`

// ContentRepository is the data gateway over the three content tables
// (courses, policies, procedures) unified into the ContentApproval shape.
type ContentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewContentRepository constructs the repository.
func NewContentRepository(db *sqlx.DB, logger *zap.Logger) *ContentRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentRepository{db: db, logger: logger}
}

// ListPending returns every content item awaiting review, newest submission
// first. The three table queries run independently; a failing table
// contributes zero items (logged) without failing the whole call.
func (r *ContentRepository) ListPending(ctx context.Context, facilityID string) ([]models.ContentApproval, error) {
	items := make([]models.ContentApproval, 0, 16)

	courses, err := r.pendingCourses(ctx, facilityID)
	if err != nil {
		r.logger.Warn("pending courses query failed", zap.Error(err))
	} else {
		items = append(items, courses...)
	}

	// policies and procedures carry no facility column today, so these two
	// queries are not facility scoped.
	r.logger.Debug("listing pending policies/procedures without facility scope",
		zap.String("facility_id", facilityID))

	policies, err := r.pendingUnscoped(ctx, "policies", models.ContentTypePolicy)
	if err != nil {
		r.logger.Warn("pending policies query failed", zap.Error(err))
	} else {
		items = append(items, policies...)
	}

	procedures, err := r.pendingUnscoped(ctx, "procedures", models.ContentTypeProcedure)
	if err != nil {
		r.logger.Warn("pending procedures query failed", zap.Error(err))
	} else {
		items = append(items, procedures...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SubmittedAt.After(items[j].SubmittedAt)
	})
	return items, nil
}

func (r *ContentRepository) pendingCourses(ctx context.Context, facilityID string) ([]models.ContentApproval, error) {
	query := `SELECT c.id, c.title, c.description, c.author_id, ` + authorNameExpr + ` AS author_name,
       COALESCE(c.content_type, 'course') AS content_type,
       c.submitted_for_approval_at, COALESCE(c.revision_number, 1) AS revision_number,
       COALESCE(c.previous_rejections, 0) AS previous_rejections, c.facility_id, c.task_id
	FROM courses c
	LEFT JOIN users u ON u.id = c.author_id
	WHERE c.approval_status = 'pending_approval'
	  AND c.published_at IS NULL
	  AND c.facility_id = $1`

	var rows []models.ContentApproval
	if err := r.db.SelectContext(ctx, &rows, query, facilityID); err != nil {
		return nil, fmt.Errorf("list pending courses: %w", err)
	}
	return rows, nil
}

func (r *ContentRepository) pendingUnscoped(ctx context.Context, table string, contentType models.ContentType) ([]models.ContentApproval, error) {
	query := fmt.Sprintf(`SELECT t.id, t.title, t.description, t.author_id, `+authorNameExpr+` AS author_name,
       '%s' AS content_type,
       t.submitted_for_approval_at, COALESCE(t.revision_number, 1) AS revision_number,
       COALESCE(t.previous_rejections, 0) AS previous_rejections, t.task_id
	FROM %s t
	LEFT JOIN users u ON u.id = t.author_id
	WHERE t.approval_status = 'pending_approval'
	  AND t.published_at IS NULL`, contentType, table)

	var rows []models.ContentApproval
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list pending %s: %w", table, err)
	}
	return rows, nil
}

// GetPending fetches a single pending item in the unified shape. Returns
// sql.ErrNoRows when the row is absent or no longer pending.
func (r *ContentRepository) GetPending(ctx context.Context, contentID string, contentType models.ContentType) (*models.ContentApproval, error) {
	table := contentType.Table()
	facilityCol := "NULL AS facility_id"
	typeCol := fmt.Sprintf("'%s' AS content_type", contentType)
	if table == "courses" {
		facilityCol = "t.facility_id"
		typeCol = "COALESCE(t.content_type, 'course') AS content_type"
	}

	query := fmt.Sprintf(`SELECT t.id, t.title, t.description, t.author_id, `+authorNameExpr+` AS author_name,
       %s, t.submitted_for_approval_at, COALESCE(t.revision_number, 1) AS revision_number,
       COALESCE(t.previous_rejections, 0) AS previous_rejections, %s, t.task_id
	FROM %s t
	LEFT JOIN users u ON u.id = t.author_id
	WHERE t.id = $1
	  AND t.approval_status = 'pending_approval'
	  AND t.published_at IS NULL`, typeCol, facilityCol, table)

	var item models.ContentApproval
	if err := r.db.GetContext(ctx, &item, query, contentID); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetStatus reads the current approval status of a content row.
func (r *ContentRepository) GetStatus(ctx context.Context, contentID string, contentType models.ContentType) (models.ApprovalStatus, error) {
	query := fmt.Sprintf("SELECT approval_status FROM %s WHERE id = $1", contentType.Table())
	var status models.ApprovalStatus
	if err := r.db.GetContext(ctx, &status, query, contentID); err != nil {
		return "", err
	}
	return status, nil
}

// Approve transitions a pending row to approved and publishes it. The WHERE
// guard keeps a concurrent approver from double-applying the transition;
// zero rows affected is reported as sql.ErrNoRows.
func (r *ContentRepository) Approve(ctx context.Context, contentID string, contentType models.ContentType, approvedBy string) error {
	query := fmt.Sprintf(`UPDATE %s
	SET approval_status = $1, approved_at = $2, approved_by = $3, published_at = $2
	WHERE id = $4 AND approval_status = $5`, contentType.Table())

	result, err := r.db.ExecContext(ctx, query,
		models.ApprovalStatusApproved, time.Now().UTC(), approvedBy,
		contentID, models.ApprovalStatusPending,
	)
	if err != nil {
		return fmt.Errorf("approve %s %s: %w", contentType, contentID, err)
	}
	return requireRowUpdated(result, "approve")
}

// Reject transitions a pending row to rejected. published_at stays NULL.
func (r *ContentRepository) Reject(ctx context.Context, contentID string, contentType models.ContentType, rejectedBy, reason string) error {
	query := fmt.Sprintf(`UPDATE %s
	SET approval_status = $1, rejected_at = $2, rejected_by = $3, rejection_reason = $4
	WHERE id = $5 AND approval_status = $6`, contentType.Table())

	result, err := r.db.ExecContext(ctx, query,
		models.ApprovalStatusRejected, time.Now().UTC(), rejectedBy, reason,
		contentID, models.ApprovalStatusPending,
	)
	if err != nil {
		return fmt.Errorf("reject %s %s: %w", contentType, contentID, err)
	}
	return requireRowUpdated(result, "reject")
}

func requireRowUpdated(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s rows: %w", op, err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
