package models

import "time"

// ContentType discriminates which underlying table a content item lives in.
type ContentType string

const (
	ContentTypeCourse          ContentType = "course"
	ContentTypePolicy          ContentType = "policy"
	ContentTypeProcedure       ContentType = "procedure"
	ContentTypeLearningPathway ContentType = "learning_pathway"
)

// Valid reports whether the content type is part of the known set.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeCourse, ContentTypePolicy, ContentTypeProcedure, ContentTypeLearningPathway:
		return true
	default:
		return false
	}
}

// Table maps the content type to its backing table. Learning pathways are
// stored in the courses table.
func (t ContentType) Table() string {
	switch t {
	case ContentTypePolicy:
		return "policies"
	case ContentTypeProcedure:
		return "procedures"
	default:
		return "courses"
	}
}

// ApprovalStatus captures the review state of a content row.
type ApprovalStatus string

const (
	ApprovalStatusDraft    ApprovalStatus = "draft"
	ApprovalStatusPending  ApprovalStatus = "pending_approval"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// ContentApproval is the unified read shape across courses, policies and
// procedures. It is derived at query time, not stored.
type ContentApproval struct {
	ID                 string      `db:"id" json:"id"`
	Title              string      `db:"title" json:"title"`
	Description        *string     `db:"description" json:"description,omitempty"`
	Type               ContentType `db:"content_type" json:"type"`
	AuthorID           string      `db:"author_id" json:"author_id"`
	AuthorName         string      `db:"author_name" json:"author_name"`
	SubmittedAt        time.Time   `db:"submitted_for_approval_at" json:"submitted_at"`
	RevisionNumber     int         `db:"revision_number" json:"revision_number"`
	PreviousRejections int         `db:"previous_rejections" json:"previous_rejections"`
	FacilityID         *string     `db:"facility_id" json:"facility_id,omitempty"`
	TaskID             *string     `db:"task_id" json:"task_id,omitempty"`
}

// ContentDecision records the persisted outcome of an approve/reject call.
type ContentDecision struct {
	ContentID string
	Type      ContentType
	Status    ApprovalStatus
	DecidedBy string
	DecidedAt time.Time
	Reason    string
}
