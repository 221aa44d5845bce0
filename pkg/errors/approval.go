package errors

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// ApprovalSeverity grades how loudly an approval failure should surface.
type ApprovalSeverity string

const (
	SeverityLow    ApprovalSeverity = "low"
	SeverityMedium ApprovalSeverity = "medium"
	SeverityHigh   ApprovalSeverity = "high"
)

// Approval error codes, in classification priority order.
const (
	CodeConstraintViolation    = "CONSTRAINT_VIOLATION"
	CodeRowNotFound            = "NOT_FOUND"
	CodeDatabaseError          = "DATABASE_ERROR"
	CodeNetworkError           = "NETWORK_ERROR"
	CodePermissionDenied       = "PERMISSION_DENIED"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeContentNotFound        = "CONTENT_NOT_FOUND"
	CodeValidationError        = "VALIDATION_ERROR"
	CodeUnknownError           = "UNKNOWN_ERROR"
)

// ApprovalError is the classified form of any failure raised while loading
// or deciding content approvals. UserMessage is safe to show verbatim.
type ApprovalError struct {
	Code        string           `json:"code"`
	Message     string           `json:"message"`
	UserMessage string           `json:"user_message"`
	Severity    ApprovalSeverity `json:"severity"`
	Retryable   bool             `json:"retryable"`
	Status      int              `json:"-"`
	Err         error            `json:"-"`
}

// Error implements the error interface.
func (e *ApprovalError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *ApprovalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HTTPError converts the classified error into the common envelope Error.
func (e *ApprovalError) HTTPError() *Error {
	if e == nil {
		return nil
	}
	return &Error{Code: e.Code, Status: e.Status, Message: e.UserMessage, Err: e.Err}
}

// ClassifyApproval maps a raw failure into the approval taxonomy. Rules are
// checked in priority order and the first match wins; an error that would
// textually satisfy several rules gets the earliest listed code.
func ClassifyApproval(err error) *ApprovalError {
	if err == nil {
		return nil
	}

	var appErr *ApprovalError
	if errors.As(err, &appErr) {
		return appErr
	}

	message := err.Error()
	lower := strings.ToLower(message)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case strings.HasPrefix(string(pqErr.Code), "23"):
			return classified(err, CodeConstraintViolation, message,
				"This change conflicts with existing data. Please retry.",
				SeverityMedium, true, http.StatusConflict)
		case strings.HasPrefix(string(pqErr.Code), "42"):
			return classified(err, CodeDatabaseError, message,
				"A database error occurred. Please try again shortly.",
				SeverityHigh, true, http.StatusInternalServerError)
		}
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return classified(err, CodeRowNotFound, message,
			"The requested record could not be found.",
			SeverityMedium, false, http.StatusNotFound)
	case strings.Contains(lower, "fetch"), strings.Contains(lower, "connection refused"):
		return classified(err, CodeNetworkError, message,
			"A network error occurred. Check your connection and retry.",
			SeverityMedium, true, http.StatusBadGateway)
	case strings.Contains(lower, "permission"), strings.Contains(lower, "unauthorized"):
		return classified(err, CodePermissionDenied, message,
			"You do not have permission to perform this action.",
			SeverityHigh, false, http.StatusForbidden)
	case strings.Contains(lower, "already"), strings.Contains(lower, "concurrent"):
		return classified(err, CodeConcurrentModification, message,
			"This item was already processed by someone else.",
			SeverityMedium, true, http.StatusConflict)
	case strings.Contains(lower, "not found"), strings.Contains(lower, "does not exist"):
		return classified(err, CodeContentNotFound, message,
			"The content item could not be found. It may have been removed.",
			SeverityMedium, false, http.StatusNotFound)
	case strings.Contains(lower, "validation"), strings.Contains(lower, "invalid"):
		return classified(err, CodeValidationError, message,
			"The request was invalid. Review the input and retry.",
			SeverityLow, true, http.StatusBadRequest)
	default:
		return classified(err, CodeUnknownError, message,
			"An unexpected error occurred. Please try again.",
			SeverityHigh, true, http.StatusInternalServerError)
	}
}

// ClassifyApprovalAction refines the base classification with wording
// specific to the attempted decision ("approve" or "reject").
func ClassifyApprovalAction(err error, action string) *ApprovalError {
	base := ClassifyApproval(err)
	if base == nil {
		return nil
	}
	switch base.Code {
	case CodeConcurrentModification:
		base.UserMessage = "This item was already processed; your " + action + " was not applied."
	case CodeContentNotFound:
		base.UserMessage = "The item you tried to " + action + " no longer exists."
	}
	return base
}

func classified(err error, code, message, userMessage string, severity ApprovalSeverity, retryable bool, status int) *ApprovalError {
	return &ApprovalError{
		Code:        code,
		Message:     message,
		UserMessage: userMessage,
		Severity:    severity,
		Retryable:   retryable,
		Status:      status,
		Err:         err,
	}
}
