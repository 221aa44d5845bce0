package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestClassifyApprovalConstraintViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Message: "duplicate key value"}
	classified := ClassifyApproval(err)
	require.Equal(t, CodeConstraintViolation, classified.Code)
	require.Equal(t, SeverityMedium, classified.Severity)
	require.True(t, classified.Retryable)
	require.Equal(t, http.StatusConflict, classified.Status)
}

func TestClassifyApprovalDatabaseError(t *testing.T) {
	err := &pq.Error{Code: "42P01", Message: "relation does not exist"}
	classified := ClassifyApproval(err)
	require.Equal(t, CodeDatabaseError, classified.Code)
	require.Equal(t, SeverityHigh, classified.Severity)
	require.True(t, classified.Retryable)
}

func TestClassifyApprovalNoRows(t *testing.T) {
	classified := ClassifyApproval(fmt.Errorf("load item: %w", sql.ErrNoRows))
	require.Equal(t, CodeRowNotFound, classified.Code)
	require.False(t, classified.Retryable)
	require.Equal(t, http.StatusNotFound, classified.Status)
}

func TestClassifyApprovalNetwork(t *testing.T) {
	classified := ClassifyApproval(errors.New("dial tcp: connection refused"))
	require.Equal(t, CodeNetworkError, classified.Code)
	require.True(t, classified.Retryable)
	require.Equal(t, http.StatusBadGateway, classified.Status)
}

func TestClassifyApprovalPermission(t *testing.T) {
	classified := ClassifyApproval(errors.New("permission denied for table courses"))
	require.Equal(t, CodePermissionDenied, classified.Code)
	require.False(t, classified.Retryable)
	require.Equal(t, SeverityHigh, classified.Severity)
}

func TestClassifyApprovalConcurrent(t *testing.T) {
	classified := ClassifyApproval(errors.New("content already processed (current status: approved)"))
	require.Equal(t, CodeConcurrentModification, classified.Code)
	require.True(t, classified.Retryable)
	require.Equal(t, http.StatusConflict, classified.Status)
}

func TestClassifyApprovalContentNotFound(t *testing.T) {
	classified := ClassifyApproval(errors.New("content abc does not exist"))
	require.Equal(t, CodeContentNotFound, classified.Code)
	require.False(t, classified.Retryable)
}

func TestClassifyApprovalValidation(t *testing.T) {
	classified := ClassifyApproval(errors.New("validation failed on field reason"))
	require.Equal(t, CodeValidationError, classified.Code)
	require.Equal(t, SeverityLow, classified.Severity)
	require.Equal(t, http.StatusBadRequest, classified.Status)
}

func TestClassifyApprovalUnknown(t *testing.T) {
	classified := ClassifyApproval(errors.New("something odd happened"))
	require.Equal(t, CodeUnknownError, classified.Code)
	require.Equal(t, SeverityHigh, classified.Severity)
	require.True(t, classified.Retryable)
}

func TestClassifyApprovalPriorityOrder(t *testing.T) {
	// "already" and "not found" both match; the concurrent rule is listed
	// first so it wins.
	classified := ClassifyApproval(errors.New("already processed, row not found"))
	require.Equal(t, CodeConcurrentModification, classified.Code)

	// permission beats concurrent when both substrings are present
	classified = ClassifyApproval(errors.New("permission denied: item already locked"))
	require.Equal(t, CodePermissionDenied, classified.Code)
}

func TestClassifyApprovalPassthrough(t *testing.T) {
	original := &ApprovalError{Code: CodeContentNotFound, Message: "gone", Status: http.StatusNotFound}
	classified := ClassifyApproval(fmt.Errorf("wrapped: %w", original))
	require.Same(t, original, classified)
}

func TestClassifyApprovalNil(t *testing.T) {
	require.Nil(t, ClassifyApproval(nil))
	require.Nil(t, ClassifyApprovalAction(nil, "approve"))
}

func TestClassifyApprovalActionWording(t *testing.T) {
	classified := ClassifyApprovalAction(errors.New("content already processed (current status: rejected)"), "approve")
	require.Equal(t, CodeConcurrentModification, classified.Code)
	require.Contains(t, classified.UserMessage, "approve")

	classified = ClassifyApprovalAction(errors.New("content xyz does not exist"), "reject")
	require.Equal(t, CodeContentNotFound, classified.Code)
	require.Contains(t, classified.UserMessage, "reject")
}

func TestApprovalErrorHTTPError(t *testing.T) {
	cause := errors.New("boom")
	appErr := &ApprovalError{
		Code:        CodeDatabaseError,
		Message:     "internal detail",
		UserMessage: "safe message",
		Status:      http.StatusInternalServerError,
		Err:         cause,
	}
	httpErr := appErr.HTTPError()
	require.Equal(t, CodeDatabaseError, httpErr.Code)
	require.Equal(t, "safe message", httpErr.Message)
	require.ErrorIs(t, appErr, cause)
}
