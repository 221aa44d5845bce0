package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/facility-ops-api/internal/models"
	appErrors "github.com/noah-isme/facility-ops-api/pkg/errors"
)

type pendingListerStub struct {
	items []models.ContentApproval
	err   error
}

func (s *pendingListerStub) ListPending(ctx context.Context, facilityID string) ([]models.ContentApproval, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func samplePendingItems() []models.ContentApproval {
	return []models.ContentApproval{
		{
			ID:             "c-1",
			Title:          "Hand Hygiene Refresher",
			Type:           models.ContentTypeCourse,
			AuthorName:     "Alex Author",
			SubmittedAt:    time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
			RevisionNumber: 2,
		},
		{
			ID:                 "p-1",
			Title:              "Sepsis Protocol",
			Type:               models.ContentTypePolicy,
			AuthorName:         "Blair Writer",
			SubmittedAt:        time.Date(2026, 8, 21, 14, 30, 0, 0, time.UTC),
			PreviousRejections: 1,
		},
	}
}

func TestExportServiceCSV(t *testing.T) {
	svc := NewExportService(&pendingListerStub{items: samplePendingItems()}, nil, nil, nil)

	result, err := svc.PendingQueue(context.Background(), "fac-1", ExportFormatCSV)
	require.NoError(t, err)
	require.Equal(t, "text/csv", result.ContentType)
	require.True(t, strings.HasSuffix(result.Filename, ".csv"))

	body := string(result.Payload)
	require.Contains(t, body, "Title,Type,Author,Submitted,Revision,Previous Rejections")
	require.Contains(t, body, "Hand Hygiene Refresher,course,Alex Author")
	require.Contains(t, body, "Sepsis Protocol,policy,Blair Writer")
}

func TestExportServicePDF(t *testing.T) {
	svc := NewExportService(&pendingListerStub{items: samplePendingItems()}, nil, nil, nil)

	result, err := svc.PendingQueue(context.Background(), "fac-1", ExportFormatPDF)
	require.NoError(t, err)
	require.Equal(t, "application/pdf", result.ContentType)
	require.True(t, strings.HasPrefix(string(result.Payload), "%PDF"))
}

func TestExportServiceUnknownFormat(t *testing.T) {
	svc := NewExportService(&pendingListerStub{}, nil, nil, nil)

	_, err := svc.PendingQueue(context.Background(), "fac-1", ExportFormat("xlsx"))
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportServiceRequiresFacility(t *testing.T) {
	svc := NewExportService(&pendingListerStub{}, nil, nil, nil)
	_, err := svc.PendingQueue(context.Background(), "", ExportFormatCSV)
	require.ErrorIs(t, err, appErrors.ErrNoFacility)
}
