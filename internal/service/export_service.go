package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/facility-ops-api/internal/models"
	appErrors "github.com/noah-isme/facility-ops-api/pkg/errors"
	"github.com/noah-isme/facility-ops-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type pendingLister interface {
	ListPending(ctx context.Context, facilityID string) ([]models.ContentApproval, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries the rendered document and response metadata.
type ExportResult struct {
	Payload     []byte
	Filename    string
	ContentType string
}

// ExportService renders the pending review queue as a downloadable document.
type ExportService struct {
	gateway pendingLister
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(gateway pendingLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{gateway: gateway, csv: csv, pdf: pdf, logger: logger}
}

// PendingQueue renders the facility's pending items in the requested format.
func (s *ExportService) PendingQueue(ctx context.Context, facilityID string, format ExportFormat) (*ExportResult, error) {
	if facilityID == "" {
		return nil, appErrors.ErrNoFacility
	}

	items, err := s.gateway.ListPending(ctx, facilityID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending content")
	}

	dataset := buildPendingDataset(items)
	stamp := time.Now().UTC().Format("20060102-150405")

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Payload:     payload,
			Filename:    fmt.Sprintf("pending-approvals-%s.csv", stamp),
			ContentType: "text/csv",
		}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Pending Approvals")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Payload:     payload,
			Filename:    fmt.Sprintf("pending-approvals-%s.pdf", stamp),
			ContentType: "application/pdf",
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func buildPendingDataset(items []models.ContentApproval) export.Dataset {
	headers := []string{"Title", "Type", "Author", "Submitted", "Revision", "Previous Rejections"}
	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, map[string]string{
			"Title":               item.Title,
			"Type":                string(item.Type),
			"Author":              item.AuthorName,
			"Submitted":           item.SubmittedAt.UTC().Format(time.RFC3339),
			"Revision":            strconv.Itoa(item.RevisionNumber),
			"Previous Rejections": strconv.Itoa(item.PreviousRejections),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
