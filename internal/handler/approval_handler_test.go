package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/facility-ops-api/internal/dto"
	"github.com/noah-isme/facility-ops-api/internal/middleware"
	"github.com/noah-isme/facility-ops-api/internal/models"
	"github.com/noah-isme/facility-ops-api/internal/service"
	appErrors "github.com/noah-isme/facility-ops-api/pkg/errors"
)

type fakeApprovalSrv struct {
	items       []models.ContentApproval
	listErr     error
	decision    *models.ContentDecision
	decisionErr error
	lastID      string
}

func (f *fakeApprovalSrv) ListPending(context.Context, string) ([]models.ContentApproval, error) {
	return f.items, f.listErr
}

func (f *fakeApprovalSrv) Approve(_ context.Context, contentID string, _ dto.ApproveContentRequest, _ *models.JWTClaims) (*models.ContentDecision, error) {
	f.lastID = contentID
	return f.decision, f.decisionErr
}

func (f *fakeApprovalSrv) Reject(_ context.Context, contentID string, _ dto.RejectContentRequest, _ *models.JWTClaims) (*models.ContentDecision, error) {
	f.lastID = contentID
	return f.decision, f.decisionErr
}

type fakeExportSrv struct {
	result *service.ExportResult
	err    error
}

func (f *fakeExportSrv) PendingQueue(context.Context, string, service.ExportFormat) (*service.ExportResult, error) {
	return f.result, f.err
}

type approvalEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func approvalTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "mgr-1", Role: models.RoleManager})
	c.Set(middleware.ContextFacilityKey, "fac-1")
	return c, rec
}

func TestApprovalHandlerList(t *testing.T) {
	srv := &fakeApprovalSrv{items: []models.ContentApproval{
		{ID: "c-1", Type: models.ContentTypeCourse},
		{ID: "p-1", Type: models.ContentTypePolicy},
	}}
	handler := NewApprovalHandler(srv, nil)

	c, rec := approvalTestContext(t, http.MethodGet, "/approvals/pending", "")
	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope approvalEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.EqualValues(t, 2, envelope.Meta["count"])
}

func TestApprovalHandlerListTypeFilter(t *testing.T) {
	srv := &fakeApprovalSrv{items: []models.ContentApproval{
		{ID: "c-1", Type: models.ContentTypeCourse},
		{ID: "p-1", Type: models.ContentTypePolicy},
	}}
	handler := NewApprovalHandler(srv, nil)

	c, rec := approvalTestContext(t, http.MethodGet, "/approvals/pending?type=policy", "")
	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope approvalEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.EqualValues(t, 1, envelope.Meta["count"])
}

func TestApprovalHandlerListUnknownType(t *testing.T) {
	handler := NewApprovalHandler(&fakeApprovalSrv{}, nil)

	c, rec := approvalTestContext(t, http.MethodGet, "/approvals/pending?type=webinar", "")
	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApprovalHandlerApprove(t *testing.T) {
	srv := &fakeApprovalSrv{decision: &models.ContentDecision{
		ContentID: "c-1",
		Type:      models.ContentTypeCourse,
		Status:    models.ApprovalStatusApproved,
		DecidedBy: "mgr-1",
		DecidedAt: time.Now().UTC(),
	}}
	handler := NewApprovalHandler(srv, nil)

	c, rec := approvalTestContext(t, http.MethodPost, "/approvals/c-1/approve", `{"type":"course"}`)
	c.Params = gin.Params{{Key: "id", Value: "c-1"}}
	handler.Approve(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c-1", srv.lastID)
}

func TestApprovalHandlerApproveMalformedBody(t *testing.T) {
	handler := NewApprovalHandler(&fakeApprovalSrv{}, nil)

	c, rec := approvalTestContext(t, http.MethodPost, "/approvals/c-1/approve", `{"type":`)
	handler.Approve(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApprovalHandlerConflictCarriesMeta(t *testing.T) {
	srv := &fakeApprovalSrv{decisionErr: &appErrors.ApprovalError{
		Code:        appErrors.CodeConcurrentModification,
		Message:     "already processed",
		UserMessage: "This item was already processed by someone else.",
		Severity:    appErrors.SeverityMedium,
		Retryable:   true,
		Status:      http.StatusConflict,
	}}
	handler := NewApprovalHandler(srv, nil)

	c, rec := approvalTestContext(t, http.MethodPost, "/approvals/c-1/approve", `{"type":"course"}`)
	c.Params = gin.Params{{Key: "id", Value: "c-1"}}
	handler.Approve(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var envelope approvalEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "CONCURRENT_MODIFICATION", envelope.Error["code"])
	assert.Equal(t, "medium", envelope.Meta["severity"])
	assert.Equal(t, true, envelope.Meta["retryable"])
}

func TestApprovalHandlerReject(t *testing.T) {
	srv := &fakeApprovalSrv{decision: &models.ContentDecision{
		ContentID: "p-1",
		Type:      models.ContentTypePolicy,
		Status:    models.ApprovalStatusRejected,
		DecidedBy: "mgr-1",
		DecidedAt: time.Now().UTC(),
		Reason:    "needs work",
	}}
	handler := NewApprovalHandler(srv, nil)

	c, rec := approvalTestContext(t, http.MethodPost, "/approvals/p-1/reject", `{"type":"policy","reason":"needs work"}`)
	c.Params = gin.Params{{Key: "id", Value: "p-1"}}
	handler.Reject(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p-1", srv.lastID)
}

func TestApprovalHandlerExport(t *testing.T) {
	exports := &fakeExportSrv{result: &service.ExportResult{
		Payload:     []byte("Title,Type\n"),
		Filename:    "pending-approvals.csv",
		ContentType: "text/csv",
	}}
	handler := NewApprovalHandler(&fakeApprovalSrv{}, exports)

	c, rec := approvalTestContext(t, http.MethodGet, "/approvals/pending/export?format=csv", "")
	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "pending-approvals.csv")
}
