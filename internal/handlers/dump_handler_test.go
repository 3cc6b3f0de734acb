package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"braindump_backend/internal/models"
	"braindump_backend/internal/services"
	"braindump_backend/internal/services/dto"
	"braindump_backend/internal/validator"
	"braindump_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDumpService struct {
	createResponse *dto.CreateDumpResponse
	createErr      error
	listResponse   *dto.ListDumpsResponse
}

func (s *stubDumpService) Create(context.Context, string, string) (*dto.CreateDumpResponse, error) {
	return s.createResponse, s.createErr
}

func (s *stubDumpService) List(string) (*dto.ListDumpsResponse, error) {
	return s.listResponse, nil
}

func (s *stubDumpService) ToggleComplete(_, dumpID string, completed bool) (*models.BrainDump, error) {
	if dumpID == "missing" {
		return nil, apperrors.ErrDumpNotFound
	}
	return &models.BrainDump{BaseModel: models.BaseModel{ID: dumpID}, Completed: completed}, nil
}

func (s *stubDumpService) UpdateText(_, dumpID, text string) (*models.BrainDump, error) {
	return &models.BrainDump{BaseModel: models.BaseModel{ID: dumpID}, Text: text}, nil
}

func (s *stubDumpService) Delete(string, string) error { return nil }

type stubQuotaService struct {
	status *dto.QuotaStatus
}

func (s *stubQuotaService) CheckLimit(string) (*dto.QuotaStatus, error) { return s.status, nil }
func (s *stubQuotaService) IncrementDump(string) error                  { return nil }

func newDumpTestRouter(dumpSvc services.DumpService, quotaSvc services.QuotaService, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if authenticated {
		router.Use(func(c *gin.Context) {
			c.Set("userID", "user-1")
		})
	}

	handler := NewDumpHandler(NewBaseHandler(validator.New()), dumpSvc, quotaSvc)
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDumpCreate_ReturnsCreatedItems(t *testing.T) {
	dumpSvc := &stubDumpService{
		createResponse: &dto.CreateDumpResponse{
			Items: []dto.DumpItem{{Category: "task", RefinedText: "Buy milk"}},
			Dumps: []models.BrainDump{{BaseModel: models.BaseModel{ID: "dump-1"}, Category: "task", Text: "Buy milk"}},
		},
	}
	router := newDumpTestRouter(dumpSvc, &stubQuotaService{}, true)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/dumps", gin.H{"text": "buy milk"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "dump-1")
	assert.Contains(t, rec.Body.String(), "refinedText")
}

func TestDumpCreate_LimitReachedIs403WithErrorEnvelope(t *testing.T) {
	dumpSvc := &stubDumpService{createErr: apperrors.ErrDailyLimitReached}
	router := newDumpTestRouter(dumpSvc, &stubQuotaService{}, true)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/dumps", gin.H{"text": "one too many"})

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var envelope struct {
		Error struct {
			Code   string `json:"code"`
			Domain string `json:"domain"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "LIMIT_EXCEEDED", envelope.Error.Code)
	assert.Equal(t, "quota", envelope.Error.Domain)
}

func TestDumpCreate_BlankTextFailsValidation(t *testing.T) {
	router := newDumpTestRouter(&stubDumpService{}, &stubQuotaService{}, true)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/dumps", gin.H{"text": "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "text")
}

func TestDumpCreate_MissingBodyIsBadRequest(t *testing.T) {
	router := newDumpTestRouter(&stubDumpService{}, &stubQuotaService{}, true)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/dumps", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDumpRoutes_RequireAuthentication(t *testing.T) {
	router := newDumpTestRouter(&stubDumpService{}, &stubQuotaService{}, false)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/dumps", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToggleComplete_UnknownDumpIs404(t *testing.T) {
	router := newDumpTestRouter(&stubDumpService{}, &stubQuotaService{}, true)

	rec := doJSON(t, router, http.MethodPatch, "/api/v1/dumps/missing/complete", gin.H{"completed": true})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleComplete_FalseValueIsAccepted(t *testing.T) {
	router := newDumpTestRouter(&stubDumpService{}, &stubQuotaService{}, true)

	// completed=false must bind; a plain bool field would read it as unset.
	rec := doJSON(t, router, http.MethodPatch, "/api/v1/dumps/dump-1/complete", gin.H{"completed": false})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completed":false`)
}

func TestQuotaEndpoint_ReportsPremiumSentinel(t *testing.T) {
	quota := &stubQuotaService{status: &dto.QuotaStatus{
		CanDump:        true,
		RemainingDumps: dto.UnlimitedDumps,
		IsPremium:      true,
	}}
	router := newDumpTestRouter(&stubDumpService{}, quota, true)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/quota", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"remaining_dumps":-1`)
	assert.Contains(t, rec.Body.String(), `"is_premium":true`)
}
