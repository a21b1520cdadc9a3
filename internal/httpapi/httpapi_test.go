package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"tax-engine/internal/domain"
	"tax-engine/internal/form1040"
	"tax-engine/internal/httpapi"
	"tax-engine/internal/usecase"
	mock_usecase "tax-engine/internal/usecase/mocks"
)

const w2Body = `{
	"filingStatus": "single",
	"documents": [{
		"id": "w2-1",
		"fileName": "w2.pdf",
		"documentType": "W2",
		"confidence": 0.97,
		"extractedData": [
			{"fieldName": "WagesTipsAndOtherCompensation", "fieldValue": 60000, "confidence": 0.95},
			{"fieldName": "FederalIncomeTaxWithheld", "fieldValue": 5000, "confidence": 0.95}
		]
	}]
}`

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newRouter(repo usecase.DocumentRepository, returns usecase.TaxReturnRepository, health httpapi.HealthFunc) *gin.Engine {
	uc := usecase.NewTaxCalculationUseCase(repo, returns, zap.NewNop())
	h := httpapi.NewHandler(uc, health, 2025, zap.NewNop())
	return httpapi.NewRouter(h, []string{"*"}, zap.NewNop())
}

func w2Document(wages string) domain.ProcessedDocument {
	return domain.ProcessedDocument{
		ID:           "db-w2",
		FileName:     "w2.pdf",
		DocumentType: domain.DocumentTypeW2,
		Confidence:   0.97,
		ExtractedData: []domain.RawField{
			{FieldName: "WagesTipsAndOtherCompensation", FieldValue: json.RawMessage(wages), Confidence: 0.95},
		},
	}
}

// reportBody is the part of the report response the tests read back.
type reportBody struct {
	Overview      domain.TaxOverview             `json:"taxCalculation"`
	Result        *domain.ComprehensiveTaxResult `json:"comprehensiveResult"`
	DocumentCount int                            `json:"documentCount"`
	Message       string                         `json:"message"`
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestHandler_Calculate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		userID     string
		setup      func(repo *mock_usecase.MockDocumentRepository, returns *mock_usecase.MockTaxReturnRepository)
		wantStatus int
		verify     func(t *testing.T, body []byte)
	}{
		{
			name:       "documents in the request body",
			method:     http.MethodPost,
			target:     "/api/tax-calculation",
			body:       w2Body,
			wantStatus: http.StatusOK,
			verify: func(t *testing.T, body []byte) {
				var report reportBody
				require.NoError(t, json.Unmarshal(body, &report))
				assert.Equal(t, 1, report.DocumentCount)
				assert.Equal(t, "Tax calculation based on real extracted data", report.Message)
				assertMoney(t, "44250", report.Overview.TaxableIncome)
				assertMoney(t, "5071.50", report.Overview.EstimatedTax)
				require.NotNil(t, report.Result)
				assert.Equal(t, 2025, report.Result.Metadata.TaxYear)
			},
		},
		{
			name:   "stored documents selected by user header",
			method: http.MethodGet,
			target: "/api/tax-calculation?filingStatus=married-jointly&taxYear=2025",
			userID: "user-1",
			setup: func(repo *mock_usecase.MockDocumentRepository, returns *mock_usecase.MockTaxReturnRepository) {
				repo.EXPECT().GetProcessedDocuments(gomock.Any(), "user-1").
					Return([]domain.ProcessedDocument{w2Document(`100000`)}, nil)
				returns.EXPECT().SaveTaxReturn(gomock.Any(), "user-1", 2025, gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusOK,
			verify: func(t *testing.T, body []byte) {
				var report reportBody
				require.NoError(t, json.Unmarshal(body, &report))
				assertMoney(t, "68500", report.Overview.TaxableIncome)
				assert.Equal(t, domain.FilingStatusMarriedFilingJointly, report.Result.Metadata.FilingStatus)
			},
		},
		{
			name:       "no user and no documents",
			method:     http.MethodPost,
			target:     "/api/tax-calculation",
			body:       `{"filingStatus": "single"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed body",
			method:     http.MethodPost,
			target:     "/api/tax-calculation",
			body:       `{"filingStatus": `,
			userID:     "user-1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "posted documents all invalid",
			method:     http.MethodPost,
			target:     "/api/tax-calculation",
			body:       `{"filingStatus": "single", "documents": [{"fileName": "w2.pdf", "extractedData": []}]}`,
			userID:     "user-1",
			wantStatus: http.StatusBadRequest,
			verify: func(t *testing.T, body []byte) {
				var resp httpapi.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Contains(t, resp.Error, "no valid documents")
			},
		},
		{
			name:       "amount out of range in body",
			method:     http.MethodPost,
			target:     "/api/tax-calculation",
			body:       `{"estimatedTaxPayments": 1e200000000}`,
			userID:     "user-1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "amount out of range in query",
			method:     http.MethodGet,
			target:     "/api/tax-calculation?itemizedDeductionAmount=1e-200000000",
			userID:     "user-1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed query",
			method:     http.MethodGet,
			target:     "/api/tax-calculation?taxYear=next",
			userID:     "user-1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "repository failure",
			method: http.MethodGet,
			target: "/api/tax-calculation",
			userID: "user-1",
			setup: func(repo *mock_usecase.MockDocumentRepository, returns *mock_usecase.MockTaxReturnRepository) {
				repo.EXPECT().GetProcessedDocuments(gomock.Any(), "user-1").Return(nil, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
			verify: func(t *testing.T, body []byte) {
				var resp httpapi.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "Failed to load tax documents", resp.Error)
				assert.NotEmpty(t, resp.CorrelationID)
			},
		},
		{
			name:   "no stored documents",
			method: http.MethodPost,
			target: "/api/tax-calculation",
			userID: "user-2",
			setup: func(repo *mock_usecase.MockDocumentRepository, returns *mock_usecase.MockTaxReturnRepository) {
				repo.EXPECT().GetProcessedDocuments(gomock.Any(), "user-2").Return(nil, nil)
			},
			wantStatus: http.StatusOK,
			verify: func(t *testing.T, body []byte) {
				var report reportBody
				require.NoError(t, json.Unmarshal(body, &report))
				assert.Equal(t, 0, report.DocumentCount)
				assert.Contains(t, report.Message, "No processed documents found")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock_usecase.NewMockDocumentRepository(ctrl)
			returns := mock_usecase.NewMockTaxReturnRepository(ctrl)
			if tt.setup != nil {
				tt.setup(repo, returns)
			}
			router := newRouter(repo, returns, nil)

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.userID != "" {
				req.Header.Set(httpapi.UserIDHeader, tt.userID)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.verify != nil {
				tt.verify(t, w.Body.Bytes())
			}
		})
	}
}

func TestHandler_Form1040(t *testing.T) {
	router := newRouter(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/tax-calculation/form1040", strings.NewReader(w2Body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var ret form1040.Return
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ret))
	line, ok := ret.Line("1a")
	require.True(t, ok)
	assertMoney(t, "60000", line.Amount)
	line, ok = ret.Line("15")
	require.True(t, ok)
	assertMoney(t, "5071.50", line.Amount)
}

func TestHandler_Form1040XLSX(t *testing.T) {
	router := newRouter(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/tax-calculation/form1040.xlsx", strings.NewReader(w2Body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="form1040-2025.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Form 1040", "Brackets", "Sources"}, f.GetSheetList())
}

func TestHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		health     httpapi.HealthFunc
		wantStatus int
	}{
		{name: "no store configured", wantStatus: http.StatusOK},
		{name: "store reachable", health: func(context.Context) error { return nil }, wantStatus: http.StatusOK},
		{
			name:       "store unreachable",
			health:     func(context.Context) error { return errors.New("dial tcp: timeout") },
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(nil, nil, tt.health)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestCorrelationID(t *testing.T) {
	router := gin.New()
	router.Use(httpapi.CorrelationID())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"correlation_id": httpapi.GetCorrelationID(c)})
	})

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(httpapi.CorrelationIDHeader, "existing-id")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "existing-id", w.Header().Get(httpapi.CorrelationIDHeader))
		assert.Contains(t, w.Body.String(), "existing-id")
	})

	t.Run("generates id when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		id := w.Header().Get(httpapi.CorrelationIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})
}
