// Package httpapi exposes the tax calculation over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tax-engine/internal/domain"
	"tax-engine/internal/form1040"
	"tax-engine/internal/gateway"
	"tax-engine/internal/usecase"
)

const (
	calculationFailedMessage = "Tax calculation failed. Please ensure you have uploaded and processed your tax documents."
	xlsxContentType          = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	healthTimeout            = 2 * time.Second
)

// Calculator computes a tax report for the documents of source.
type Calculator interface {
	Calculate(ctx context.Context, source string, req domain.CalculationRequest) (*domain.TaxReport, error)
}

// HealthFunc reports whether a backing store is reachable.
type HealthFunc func(ctx context.Context) error

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

type calculationRequest struct {
	FilingStatus            string          `json:"filingStatus"`
	UseItemizedDeductions   bool            `json:"useItemizedDeductions"`
	ItemizedDeductionAmount decimal.Decimal `json:"itemizedDeductionAmount"`
	EstimatedTaxPayments    decimal.Decimal `json:"estimatedTaxPayments"`
	TaxYear                 int             `json:"taxYear"`
	Documents               json.RawMessage `json:"documents"`
}

type Handler struct {
	calc           Calculator
	health         HealthFunc
	defaultTaxYear int
	logger         *zap.Logger
}

// NewHandler creates the HTTP handlers. health may be nil. defaultTaxYear is
// used when a request names no year; zero leaves the choice to the engine.
func NewHandler(calc Calculator, health HealthFunc, defaultTaxYear int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		calc:           calc,
		health:         health,
		defaultTaxYear: defaultTaxYear,
		logger:         logger,
	}
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := h.health(ctx); err != nil {
			h.sendError(c, http.StatusServiceUnavailable, "Document store unavailable", err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Calculate handles the JSON tax report.
func (h *Handler) Calculate(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// Form1040 returns the report mapped onto Form 1040 lines.
func (h *Handler) Form1040(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, form1040.Map(report.Result, report.ExtractedData, report.Documents))
}

// Form1040XLSX returns the Form 1040 mapping as a spreadsheet download.
func (h *Handler) Form1040XLSX(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	ret := form1040.Map(report.Result, report.ExtractedData, report.Documents)
	data, err := form1040.XLSX(ret)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to generate Form 1040 workbook", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="form1040-%d.xlsx"`, ret.TaxYear))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *Handler) report(c *gin.Context) (*domain.TaxReport, bool) {
	req, err := h.bindRequest(c)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}

	source := c.GetHeader(UserIDHeader)
	if source == "" && len(req.Documents) == 0 {
		h.sendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return nil, false
	}

	report, err := h.calc.Calculate(c.Request.Context(), source, req)
	if err != nil {
		if errors.Is(err, usecase.ErrCalculationFailed) {
			h.sendError(c, http.StatusInternalServerError, calculationFailedMessage, err)
			return nil, false
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to load tax documents", err)
		return nil, false
	}
	return report, true
}

// bindRequest reads the calculation options from the JSON body on POST and
// from the query string otherwise.
func (h *Handler) bindRequest(c *gin.Context) (domain.CalculationRequest, error) {
	var body calculationRequest
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			return domain.CalculationRequest{}, fmt.Errorf("invalid request body: %w", err)
		}
	} else if err := bindQuery(c, &body); err != nil {
		return domain.CalculationRequest{}, err
	}

	for name, amount := range map[string]decimal.Decimal{
		"itemizedDeductionAmount": body.ItemizedDeductionAmount,
		"estimatedTaxPayments":    body.EstimatedTaxPayments,
	} {
		if err := domain.CheckAmount(amount); err != nil {
			return domain.CalculationRequest{}, fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	req := domain.CalculationRequest{
		FilingStatus:            domain.ParseFilingStatus(body.FilingStatus),
		UseItemizedDeductions:   body.UseItemizedDeductions,
		ItemizedDeductionAmount: body.ItemizedDeductionAmount,
		EstimatedTaxPayments:    body.EstimatedTaxPayments,
		TaxYear:                 body.TaxYear,
	}
	if req.TaxYear == 0 {
		req.TaxYear = h.defaultTaxYear
	}
	if len(body.Documents) > 0 && string(body.Documents) != "null" {
		docs, err := gateway.DecodeDocuments("request", body.Documents, h.logger)
		if err != nil {
			return domain.CalculationRequest{}, fmt.Errorf("invalid documents: %w", err)
		}
		req.Documents = docs
	}
	return req, nil
}

func bindQuery(c *gin.Context, body *calculationRequest) error {
	body.FilingStatus = c.Query("filingStatus")

	var err error
	if v := c.Query("useItemizedDeductions"); v != "" {
		if body.UseItemizedDeductions, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("invalid useItemizedDeductions %q", v)
		}
	}
	if v := c.Query("itemizedDeductionAmount"); v != "" {
		if body.ItemizedDeductionAmount, err = decimal.NewFromString(v); err != nil {
			return fmt.Errorf("invalid itemizedDeductionAmount %q", v)
		}
	}
	if v := c.Query("estimatedTaxPayments"); v != "" {
		if body.EstimatedTaxPayments, err = decimal.NewFromString(v); err != nil {
			return fmt.Errorf("invalid estimatedTaxPayments %q", v)
		}
	}
	if v := c.Query("taxYear"); v != "" {
		if body.TaxYear, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid taxYear %q", v)
		}
	}
	return nil
}

func (h *Handler) sendError(c *gin.Context, status int, message string, err error) {
	correlationID := GetCorrelationID(c)
	if err != nil {
		h.logger.Error(message,
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("correlation_id", correlationID))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, CorrelationID: correlationID})
}
