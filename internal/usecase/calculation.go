package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tax-engine/internal/domain"
	"tax-engine/internal/extract"
)

const (
	noDocumentsMessage = "No processed documents found. Please upload and process your tax documents first."
	calculatedMessage  = "Tax calculation based on real extracted data"
)

var hundred = decimal.NewFromInt(100)

// TaxCalculationUseCase orchestrates loading, extraction and calculation.
type TaxCalculationUseCase struct {
	repo      DocumentRepository
	returns   TaxReturnRepository
	extractor *extract.Extractor
	engine    *Engine
	logger    *zap.Logger
}

// NewTaxCalculationUseCase creates a new instance of the usecase. returns may be
// nil, in which case tax returns are not persisted. Reports for an empty source
// are never persisted either.
func NewTaxCalculationUseCase(repo DocumentRepository, returns TaxReturnRepository, logger *zap.Logger) *TaxCalculationUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaxCalculationUseCase{
		repo:      repo,
		returns:   returns,
		extractor: extract.NewExtractor(logger.Named("extract")),
		engine:    NewEngine(logger.Named("engine")),
		logger:    logger,
	}
}

// Calculate computes the tax report for source. Documents in req take
// precedence over the repository.
func (uc *TaxCalculationUseCase) Calculate(ctx context.Context, source string, req domain.CalculationRequest) (*domain.TaxReport, error) {
	// Step 1: Document loading
	docs := req.Documents
	if len(docs) == 0 && uc.repo != nil {
		var err error
		docs, err = uc.repo.GetProcessedDocuments(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("could not get processed documents: %w", err)
		}
	}
	status := domain.ParseFilingStatus(string(req.FilingStatus))
	uc.logger.Info("calculating tax",
		zap.String("source", source),
		zap.Int("documents", len(docs)),
		zap.String("filing_status", string(status)))

	// Step 2: Extraction
	extracted := uc.extractor.Extract(docs)

	// Step 3: Calculation
	result, err := uc.engine.Calculate(Input{
		Data:                    extracted.Data,
		FilingStatus:            status,
		UseItemizedDeductions:   req.UseItemizedDeductions,
		ItemizedDeductionAmount: req.ItemizedDeductionAmount,
		EstimatedTaxPayments:    req.EstimatedTaxPayments,
		TaxYear:                 req.TaxYear,
	})
	if err != nil {
		return nil, err
	}

	report := &domain.TaxReport{
		Overview:      Overview(result),
		Result:        result,
		ExtractedData: extracted.Data,
		Fields:        extracted.Fields,
		Warnings:      extracted.Warnings,
		DocumentCount: len(docs),
		Message:       calculatedMessage,
		Documents:     docs,
	}
	if len(docs) == 0 {
		report.Message = noDocumentsMessage
		return report, nil
	}

	// Step 4: Persist the overview
	if uc.returns != nil && source != "" {
		if err := uc.returns.SaveTaxReturn(ctx, source, result.Metadata.TaxYear, report.Overview); err != nil {
			return nil, fmt.Errorf("could not save tax return: %w", err)
		}
	}
	return report, nil
}

// Overview condenses a result into the dashboard figures.
func Overview(r *domain.ComprehensiveTaxResult) domain.TaxOverview {
	return domain.TaxOverview{
		TotalIncome:       r.Summary.AdjustedGrossIncome,
		StandardDeduction: r.Phases.Phase4DeductionDetermination.StandardDeduction,
		TaxableIncome:     r.Summary.TaxableIncome,
		EstimatedTax:      r.Summary.TotalTaxLiability,
		EffectiveTaxRate:  r.Summary.EffectiveTaxRate.Mul(hundred).Round(2),
		MarginalTaxRate:   r.Summary.MarginalTaxRate.Mul(hundred).Round(2),
	}
}
