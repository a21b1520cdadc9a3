package usecase

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tax-engine/internal/domain"
	"tax-engine/internal/taxtable"
)

// ErrCalculationFailed is returned for any failure inside the engine. The cause
// is logged, never returned to callers.
var ErrCalculationFailed = errors.New("tax calculation failed")

// Input is everything the engine needs besides the tax tables.
type Input struct {
	Data                    domain.TaxDocumentData
	FilingStatus            domain.FilingStatus
	UseItemizedDeductions   bool
	ItemizedDeductionAmount decimal.Decimal
	EstimatedTaxPayments    decimal.Decimal
	TaxYear                 int
}

// Engine runs the phased federal tax computation. It holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Calculate runs every phase in order and returns the complete result. On any
// failure it returns ErrCalculationFailed and no result.
func (e *Engine) Calculate(in Input) (result *domain.ComprehensiveTaxResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tax calculation panicked", zap.Any("panic", r))
			result, err = nil, ErrCalculationFailed
		}
	}()

	year, ok := taxtable.ForYear(in.TaxYear)
	if !ok && in.TaxYear != 0 {
		e.logger.Warn("no tax table for requested year, using default",
			zap.Int("requested_year", in.TaxYear),
			zap.Int("tax_year", year.TaxYear))
	}

	fs := in.FilingStatus
	if !fs.Valid() {
		fs = domain.FilingStatusSingle
	}

	c := &calculation{
		in:     in,
		year:   year,
		status: fs,
	}
	for _, p := range pipeline {
		if err := p.run(c); err != nil {
			e.logger.Error("tax calculation phase failed",
				zap.String("phase", p.name),
				zap.Error(err))
			return nil, ErrCalculationFailed
		}
		e.logger.Debug("phase complete", append([]zap.Field{zap.String("phase", p.name)}, p.fields(c)...)...)
	}

	res := c.result()
	e.logger.Info("tax calculated",
		zap.Int("tax_year", res.Metadata.TaxYear),
		zap.String("filing_status", string(res.Metadata.FilingStatus)),
		zap.String("total_tax", res.Summary.TotalTaxLiability.StringFixed(2)),
		zap.String("final_status", string(res.Phases.Phase11FinalBalance.FinalStatus)))
	return res, nil
}

var effectiveRatePlaces int32 = 4

func (c *calculation) result() *domain.ComprehensiveTaxResult {
	agi := c.phases.Phase3AdjustedGrossIncome.AdjustedGrossIncome
	total := c.phases.Phase9TotalTaxLiability.TotalTax

	effective := decimal.Zero
	if agi.IsPositive() {
		effective = total.DivRound(agi, effectiveRatePlaces)
	}

	return &domain.ComprehensiveTaxResult{
		Phases: c.phases,
		Summary: domain.TaxSummary{
			AdjustedGrossIncome: agi,
			TaxableIncome:       c.phases.Phase5TaxableIncome.TaxableIncome,
			TotalTaxLiability:   total,
			EffectiveTaxRate:    effective,
			MarginalTaxRate:     c.phases.Phase6RegularTax.MarginalRate,
		},
		Metadata: domain.ResultMetadata{
			TaxYear:               c.year.TaxYear,
			FilingStatus:          c.status,
			StandardDeductionUsed: c.phases.Phase4DeductionDetermination.UseStandardDeduction,
		},
	}
}

func phaseError(name string, err error) error {
	return fmt.Errorf("%s: %w", name, err)
}
