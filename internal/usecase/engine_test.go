package usecase_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"tax-engine/internal/domain"
	"tax-engine/internal/usecase"
)

func TestEngine_Calculate(t *testing.T) {
	tests := []struct {
		name   string
		input  usecase.Input
		verify func(t *testing.T, r *domain.ComprehensiveTaxResult)
	}{
		{
			name: "single filer with wages and withholding owes the difference",
			input: usecase.Input{
				Data:         taxData(func(d *domain.TaxDocumentData) { d.Income.Wages = dec("60000"); d.Withholdings.FederalTax = dec("5000") }),
				FilingStatus: domain.FilingStatusSingle,
			},
			verify: func(t *testing.T, r *domain.ComprehensiveTaxResult) {
				p := r.Phases
				assertMoney(t, "60000", p.Phase3AdjustedGrossIncome.AdjustedGrossIncome)
				assertMoney(t, "15750", p.Phase4DeductionDetermination.SelectedDeduction)
				assertMoney(t, "44250", p.Phase5TaxableIncome.TaxableIncome)
				assertMoney(t, "5071.50", p.Phase6RegularTax.OrdinaryIncomeTax)
				assertMoney(t, "5000", p.Phase11FinalBalance.TotalPayments)
				assertMoney(t, "71.50", p.Phase11FinalBalance.BalanceDue)
				assertMoney(t, "0", p.Phase11FinalBalance.RefundAmount)
				assert.Equal(t, domain.BalanceStatusOwed, p.Phase11FinalBalance.FinalStatus)
				assert.Len(t, p.Phase6RegularTax.BracketBreakdown, 2)
				assert.Equal(t, "0.0845", r.Summary.EffectiveTaxRate.String())
				assert.Equal(t, "0.12", r.Summary.MarginalTaxRate.String())
				assert.True(t, r.Metadata.StandardDeductionUsed)
				assert.Equal(t, 2025, r.Metadata.TaxYear)
			},
		},
		{
			name: "self-employment income pays SE tax and deducts half of it",
			input: usecase.Input{
				Data:         taxData(func(d *domain.TaxDocumentData) { d.Income.NonEmployeeCompensation = dec("50000") }),
				FilingStatus: domain.FilingStatusSingle,
			},
			verify: func(t *testing.T, r *domain.ComprehensiveTaxResult) {
				se := r.Phases.Phase7SelfEmploymentTax
				assertMoney(t, "46175", se.NetEarnings)
				assertMoney(t, "5725.70", se.SocialSecurityTax)
				assertMoney(t, "1339.08", se.MedicareTax)
				assertMoney(t, "7064.78", se.TotalSETax)
				assertMoney(t, "3532.39", se.SEDeduction)
				assertMoney(t, "3532.39", r.Phases.Phase3AdjustedGrossIncome.AboveTheLineDeductions)
				assertMoney(t, "46467.61", r.Summary.AdjustedGrossIncome)
				assertMoney(t, "30717.61", r.Summary.TaxableIncome)
				assertMoney(t, "3447.61", r.Phases.Phase6RegularTax.OrdinaryIncomeTax)
				assertMoney(t, "10512.39", r.Summary.TotalTaxLiability)
				assertMoney(t, "10512.39", r.Phases.Phase11FinalBalance.BalanceDue)
				assertMoney(t, "50000", r.Phases.Phase2IncomeAggregation.EarnedIncome)
			},
		},
		{
			name:  "no income yields an all-zero result",
			input: usecase.Input{Data: domain.NewTaxDocumentData()},
			verify: func(t *testing.T, r *domain.ComprehensiveTaxResult) {
				assertMoney(t, "0", r.Summary.AdjustedGrossIncome)
				assertMoney(t, "0", r.Summary.TaxableIncome)
				assertMoney(t, "0", r.Summary.TotalTaxLiability)
				assert.True(t, r.Summary.EffectiveTaxRate.IsZero())
				assert.True(t, r.Summary.MarginalTaxRate.IsZero())
				assert.Empty(t, r.Phases.Phase6RegularTax.BracketBreakdown)
				assert.NotNil(t, r.Phases.Phase6RegularTax.BracketBreakdown)
				assert.Equal(t, domain.BalanceStatusRefund, r.Phases.Phase11FinalBalance.FinalStatus)
				assertMoney(t, "0", r.Phases.Phase11FinalBalance.RefundAmount)
				assertMoney(t, "0", r.Phases.Phase11FinalBalance.BalanceDue)
				assert.Equal(t, domain.FilingStatusSingle, r.Metadata.FilingStatus)
			},
		},
		{
			name: "investment income above the NIIT threshold",
			input: usecase.Input{
				Data:         taxData(func(d *domain.TaxDocumentData) { d.Income.Wages = dec("210000"); d.Income.Interest = dec("20000") }),
				FilingStatus: domain.FilingStatusSingle,
			},
			verify: func(t *testing.T, r *domain.ComprehensiveTaxResult) {
				it := r.Phases.Phase8InvestmentTax
				assertMoney(t, "20000", it.NetInvestmentIncome)
				assertMoney(t, "230000", it.ModifiedAGI)
				assertMoney(t, "200000", it.Threshold)
				assertMoney(t, "760", it.NIITTax)
				assertMoney(t, "90", r.Phases.Phase7SelfEmploymentTax.AdditionalMedicareTax)
				total := r.Phases.Phase6RegularTax.OrdinaryIncomeTax.Add(r.Phases.Phase7SelfEmploymentTax.TotalSETax).Add(it.NIITTax)
				assertMoney(t, total.String(), r.Summary.TotalTaxLiability)
			},
		},
		{
			name: "investment income below the NIIT threshold",
			input: usecase.Input{
				Data:         taxData(func(d *domain.TaxDocumentData) { d.Income.Wages = dec("175000"); d.Income.Interest = dec("20000") }),
				FilingStatus: domain.FilingStatusSingle,
			},
			verify: func(t *testing.T, r *domain.ComprehensiveTaxResult) {
				assertMoney(t, "195000", r.Phases.Phase8InvestmentTax.ModifiedAGI)
				assertMoney(t, "0", r.Phases.Phase8InvestmentTax.NIITTax)
			},
		},
		{
			name: "itemized deductions win when larger and elected",
			input: usecase.Input{
				Data:                    taxData(func(d *domain.TaxDocumentData) { d.Income.Wages = dec("100000") }),
				FilingStatus:            domain.FilingStatusMarriedFilingJointly,
				UseItemizedDeductions:   true,
				ItemizedDeductionAmount: dec("40000"),
			},
			verify: func(t *testing.T, r *domain.ComprehensiveTaxResult) {
				d := r.Phases.Phase4DeductionDetermination
				assertMoney(t, "31500", d.StandardDeduction)
				assertMoney(t, "40000", d.SelectedDeduction)
				assert.False(t, d.UseStandardDeduction)
				assert.False(t, r.Metadata.StandardDeductionUsed)
				assertMoney(t, "60000", r.Summary.TaxableIncome)
				assertMoney(t, "6723", r.Phases.Phase6RegularTax.OrdinaryIncomeTax)
			},
		},
		{
			name: "estimated payments produce a refund",
			input: usecase.Input{
				Data:                 taxData(func(d *domain.TaxDocumentData) { d.Income.Wages = dec("60000"); d.Withholdings.FederalTax = dec("5000") }),
				FilingStatus:         domain.FilingStatusSingle,
				EstimatedTaxPayments: dec("1000"),
			},
			verify: func(t *testing.T, r *domain.ComprehensiveTaxResult) {
				fb := r.Phases.Phase11FinalBalance
				assertMoney(t, "6000", fb.TotalPayments)
				assertMoney(t, "928.50", fb.RefundAmount)
				assertMoney(t, "0", fb.BalanceDue)
				assert.Equal(t, domain.BalanceStatusRefund, fb.FinalStatus)
			},
		},
		{
			name: "capital gains are part of total income",
			input: usecase.Input{
				Data:         taxData(func(d *domain.TaxDocumentData) { d.Income.Wages = dec("40000"); d.Income.CapitalGains = dec("5000") }),
				FilingStatus: domain.FilingStatusSingle,
			},
			verify: func(t *testing.T, r *domain.ComprehensiveTaxResult) {
				assertMoney(t, "40000", r.Phases.Phase2IncomeAggregation.TotalOrdinaryIncome)
				assertMoney(t, "45000", r.Phases.Phase3AdjustedGrossIncome.TotalIncome)
				assertMoney(t, "5000", r.Phases.Phase8InvestmentTax.NetInvestmentIncome)
			},
		},
		{
			name: "unknown tax year uses the default table",
			input: usecase.Input{
				Data:    taxData(func(d *domain.TaxDocumentData) { d.Income.Wages = dec("60000") }),
				TaxYear: 1999,
			},
			verify: func(t *testing.T, r *domain.ComprehensiveTaxResult) {
				assert.Equal(t, 2025, r.Metadata.TaxYear)
				assertMoney(t, "44250", r.Summary.TaxableIncome)
			},
		},
		{
			name: "2024 table",
			input: usecase.Input{
				Data:         taxData(func(d *domain.TaxDocumentData) { d.Income.Wages = dec("60000") }),
				FilingStatus: domain.FilingStatusSingle,
				TaxYear:      2024,
			},
			verify: func(t *testing.T, r *domain.ComprehensiveTaxResult) {
				assert.Equal(t, 2024, r.Metadata.TaxYear)
				assertMoney(t, "14600", r.Phases.Phase4DeductionDetermination.StandardDeduction)
				assertMoney(t, "45400", r.Summary.TaxableIncome)
			},
		},
	}

	engine := usecase.NewEngine(zaptest.NewLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := engine.Calculate(tt.input)
			require.NoError(t, err)
			require.NotNil(t, r)
			assertConsistent(t, r)
			tt.verify(t, r)
		})
	}
}

func TestEngine_SEDeductionLowersAGIComparedToWages(t *testing.T) {
	engine := usecase.NewEngine(nil)

	selfEmployed, err := engine.Calculate(usecase.Input{Data: taxData(func(d *domain.TaxDocumentData) { d.Income.NonEmployeeCompensation = dec("50000") })})
	require.NoError(t, err)
	employed, err := engine.Calculate(usecase.Input{Data: taxData(func(d *domain.TaxDocumentData) { d.Income.Wages = dec("50000") })})
	require.NoError(t, err)

	assertMoney(t, "50000", employed.Summary.AdjustedGrossIncome)
	assertMoney(t, "3871.50", employed.Summary.TotalTaxLiability)
	assert.True(t, selfEmployed.Summary.AdjustedGrossIncome.LessThan(employed.Summary.AdjustedGrossIncome))
}

func TestEngine_Idempotent(t *testing.T) {
	engine := usecase.NewEngine(nil)
	in := usecase.Input{
		Data: taxData(func(d *domain.TaxDocumentData) {
			d.Income.Wages = dec("83250.17")
			d.Income.Dividends = dec("1200.40")
			d.Income.NonEmployeeCompensation = dec("12500")
			d.Withholdings.FederalTax = dec("9100")
			d.Breakdown[domain.BucketWages] = []domain.SourceEntry{{DocumentID: "w2", Amount: dec("83250.17"), Included: true}}
		}),
		FilingStatus:         domain.FilingStatusHeadOfHousehold,
		EstimatedTaxPayments: dec("500"),
	}

	first, err := engine.Calculate(in)
	require.NoError(t, err)
	second, err := engine.Calculate(in)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestEngine_PropertiesAcrossStatuses(t *testing.T) {
	engine := usecase.NewEngine(nil)
	step := decimal.NewFromInt(7919)
	limit := decimal.NewFromInt(800000)

	for _, fs := range domain.FilingStatuses {
		t.Run(string(fs), func(t *testing.T) {
			previous := decimal.Zero
			for wages := decimal.Zero; wages.LessThan(limit); wages = wages.Add(step) {
				w := wages
				r, err := engine.Calculate(usecase.Input{
					Data: taxData(func(d *domain.TaxDocumentData) {
						d.Income.Wages = w
						d.Withholdings.FederalTax = dec("12000")
					}),
					FilingStatus: fs,
				})
				require.NoError(t, err)
				assertConsistent(t, r)
				assert.False(t, r.Summary.TotalTaxLiability.LessThan(previous), "tax decreased at wages %s", w)
				previous = r.Summary.TotalTaxLiability
			}
		})
	}
}

func TestEngine_LogsEveryPhaseInOrder(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	engine := usecase.NewEngine(zap.New(core))

	_, err := engine.Calculate(usecase.Input{Data: taxData(func(d *domain.TaxDocumentData) { d.Income.Wages = dec("60000") })})
	require.NoError(t, err)

	var phases []string
	for _, entry := range logs.FilterMessage("phase complete").All() {
		phases = append(phases, entry.ContextMap()["phase"].(string))
	}
	assert.Equal(t, []string{
		"IncomeCollection",
		"IncomeAggregation",
		"SelfEmploymentTax",
		"AdjustedGrossIncome",
		"DeductionDetermination",
		"TaxableIncome",
		"RegularTax",
		"InvestmentTax",
		"TotalTaxLiability",
		"WithholdingsAndCredits",
		"FinalBalance",
	}, phases)
}

func TestEngine_NegativeElectionsClamped(t *testing.T) {
	engine := usecase.NewEngine(nil)
	r, err := engine.Calculate(usecase.Input{
		Data:                    taxData(func(d *domain.TaxDocumentData) { d.Income.Wages = dec("60000") }),
		UseItemizedDeductions:   true,
		ItemizedDeductionAmount: dec("-5000"),
		EstimatedTaxPayments:    dec("-100"),
	})
	require.NoError(t, err)

	assertMoney(t, "0", r.Phases.Phase4DeductionDetermination.ItemizedDeduction)
	assertMoney(t, "15750", r.Phases.Phase4DeductionDetermination.SelectedDeduction)
	assertMoney(t, "0", r.Phases.Phase11FinalBalance.EstimatedTaxPayments)
}

func assertConsistent(t *testing.T, r *domain.ComprehensiveTaxResult) {
	t.Helper()
	p := r.Phases

	agi := p.Phase3AdjustedGrossIncome
	assert.True(t, agi.TotalIncome.Sub(agi.AboveTheLineDeductions).Equal(agi.AdjustedGrossIncome), "AGI")

	taxable := agi.AdjustedGrossIncome.Sub(p.Phase4DeductionDetermination.SelectedDeduction)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	assert.True(t, taxable.Equal(p.Phase5TaxableIncome.TaxableIncome), "taxable income")

	sum := decimal.Zero
	for _, b := range p.Phase6RegularTax.BracketBreakdown {
		sum = sum.Add(b.TaxFromThisBracket)
	}
	assert.True(t, sum.Equal(p.Phase6RegularTax.OrdinaryIncomeTax), "bracket sum")

	total := p.Phase6RegularTax.OrdinaryIncomeTax.
		Add(p.Phase7SelfEmploymentTax.TotalSETax).
		Add(p.Phase8InvestmentTax.NIITTax).
		Sub(p.Phase9TotalTaxLiability.NonrefundableCredits)
	assert.True(t, total.Equal(p.Phase9TotalTaxLiability.TotalTax), "total tax")
	assert.False(t, p.Phase9TotalTaxLiability.TotalTax.IsNegative(), "total tax negative")

	fb := p.Phase11FinalBalance
	assert.False(t, fb.RefundAmount.IsPositive() && fb.BalanceDue.IsPositive(), "refund and balance due both set")
	assert.False(t, fb.RefundAmount.IsNegative() || fb.BalanceDue.IsNegative(), "negative balance")
}

func taxData(fill func(d *domain.TaxDocumentData)) domain.TaxDocumentData {
	d := domain.NewTaxDocumentData()
	fill(&d)
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, dec(want).StringFixed(2), got.StringFixed(2))
}
