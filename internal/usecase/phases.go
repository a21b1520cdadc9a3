package usecase

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tax-engine/internal/calculator"
	"tax-engine/internal/domain"
	"tax-engine/internal/taxtable"
)

// calculation threads the typed phase outputs through one engine run.
type calculation struct {
	in      Input
	year    *taxtable.Year
	status  domain.FilingStatus
	phases  domain.Phases
	credits calculator.Credits
}

type phase struct {
	name   string
	run    func(c *calculation) error
	fields func(c *calculation) []zap.Field
}

// pipeline is the execution order. Self-employment tax runs before AGI because
// half of it is an above-the-line deduction.
var pipeline = []phase{
	{name: "IncomeCollection", run: collectIncome, fields: incomeCollectionFields},
	{name: "IncomeAggregation", run: aggregateIncome, fields: incomeAggregationFields},
	{name: "SelfEmploymentTax", run: selfEmploymentTax, fields: selfEmploymentFields},
	{name: "AdjustedGrossIncome", run: adjustedGrossIncome, fields: agiFields},
	{name: "DeductionDetermination", run: determineDeduction, fields: deductionFields},
	{name: "TaxableIncome", run: taxableIncome, fields: taxableIncomeFields},
	{name: "RegularTax", run: regularTax, fields: regularTaxFields},
	{name: "InvestmentTax", run: investmentTax, fields: investmentTaxFields},
	{name: "TotalTaxLiability", run: totalTaxLiability, fields: totalTaxFields},
	{name: "WithholdingsAndCredits", run: withholdingsAndCredits, fields: withholdingsFields},
	{name: "FinalBalance", run: finalBalance, fields: finalBalanceFields},
}

func collectIncome(c *calculation) error {
	in := c.in.Data.Income
	c.phases.Phase1IncomeCollection = domain.IncomeCollection{
		W2Income:           domain.RoundMoney(in.Wages),
		Form1099INT:        domain.RoundMoney(in.Interest),
		Form1099DIV:        domain.RoundMoney(in.Dividends),
		Form1099NEC:        domain.RoundMoney(in.NonEmployeeCompensation),
		Form1099MISC:       domain.RoundMoney(in.MiscellaneousIncome),
		CapitalGains:       domain.RoundMoney(in.CapitalGains),
		QualifiedDividends: domain.RoundMoney(in.QualifiedDividends),
		TaxExemptInterest:  domain.RoundMoney(in.TaxExemptInterest),
		RentalRoyalties:    domain.RoundMoney(in.RentalRoyalties),
		OtherIncome:        domain.RoundMoney(in.Other),
	}
	return nil
}

func aggregateIncome(c *calculation) error {
	p := c.phases.Phase1IncomeCollection
	c.phases.Phase2IncomeAggregation = domain.IncomeAggregation{
		TotalOrdinaryIncome: p.W2Income.
			Add(p.Form1099INT).
			Add(p.Form1099DIV).
			Add(p.Form1099NEC).
			Add(p.Form1099MISC).
			Add(p.RentalRoyalties).
			Add(p.OtherIncome),
		EarnedIncome: p.W2Income.Add(p.Form1099NEC),
	}
	return nil
}

func selfEmploymentTax(c *calculation) error {
	p := c.phases.Phase1IncomeCollection
	se, err := calculator.SelfEmploymentTax(c.year, c.status, p.W2Income, p.Form1099NEC)
	if err != nil {
		return phaseError("self-employment tax", err)
	}
	c.phases.Phase7SelfEmploymentTax = se
	return nil
}

func adjustedGrossIncome(c *calculation) error {
	total := c.phases.Phase2IncomeAggregation.TotalOrdinaryIncome.Add(c.phases.Phase1IncomeCollection.CapitalGains)
	seDeduction := c.phases.Phase7SelfEmploymentTax.SEDeduction
	aboveTheLine := seDeduction

	c.phases.Phase3AdjustedGrossIncome = domain.AdjustedGrossIncome{
		TotalIncome:                total,
		SelfEmploymentTaxDeduction: seDeduction,
		AboveTheLineDeductions:     aboveTheLine,
		AdjustedGrossIncome:        total.Sub(aboveTheLine),
	}
	return nil
}

func determineDeduction(c *calculation) error {
	d, err := calculator.ResolveDeduction(c.year, c.status, c.in.UseItemizedDeductions, c.in.ItemizedDeductionAmount)
	if err != nil {
		return phaseError("deduction", err)
	}
	c.phases.Phase4DeductionDetermination = d
	return nil
}

func taxableIncome(c *calculation) error {
	agi := c.phases.Phase3AdjustedGrossIncome.AdjustedGrossIncome
	deduction := c.phases.Phase4DeductionDetermination.SelectedDeduction
	c.phases.Phase5TaxableIncome = domain.TaxableIncome{
		AdjustedGrossIncome: agi,
		SelectedDeduction:   deduction,
		TaxableIncome:       domain.NonNegative(agi.Sub(deduction)),
	}
	return nil
}

func regularTax(c *calculation) error {
	brackets, err := c.year.BracketsFor(c.status)
	if err != nil {
		return phaseError("regular tax", err)
	}
	taxable := c.phases.Phase5TaxableIncome.TaxableIncome
	res, err := calculator.ApplyBrackets(brackets, taxable)
	if err != nil {
		return phaseError("regular tax", err)
	}
	c.phases.Phase6RegularTax = domain.RegularTax{
		TaxableIncome:     taxable,
		BracketBreakdown:  res.Entries,
		OrdinaryIncomeTax: res.TotalTax,
		MarginalRate:      res.MarginalRate,
	}
	return nil
}

func investmentTax(c *calculation) error {
	nii := calculator.NetInvestmentIncome(c.in.Data.Income)
	magi := c.phases.Phase3AdjustedGrossIncome.AdjustedGrossIncome
	it, err := calculator.NetInvestmentIncomeTax(c.year, c.status, magi, nii)
	if err != nil {
		return phaseError("investment tax", err)
	}
	c.phases.Phase8InvestmentTax = it
	return nil
}

func totalTaxLiability(c *calculation) error {
	c.credits = calculator.CalculateCredits(c.in.Data, c.status)
	c.phases.Phase9TotalTaxLiability = calculator.TotalTaxLiability(
		c.phases.Phase6RegularTax.OrdinaryIncomeTax,
		c.phases.Phase7SelfEmploymentTax.TotalSETax,
		c.phases.Phase8InvestmentTax.NIITTax,
		c.credits.Nonrefundable.Total(),
	)
	return nil
}

func withholdingsAndCredits(c *calculation) error {
	c.phases.Phase10WithholdingsAndCredits = calculator.AggregateWithholdings(c.in.Data.Withholdings, c.credits)
	return nil
}

func finalBalance(c *calculation) error {
	c.phases.Phase11FinalBalance = calculator.ResolveFinalBalance(
		c.phases.Phase9TotalTaxLiability.TotalTax,
		c.phases.Phase10WithholdingsAndCredits.TotalWithholdings,
		c.in.EstimatedTaxPayments,
	)
	return nil
}

func money(key string, v decimal.Decimal) zap.Field {
	return zap.String(key, v.StringFixed(2))
}

func incomeCollectionFields(c *calculation) []zap.Field {
	p := c.phases.Phase1IncomeCollection
	return []zap.Field{
		money("w2_income", p.W2Income),
		money("form_1099_nec", p.Form1099NEC),
		money("capital_gains", p.CapitalGains),
	}
}

func incomeAggregationFields(c *calculation) []zap.Field {
	p := c.phases.Phase2IncomeAggregation
	return []zap.Field{money("total_ordinary_income", p.TotalOrdinaryIncome), money("earned_income", p.EarnedIncome)}
}

func selfEmploymentFields(c *calculation) []zap.Field {
	p := c.phases.Phase7SelfEmploymentTax
	return []zap.Field{money("total_se_tax", p.TotalSETax), money("se_deduction", p.SEDeduction)}
}

func agiFields(c *calculation) []zap.Field {
	return []zap.Field{money("agi", c.phases.Phase3AdjustedGrossIncome.AdjustedGrossIncome)}
}

func deductionFields(c *calculation) []zap.Field {
	p := c.phases.Phase4DeductionDetermination
	return []zap.Field{money("selected_deduction", p.SelectedDeduction), zap.Bool("standard", p.UseStandardDeduction)}
}

func taxableIncomeFields(c *calculation) []zap.Field {
	return []zap.Field{money("taxable_income", c.phases.Phase5TaxableIncome.TaxableIncome)}
}

func regularTaxFields(c *calculation) []zap.Field {
	p := c.phases.Phase6RegularTax
	return []zap.Field{
		money("ordinary_income_tax", p.OrdinaryIncomeTax),
		zap.String("marginal_rate", p.MarginalRate.String()),
		zap.Int("brackets", len(p.BracketBreakdown)),
	}
}

func investmentTaxFields(c *calculation) []zap.Field {
	return []zap.Field{money("niit", c.phases.Phase8InvestmentTax.NIITTax)}
}

func totalTaxFields(c *calculation) []zap.Field {
	return []zap.Field{money("total_tax", c.phases.Phase9TotalTaxLiability.TotalTax)}
}

func withholdingsFields(c *calculation) []zap.Field {
	return []zap.Field{money("total_withholdings", c.phases.Phase10WithholdingsAndCredits.TotalWithholdings)}
}

func finalBalanceFields(c *calculation) []zap.Field {
	p := c.phases.Phase11FinalBalance
	return []zap.Field{
		zap.String("status", string(p.FinalStatus)),
		money("refund", p.RefundAmount),
		money("balance_due", p.BalanceDue),
	}
}
