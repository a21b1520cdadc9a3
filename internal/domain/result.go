package domain

import "github.com/shopspring/decimal"

// BalanceStatus is the outcome of the final balance phase.
type BalanceStatus string

const (
	BalanceStatusRefund BalanceStatus = "refund"
	BalanceStatusOwed   BalanceStatus = "owed"
)

// BracketBreakdownEntry is one bracket reached by the taxable income.
type BracketBreakdownEntry struct {
	BracketRange         string          `json:"bracketRange"`
	Rate                 decimal.Decimal `json:"rate"`
	TaxableInThisBracket decimal.Decimal `json:"taxableInThisBracket"`
	TaxFromThisBracket   decimal.Decimal `json:"taxFromThisBracket"`
	CumulativeTax        decimal.Decimal `json:"cumulativeTax"`
}

type IncomeCollection struct {
	W2Income           decimal.Decimal `json:"w2Income"`
	Form1099INT        decimal.Decimal `json:"form1099INT"`
	Form1099DIV        decimal.Decimal `json:"form1099DIV"`
	Form1099NEC        decimal.Decimal `json:"form1099NEC"`
	Form1099MISC       decimal.Decimal `json:"form1099MISC"`
	CapitalGains       decimal.Decimal `json:"capitalGains"`
	QualifiedDividends decimal.Decimal `json:"qualifiedDividends"`
	TaxExemptInterest  decimal.Decimal `json:"taxExemptInterest"`
	RentalRoyalties    decimal.Decimal `json:"rentalRoyalties"`
	OtherIncome        decimal.Decimal `json:"otherIncome"`
}

type IncomeAggregation struct {
	TotalOrdinaryIncome decimal.Decimal `json:"totalOrdinaryIncome"`
	EarnedIncome        decimal.Decimal `json:"earnedIncome"`
}

type AdjustedGrossIncome struct {
	TotalIncome                decimal.Decimal `json:"totalIncome"`
	SelfEmploymentTaxDeduction decimal.Decimal `json:"selfEmploymentTaxDeduction"`
	AboveTheLineDeductions     decimal.Decimal `json:"aboveTheLineDeductions"`
	AdjustedGrossIncome        decimal.Decimal `json:"adjustedGrossIncome"`
}

type DeductionDetermination struct {
	StandardDeduction    decimal.Decimal `json:"standardDeduction"`
	ItemizedDeduction    decimal.Decimal `json:"itemizedDeduction"`
	SelectedDeduction    decimal.Decimal `json:"selectedDeduction"`
	UseStandardDeduction bool            `json:"useStandardDeduction"`
}

type TaxableIncome struct {
	AdjustedGrossIncome decimal.Decimal `json:"adjustedGrossIncome"`
	SelectedDeduction   decimal.Decimal `json:"selectedDeduction"`
	TaxableIncome       decimal.Decimal `json:"taxableIncome"`
}

type RegularTax struct {
	TaxableIncome     decimal.Decimal         `json:"taxableIncome"`
	BracketBreakdown  []BracketBreakdownEntry `json:"bracketBreakdown"`
	OrdinaryIncomeTax decimal.Decimal         `json:"ordinaryIncomeTax"`
	MarginalRate      decimal.Decimal         `json:"marginalRate"`
}

type SelfEmploymentTax struct {
	NetEarnings           decimal.Decimal `json:"netEarnings"`
	SocialSecurityTax     decimal.Decimal `json:"socialSecurityTax"`
	MedicareTax           decimal.Decimal `json:"medicareTax"`
	AdditionalMedicareTax decimal.Decimal `json:"additionalMedicareTax"`
	TotalSETax            decimal.Decimal `json:"totalSETax"`
	SEDeduction           decimal.Decimal `json:"seDeduction"`
}

type InvestmentTax struct {
	NetInvestmentIncome decimal.Decimal `json:"netInvestmentIncome"`
	ModifiedAGI         decimal.Decimal `json:"modifiedAGI"`
	Threshold           decimal.Decimal `json:"threshold"`
	NIITTax             decimal.Decimal `json:"niitTax"`
}

type TotalTaxLiability struct {
	RegularTax           decimal.Decimal `json:"regularTax"`
	SelfEmploymentTax    decimal.Decimal `json:"selfEmploymentTax"`
	NIITTax              decimal.Decimal `json:"niitTax"`
	NonrefundableCredits decimal.Decimal `json:"nonrefundableCredits"`
	TotalTax             decimal.Decimal `json:"totalTax"`
}

// RefundableCredits are placeholders; every amount is currently zero.
type RefundableCredits struct {
	EarnedIncomeCredit        decimal.Decimal `json:"earnedIncomeCredit"`
	AdditionalChildTaxCredit  decimal.Decimal `json:"additionalChildTaxCredit"`
	AmericanOpportunityCredit decimal.Decimal `json:"americanOpportunityCredit"`
}

type WithholdingsAndCredits struct {
	FederalIncomeTax          decimal.Decimal   `json:"federalIncomeTax"`
	StateIncomeTax            decimal.Decimal   `json:"stateIncomeTax"`
	SocialSecurityTaxWithheld decimal.Decimal   `json:"socialSecurityTaxWithheld"`
	MedicareTaxWithheld       decimal.Decimal   `json:"medicareTaxWithheld"`
	TotalWithholdings         decimal.Decimal   `json:"totalWithholdings"`
	RefundableCredits         RefundableCredits `json:"refundableCredits"`
	TotalRefundableCredits    decimal.Decimal   `json:"totalRefundableCredits"`
}

type FinalBalance struct {
	TotalTax             decimal.Decimal `json:"totalTax"`
	TotalWithholdings    decimal.Decimal `json:"totalWithholdings"`
	EstimatedTaxPayments decimal.Decimal `json:"estimatedTaxPayments"`
	TotalPayments        decimal.Decimal `json:"totalPayments"`
	RefundAmount         decimal.Decimal `json:"refundAmount"`
	BalanceDue           decimal.Decimal `json:"balanceDue"`
	FinalStatus          BalanceStatus   `json:"finalStatus"`
}

// Phases is the ordered phase-by-phase record of one calculation.
type Phases struct {
	Phase1IncomeCollection        IncomeCollection       `json:"phase1_IncomeCollection"`
	Phase2IncomeAggregation       IncomeAggregation      `json:"phase2_IncomeAggregation"`
	Phase3AdjustedGrossIncome     AdjustedGrossIncome    `json:"phase3_AdjustedGrossIncome"`
	Phase4DeductionDetermination  DeductionDetermination `json:"phase4_DeductionDetermination"`
	Phase5TaxableIncome           TaxableIncome          `json:"phase5_TaxableIncome"`
	Phase6RegularTax              RegularTax             `json:"phase6_RegularTax"`
	Phase7SelfEmploymentTax       SelfEmploymentTax      `json:"phase7_SelfEmploymentTax"`
	Phase8InvestmentTax           InvestmentTax          `json:"phase8_InvestmentTax"`
	Phase9TotalTaxLiability       TotalTaxLiability      `json:"phase9_TotalTaxLiability"`
	Phase10WithholdingsAndCredits WithholdingsAndCredits `json:"phase10_WithholdingsAndCredits"`
	Phase11FinalBalance           FinalBalance           `json:"phase11_FinalBalance"`
}

type TaxSummary struct {
	AdjustedGrossIncome decimal.Decimal `json:"adjustedGrossIncome"`
	TaxableIncome       decimal.Decimal `json:"taxableIncome"`
	TotalTaxLiability   decimal.Decimal `json:"totalTaxLiability"`
	EffectiveTaxRate    decimal.Decimal `json:"effectiveTaxRate"`
	MarginalTaxRate     decimal.Decimal `json:"marginalTaxRate"`
}

type ResultMetadata struct {
	TaxYear               int          `json:"taxYear"`
	FilingStatus          FilingStatus `json:"filingStatus"`
	StandardDeductionUsed bool         `json:"standardDeductionUsed"`
}

// ComprehensiveTaxResult is the complete output of the tax engine. It is
// recomputed, never patched, whenever any input changes.
type ComprehensiveTaxResult struct {
	Phases   Phases         `json:"phases"`
	Summary  TaxSummary     `json:"summary"`
	Metadata ResultMetadata `json:"metadata"`
}
