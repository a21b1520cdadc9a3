package domain

import "github.com/shopspring/decimal"

// Warning describes a document or field that was skipped during extraction.
type Warning struct {
	DocumentID string `json:"documentId"`
	FieldName  string `json:"fieldName,omitempty"`
	Message    string `json:"message"`
}

// CalculationRequest carries the taxpayer's elections. Documents is optional;
// when empty the processed documents are loaded from the repository.
type CalculationRequest struct {
	FilingStatus            FilingStatus        `json:"filingStatus"`
	UseItemizedDeductions   bool                `json:"useItemizedDeductions"`
	ItemizedDeductionAmount decimal.Decimal     `json:"itemizedDeductionAmount"`
	EstimatedTaxPayments    decimal.Decimal     `json:"estimatedTaxPayments"`
	TaxYear                 int                 `json:"taxYear"`
	Documents               []ProcessedDocument `json:"documents,omitempty"`
}

// TaxOverview is the compact figure set shown on dashboards and stored per
// tax return. Rates are percentages.
type TaxOverview struct {
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	StandardDeduction decimal.Decimal `json:"standardDeduction"`
	TaxableIncome     decimal.Decimal `json:"taxableIncome"`
	EstimatedTax      decimal.Decimal `json:"estimatedTax"`
	EffectiveTaxRate  decimal.Decimal `json:"effectiveTaxRate"`
	MarginalTaxRate   decimal.Decimal `json:"marginalTaxRate"`
}

// TaxReport is the output of one calculation request.
type TaxReport struct {
	Overview      TaxOverview             `json:"taxCalculation"`
	Result        *ComprehensiveTaxResult `json:"comprehensiveResult"`
	ExtractedData TaxDocumentData         `json:"extractedTaxData"`
	Fields        []ExtractedField        `json:"extractedFields"`
	Warnings      []Warning               `json:"warnings"`
	DocumentCount int                     `json:"documentCount"`
	Message       string                  `json:"message,omitempty"`

	// Documents are the inputs of the calculation, kept for exports.
	Documents []ProcessedDocument `json:"-"`
}
