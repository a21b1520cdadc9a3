package calculator

import (
	"github.com/shopspring/decimal"

	"tax-engine/internal/domain"
)

// NonrefundableCredits reduce tax liability but never below zero.
type NonrefundableCredits struct {
	ChildTaxCredit           decimal.Decimal `json:"childTaxCredit"`
	CreditForOtherDependents decimal.Decimal `json:"creditForOtherDependents"`
	EducationCredits         decimal.Decimal `json:"educationCredits"`
}

// Total sums the nonrefundable credits.
func (c NonrefundableCredits) Total() decimal.Decimal {
	return c.ChildTaxCredit.Add(c.CreditForOtherDependents).Add(c.EducationCredits)
}

type Credits struct {
	Nonrefundable NonrefundableCredits
	Refundable    domain.RefundableCredits
}

// TotalRefundable sums the refundable credits.
func (c Credits) TotalRefundable() decimal.Decimal {
	r := c.Refundable
	return r.EarnedIncomeCredit.Add(r.AdditionalChildTaxCredit).Add(r.AmericanOpportunityCredit)
}

// CalculateCredits returns the credits the taxpayer qualifies for. Dependents
// and education expenses are not modelled yet, so every credit is zero.
func CalculateCredits(domain.TaxDocumentData, domain.FilingStatus) Credits {
	return Credits{
		Nonrefundable: NonrefundableCredits{
			ChildTaxCredit:           decimal.Zero,
			CreditForOtherDependents: decimal.Zero,
			EducationCredits:         decimal.Zero,
		},
		Refundable: domain.RefundableCredits{
			EarnedIncomeCredit:        decimal.Zero,
			AdditionalChildTaxCredit:  decimal.Zero,
			AmericanOpportunityCredit: decimal.Zero,
		},
	}
}
