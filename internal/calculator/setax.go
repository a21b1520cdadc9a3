package calculator

import (
	"github.com/shopspring/decimal"

	"tax-engine/internal/domain"
	"tax-engine/internal/taxtable"
)

var half = decimal.NewFromFloat(0.5)

// SelfEmploymentTax computes Social Security, Medicare and Additional Medicare
// tax on self-employment income and the deductible half of SE tax.
//
// The Additional Medicare Tax is levied on wages plus net SE earnings above the
// filing-status threshold, so it can be nonzero for pure W-2 earners too.
func SelfEmploymentTax(year *taxtable.Year, fs domain.FilingStatus, wages, nonEmployeeCompensation decimal.Decimal) (domain.SelfEmploymentTax, error) {
	se := year.SelfEmployment
	threshold, err := year.AdditionalMedicareThresholdFor(fs)
	if err != nil {
		return domain.SelfEmploymentTax{}, err
	}

	base := domain.RoundMoney(domain.NonNegative(nonEmployeeCompensation).Mul(se.NetEarningsFactor))
	ssTax := domain.RoundMoney(domain.MinDecimal(base, se.SocialSecurityWageBase).Mul(se.SocialSecurityRate))
	medicare := domain.RoundMoney(base.Mul(se.MedicareRate))

	over := domain.NonNegative(domain.NonNegative(wages).Add(base).Sub(threshold))
	additional := domain.RoundMoney(over.Mul(se.AdditionalMedicareRate))

	return domain.SelfEmploymentTax{
		NetEarnings:           base,
		SocialSecurityTax:     ssTax,
		MedicareTax:           medicare,
		AdditionalMedicareTax: additional,
		TotalSETax:            ssTax.Add(medicare).Add(additional),
		SEDeduction:           domain.RoundMoney(ssTax.Add(medicare).Mul(half)),
	}, nil
}
