package calculator

import (
	"github.com/shopspring/decimal"

	"tax-engine/internal/domain"
	"tax-engine/internal/taxtable"
)

// NetInvestmentIncome is the investment income subject to NIIT.
func NetInvestmentIncome(in domain.Income) decimal.Decimal {
	return domain.RoundMoney(in.Interest.Add(in.Dividends).Add(in.CapitalGains).Add(in.RentalRoyalties))
}

// NetInvestmentIncomeTax applies the NIIT rate to the smaller of net investment
// income and the MAGI excess over the filing-status threshold. MAGI equal to the
// threshold owes nothing.
func NetInvestmentIncomeTax(year *taxtable.Year, fs domain.FilingStatus, magi, nii decimal.Decimal) (domain.InvestmentTax, error) {
	threshold, err := year.NIITThresholdFor(fs)
	if err != nil {
		return domain.InvestmentTax{}, err
	}
	out := domain.InvestmentTax{
		NetInvestmentIncome: nii,
		ModifiedAGI:         magi,
		Threshold:           threshold,
		NIITTax:             decimal.Zero,
	}
	if magi.GreaterThan(threshold) && nii.IsPositive() {
		out.NIITTax = domain.RoundMoney(domain.MinDecimal(nii, magi.Sub(threshold)).Mul(year.NIIT.Rate))
	}
	return out, nil
}
