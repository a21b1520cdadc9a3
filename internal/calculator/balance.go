package calculator

import (
	"github.com/shopspring/decimal"

	"tax-engine/internal/domain"
)

// TotalTaxLiability combines the regular, self-employment and investment taxes
// and subtracts nonrefundable credits. Credits are capped at the regular tax.
func TotalTaxLiability(regular, seTax, niit, nonrefundable decimal.Decimal) domain.TotalTaxLiability {
	credits := domain.MinDecimal(domain.RoundMoney(domain.NonNegative(nonrefundable)), regular)
	return domain.TotalTaxLiability{
		RegularTax:           regular,
		SelfEmploymentTax:    seTax,
		NIITTax:              niit,
		NonrefundableCredits: credits,
		TotalTax:             regular.Add(seTax).Add(niit).Sub(credits),
	}
}

// ResolveFinalBalance settles total tax against payments. Payments that cover
// the tax exactly are reported as a zero refund.
func ResolveFinalBalance(totalTax, totalWithholdings, estimatedPayments decimal.Decimal) domain.FinalBalance {
	estimated := domain.RoundMoney(domain.NonNegative(estimatedPayments))
	payments := totalWithholdings.Add(estimated)

	out := domain.FinalBalance{
		TotalTax:             totalTax,
		TotalWithholdings:    totalWithholdings,
		EstimatedTaxPayments: estimated,
		TotalPayments:        payments,
		RefundAmount:         decimal.Zero,
		BalanceDue:           decimal.Zero,
	}
	if payments.GreaterThanOrEqual(totalTax) {
		out.FinalStatus = domain.BalanceStatusRefund
		out.RefundAmount = payments.Sub(totalTax)
	} else {
		out.FinalStatus = domain.BalanceStatusOwed
		out.BalanceDue = totalTax.Sub(payments)
	}
	return out
}
