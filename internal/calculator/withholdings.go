package calculator

import "tax-engine/internal/domain"

// AggregateWithholdings sums every withholding category and records the
// refundable credits alongside.
func AggregateWithholdings(w domain.Withholdings, credits Credits) domain.WithholdingsAndCredits {
	federal := domain.RoundMoney(w.FederalTax)
	state := domain.RoundMoney(w.StateTax)
	ss := domain.RoundMoney(w.SocialSecurityTax)
	medicare := domain.RoundMoney(w.MedicareTax)

	return domain.WithholdingsAndCredits{
		FederalIncomeTax:          federal,
		StateIncomeTax:            state,
		SocialSecurityTaxWithheld: ss,
		MedicareTaxWithheld:       medicare,
		TotalWithholdings:         federal.Add(state).Add(ss).Add(medicare),
		RefundableCredits:         credits.Refundable,
		TotalRefundableCredits:    domain.RoundMoney(credits.TotalRefundable()),
	}
}
