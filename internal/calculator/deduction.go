package calculator

import (
	"github.com/shopspring/decimal"

	"tax-engine/internal/domain"
	"tax-engine/internal/taxtable"
)

// ResolveDeduction picks between the standard deduction and the itemized
// amount. Itemized wins only when the caller opted in and it is strictly larger.
func ResolveDeduction(year *taxtable.Year, fs domain.FilingStatus, useItemized bool, itemized decimal.Decimal) (domain.DeductionDetermination, error) {
	standard, err := year.StandardDeductionFor(fs)
	if err != nil {
		return domain.DeductionDetermination{}, err
	}
	standard = domain.RoundMoney(standard)
	itemized = domain.RoundMoney(domain.NonNegative(itemized))

	out := domain.DeductionDetermination{
		StandardDeduction:    standard,
		ItemizedDeduction:    itemized,
		SelectedDeduction:    standard,
		UseStandardDeduction: true,
	}
	if useItemized && itemized.GreaterThan(standard) {
		out.SelectedDeduction = itemized
		out.UseStandardDeduction = false
	}
	return out, nil
}
