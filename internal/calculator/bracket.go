package calculator

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"tax-engine/internal/domain"
	"tax-engine/internal/taxtable"
)

// BracketResult is the progressive tax on a taxable income.
type BracketResult struct {
	Entries      []domain.BracketBreakdownEntry
	TotalTax     decimal.Decimal
	MarginalRate decimal.Decimal
}

// ApplyBrackets evaluates an ascending bracket table against taxableIncome and
// returns only the brackets actually reached. Each bracket's tax is rounded to
// cents before it is accumulated, so the entries always sum to TotalTax.
func ApplyBrackets(brackets []taxtable.Bracket, taxableIncome decimal.Decimal) (BracketResult, error) {
	res := BracketResult{
		Entries:      []domain.BracketBreakdownEntry{},
		TotalTax:     decimal.Zero,
		MarginalRate: decimal.Zero,
	}
	if len(brackets) == 0 {
		return res, errors.New("empty bracket table")
	}
	if taxableIncome.IsNegative() {
		return res, fmt.Errorf("negative taxable income %s", taxableIncome)
	}

	cumulative := decimal.Zero
	for i, b := range brackets {
		if taxableIncome.LessThanOrEqual(b.Min) {
			break
		}
		hasNext := i+1 < len(brackets)
		upper := taxableIncome
		if hasNext {
			upper = domain.MinDecimal(taxableIncome, brackets[i+1].Min)
		}

		portion := domain.RoundMoney(upper.Sub(b.Min))
		tax := domain.RoundMoney(portion.Mul(b.Rate))
		cumulative = cumulative.Add(tax)

		res.Entries = append(res.Entries, domain.BracketBreakdownEntry{
			BracketRange:         bracketRange(brackets, i),
			Rate:                 b.Rate,
			TaxableInThisBracket: portion,
			TaxFromThisBracket:   tax,
			CumulativeTax:        cumulative,
		})
		res.MarginalRate = b.Rate

		if !hasNext || taxableIncome.LessThanOrEqual(brackets[i+1].Min) {
			break
		}
	}
	res.TotalTax = cumulative
	return res, nil
}

func bracketRange(brackets []taxtable.Bracket, i int) string {
	lower := "$" + humanize.Comma(brackets[i].Min.IntPart())
	if i+1 == len(brackets) {
		return lower + "+"
	}
	return lower + " - $" + humanize.Comma(brackets[i+1].Min.IntPart())
}
