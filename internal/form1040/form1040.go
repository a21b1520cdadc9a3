// Package form1040 lays a calculation out on the lines of IRS Form 1040 and
// exports it as a workbook.
package form1040

import (
	"strings"

	"github.com/shopspring/decimal"

	"tax-engine/internal/domain"
)

// Line is one numbered Form 1040 line.
type Line struct {
	Number      string          `json:"number"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// SourceField is an extracted field and the line it feeds.
type SourceField struct {
	FieldName    string          `json:"fieldName"`
	BoxReference string          `json:"boxReference"`
	MappedToLine string          `json:"mappedToLine"`
	Amount       decimal.Decimal `json:"amount"`
	Confidence   float64         `json:"confidence"`
	Included     bool            `json:"included"`
}

type SourceDocument struct {
	DocumentID   string              `json:"documentId"`
	DocumentType domain.DocumentType `json:"documentType"`
	FileName     string              `json:"fileName"`
	Confidence   float64             `json:"confidence"`
	Fields       []SourceField       `json:"fields"`
}

type Taxpayer struct {
	FirstName    string              `json:"firstName"`
	LastName     string              `json:"lastName"`
	SSN          string              `json:"ssn"`
	Address      string              `json:"address"`
	FilingStatus domain.FilingStatus `json:"filingStatus"`
}

// Return is a Form 1040 populated from one calculation.
type Return struct {
	TaxYear         int                            `json:"taxYear"`
	Taxpayer        Taxpayer                       `json:"taxpayer"`
	Lines           []Line                         `json:"lines"`
	Brackets        []domain.BracketBreakdownEntry `json:"brackets"`
	SourceDocuments []SourceDocument               `json:"sourceDocuments"`
}

// Line returns the line with the given number.
func (r Return) Line(number string) (Line, bool) {
	for _, l := range r.Lines {
		if l.Number == number {
			return l, true
		}
	}
	return Line{}, false
}

// lineByBucket is the 1040 line each bucket is reported on. Withholdings other
// than federal income tax do not appear on the form.
var lineByBucket = map[domain.Bucket]string{
	domain.BucketWages:                   "1a",
	domain.BucketTaxExemptInterest:       "2a",
	domain.BucketInterest:                "2b",
	domain.BucketQualifiedDividends:      "3a",
	domain.BucketDividends:               "3b",
	domain.BucketCapitalGains:            "7",
	domain.BucketNonEmployeeCompensation: "8",
	domain.BucketMiscellaneousIncome:     "8",
	domain.BucketRentalRoyalties:         "8",
	domain.BucketOther:                   "8",
}

// Map builds the Form 1040 view of result. data supplies the per-source
// breakdown and personal info; docs supply document metadata.
func Map(result *domain.ComprehensiveTaxResult, data domain.TaxDocumentData, docs []domain.ProcessedDocument) Return {
	p := result.Phases
	in := p.Phase1IncomeCollection

	federal := p.Phase10WithholdingsAndCredits.FederalIncomeTax
	from1099 := federalWithheldFrom1099(data)
	fromW2 := domain.NonNegative(federal.Sub(from1099))

	additionalIncome := in.Form1099NEC.Add(in.Form1099MISC).Add(in.RentalRoyalties).Add(in.OtherIncome)
	otherTaxes := p.Phase7SelfEmploymentTax.TotalSETax.Add(p.Phase8InvestmentTax.NIITTax)
	credits := p.Phase9TotalTaxLiability.NonrefundableCredits
	refundable := p.Phase10WithholdingsAndCredits.TotalRefundableCredits
	balance := p.Phase11FinalBalance

	lines := []Line{
		{"1a", "Total amount from Form(s) W-2, box 1", in.W2Income},
		{"1z", "Total wages", in.W2Income},
		{"2a", "Tax-exempt interest", in.TaxExemptInterest},
		{"2b", "Taxable interest", in.Form1099INT},
		{"3a", "Qualified dividends", in.QualifiedDividends},
		{"3b", "Ordinary dividends", in.Form1099DIV},
		{"7", "Capital gain or (loss)", in.CapitalGains},
		{"8", "Additional income from Schedule 1", additionalIncome},
		{"9", "Total income", p.Phase3AdjustedGrossIncome.TotalIncome},
		{"10", "Adjustments to income from Schedule 1", p.Phase3AdjustedGrossIncome.AboveTheLineDeductions},
		{"11", "Adjusted gross income", p.Phase3AdjustedGrossIncome.AdjustedGrossIncome},
		{"12", deductionLabel(p.Phase4DeductionDetermination), p.Phase4DeductionDetermination.SelectedDeduction},
		{"13", "Qualified business income deduction", decimal.Zero},
		{"14", "Taxable income", p.Phase5TaxableIncome.TaxableIncome},
		{"15", "Tax", p.Phase6RegularTax.OrdinaryIncomeTax},
		{"16", "Self-employment and net investment income tax", otherTaxes},
		{"17", "Add lines 15 and 16", p.Phase6RegularTax.OrdinaryIncomeTax.Add(otherTaxes)},
		{"20", "Nonrefundable credits", credits},
		{"21", "Subtract line 20 from line 17", p.Phase9TotalTaxLiability.TotalTax},
		{"24", "Total tax", p.Phase9TotalTaxLiability.TotalTax},
		{"25a", "Federal income tax withheld from Form(s) W-2", fromW2},
		{"25b", "Federal income tax withheld from Form(s) 1099", from1099},
		{"25d", "Total federal income tax withheld", federal},
		{"26", "Estimated tax payments", balance.EstimatedTaxPayments},
		{"32", "Total other payments and refundable credits", refundable},
		{"33", "Total payments", balance.TotalPayments.Add(refundable)},
		{"34", "Overpaid", balance.RefundAmount},
		{"35a", "Amount to be refunded", balance.RefundAmount},
		{"37", "Amount you owe", balance.BalanceDue},
	}

	return Return{
		TaxYear:         result.Metadata.TaxYear,
		Taxpayer:        taxpayer(data.PersonalInfo, result.Metadata.FilingStatus),
		Lines:           lines,
		Brackets:        p.Phase6RegularTax.BracketBreakdown,
		SourceDocuments: sourceDocuments(data, docs),
	}
}

func deductionLabel(d domain.DeductionDetermination) string {
	if d.UseStandardDeduction {
		return "Standard deduction"
	}
	return "Itemized deductions"
}

func federalWithheldFrom1099(data domain.TaxDocumentData) decimal.Decimal {
	total := decimal.Zero
	for _, e := range data.Breakdown[domain.BucketFederalTax] {
		if e.Included && e.DocumentType != domain.DocumentTypeW2 {
			total = total.Add(e.Amount)
		}
	}
	return domain.RoundMoney(total)
}

func taxpayer(info domain.PersonalInfo, fs domain.FilingStatus) Taxpayer {
	t := Taxpayer{SSN: info.SSN, Address: info.Address, FilingStatus: fs}
	if parts := strings.Fields(info.Name); len(parts) > 0 {
		t.FirstName = parts[0]
		if len(parts) > 1 {
			t.LastName = parts[len(parts)-1]
		}
	}
	return t
}

// sourceDocuments lists every document with the classified fields it
// contributed, in document order.
func sourceDocuments(data domain.TaxDocumentData, docs []domain.ProcessedDocument) []SourceDocument {
	fields := make(map[string][]SourceField)
	for _, bucket := range bucketOrder {
		for _, e := range data.Breakdown[bucket] {
			fields[e.DocumentID] = append(fields[e.DocumentID], SourceField{
				FieldName:    e.FieldName,
				BoxReference: e.BoxReference,
				MappedToLine: mappedLine(bucket, e.DocumentType),
				Amount:       e.Amount,
				Confidence:   e.Confidence,
				Included:     e.Included,
			})
		}
	}

	out := make([]SourceDocument, 0, len(docs))
	for _, d := range docs {
		f := fields[d.ID]
		if f == nil {
			f = []SourceField{}
		}
		out = append(out, SourceDocument{
			DocumentID:   d.ID,
			DocumentType: d.DocumentType,
			FileName:     d.FileName,
			Confidence:   d.Confidence,
			Fields:       f,
		})
	}
	return out
}

var bucketOrder = []domain.Bucket{
	domain.BucketWages,
	domain.BucketInterest,
	domain.BucketTaxExemptInterest,
	domain.BucketDividends,
	domain.BucketQualifiedDividends,
	domain.BucketCapitalGains,
	domain.BucketNonEmployeeCompensation,
	domain.BucketMiscellaneousIncome,
	domain.BucketRentalRoyalties,
	domain.BucketOther,
	domain.BucketFederalTax,
	domain.BucketStateTax,
	domain.BucketSocialSecurityTax,
	domain.BucketMedicareTax,
}

func mappedLine(b domain.Bucket, docType domain.DocumentType) string {
	if b == domain.BucketFederalTax {
		if docType == domain.DocumentTypeW2 {
			return "25a"
		}
		return "25b"
	}
	if line, ok := lineByBucket[b]; ok {
		return line
	}
	return "-"
}
