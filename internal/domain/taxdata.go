package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Bucket names a canonical aggregation bucket of TaxDocumentData.
type Bucket string

const (
	BucketWages                   Bucket = "wages"
	BucketInterest                Bucket = "interest"
	BucketDividends               Bucket = "dividends"
	BucketNonEmployeeCompensation Bucket = "nonEmployeeCompensation"
	BucketMiscellaneousIncome     Bucket = "miscellaneousIncome"
	BucketRentalRoyalties         Bucket = "rentalRoyalties"
	BucketOther                   Bucket = "other"
	BucketCapitalGains            Bucket = "capitalGains"
	BucketQualifiedDividends      Bucket = "qualifiedDividends"
	BucketTaxExemptInterest       Bucket = "taxExemptInterest"
	BucketFederalTax              Bucket = "federalTax"
	BucketStateTax                Bucket = "stateTax"
	BucketSocialSecurityTax       Bucket = "socialSecurityTax"
	BucketMedicareTax             Bucket = "medicareTax"
)

// Income holds the summed income buckets.
type Income struct {
	Wages                   decimal.Decimal `json:"wages"`
	Interest                decimal.Decimal `json:"interest"`
	Dividends               decimal.Decimal `json:"dividends"`
	NonEmployeeCompensation decimal.Decimal `json:"nonEmployeeCompensation"`
	MiscellaneousIncome     decimal.Decimal `json:"miscellaneousIncome"`
	RentalRoyalties         decimal.Decimal `json:"rentalRoyalties"`
	Other                   decimal.Decimal `json:"other"`
	CapitalGains            decimal.Decimal `json:"capitalGains"`
	QualifiedDividends      decimal.Decimal `json:"qualifiedDividends"`
	TaxExemptInterest       decimal.Decimal `json:"taxExemptInterest"`
}

// Withholdings holds the summed withholding buckets.
type Withholdings struct {
	FederalTax        decimal.Decimal `json:"federalTax"`
	StateTax          decimal.Decimal `json:"stateTax"`
	SocialSecurityTax decimal.Decimal `json:"socialSecurityTax"`
	MedicareTax       decimal.Decimal `json:"medicareTax"`
}

// PersonalInfo is taken verbatim from the best W-2. It is never validated.
type PersonalInfo struct {
	Name    string `json:"name"`
	SSN     string `json:"ssn"`
	Address string `json:"address"`
}

// SourceEntry records one document field that was classified into a bucket.
// Excluded entries stay in the breakdown for audit but were not summed.
type SourceEntry struct {
	DocumentID     string          `json:"documentId"`
	FileName       string          `json:"fileName"`
	DocumentType   DocumentType    `json:"documentType"`
	FieldName      string          `json:"fieldName"`
	BoxReference   string          `json:"boxReference"`
	Amount         decimal.Decimal `json:"amount"`
	Confidence     float64         `json:"confidence"`
	Included       bool            `json:"included"`
	ExcludedReason string          `json:"excludedReason,omitempty"`
}

// TaxDocumentData is the canonical input of the tax engine, built fresh from the
// current set of processed documents.
type TaxDocumentData struct {
	Income       Income                   `json:"income"`
	Withholdings Withholdings             `json:"withholdings"`
	PersonalInfo PersonalInfo             `json:"personalInfo"`
	Breakdown    map[Bucket][]SourceEntry `json:"breakdown"`
}

// NewTaxDocumentData returns all-zero data with an empty breakdown.
func NewTaxDocumentData() TaxDocumentData {
	return TaxDocumentData{Breakdown: make(map[Bucket][]SourceEntry)}
}

// Add sums amount into bucket b. Unknown buckets are ignored.
func (d *TaxDocumentData) Add(b Bucket, amount decimal.Decimal) {
	if p := d.bucket(b); p != nil {
		*p = p.Add(amount)
	}
}

func (d *TaxDocumentData) bucket(b Bucket) *decimal.Decimal {
	switch b {
	case BucketWages:
		return &d.Income.Wages
	case BucketInterest:
		return &d.Income.Interest
	case BucketDividends:
		return &d.Income.Dividends
	case BucketNonEmployeeCompensation:
		return &d.Income.NonEmployeeCompensation
	case BucketMiscellaneousIncome:
		return &d.Income.MiscellaneousIncome
	case BucketRentalRoyalties:
		return &d.Income.RentalRoyalties
	case BucketOther:
		return &d.Income.Other
	case BucketCapitalGains:
		return &d.Income.CapitalGains
	case BucketQualifiedDividends:
		return &d.Income.QualifiedDividends
	case BucketTaxExemptInterest:
		return &d.Income.TaxExemptInterest
	case BucketFederalTax:
		return &d.Withholdings.FederalTax
	case BucketStateTax:
		return &d.Withholdings.StateTax
	case BucketSocialSecurityTax:
		return &d.Withholdings.SocialSecurityTax
	case BucketMedicareTax:
		return &d.Withholdings.MedicareTax
	}
	return nil
}

// ValueKind tags the variant held by a FieldValue.
type ValueKind int

const (
	ValueKindNone ValueKind = iota
	ValueKindNumber
	ValueKindString
	ValueKindNested
)

func (k ValueKind) String() string {
	switch k {
	case ValueKindNumber:
		return "number"
	case ValueKindString:
		return "string"
	case ValueKindNested:
		return "nested"
	}
	return "none"
}

// FieldValue is the tagged variant of a provider field value: Number, String or
// a Nested provider object.
type FieldValue struct {
	Kind   ValueKind
	Number decimal.Decimal
	Text   string
	Nested map[string]any
}

// MarshalJSON writes the held variant as its natural JSON value.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueKindNumber:
		return json.Marshal(v.Number)
	case ValueKindString:
		return json.Marshal(v.Text)
	case ValueKindNested:
		return json.Marshal(v.Nested)
	}
	return []byte("null"), nil
}

// ExtractedField is the provenance of one raw field. It is never mutated after
// extraction.
type ExtractedField struct {
	DocumentID   string     `json:"documentId"`
	FieldName    string     `json:"fieldName"`
	BoxReference string     `json:"boxReference"`
	RawValue     FieldValue `json:"rawValue"`
	Confidence   float64    `json:"confidence"`
}
