package extract

import (
	"strings"
	"unicode"

	"tax-engine/internal/domain"
)

// rule maps a provider field of one document type onto a bucket.
type rule struct {
	bucket domain.Bucket
	box    string
	names  []string
}

var rulesByType = map[domain.DocumentType][]rule{
	domain.DocumentTypeW2: {
		{bucket: domain.BucketWages, box: "W-2 Box 1", names: []string{"WagesTipsAndOtherCompensation", "Wages", "Box1"}},
		{bucket: domain.BucketFederalTax, box: "W-2 Box 2", names: []string{"FederalIncomeTaxWithheld", "Box2"}},
		{bucket: domain.BucketSocialSecurityTax, box: "W-2 Box 4", names: []string{"SocialSecurityTaxWithheld", "Box4"}},
		{bucket: domain.BucketMedicareTax, box: "W-2 Box 6", names: []string{"MedicareTaxWithheld", "Box6"}},
		{bucket: domain.BucketStateTax, box: "W-2 Box 17", names: []string{"StateIncomeTax", "StateTaxWithheld", "Box17"}},
	},
	domain.DocumentType1099INT: {
		{bucket: domain.BucketInterest, box: "1099-INT Box 1", names: []string{"InterestIncome", "Box1"}},
		{bucket: domain.BucketFederalTax, box: "1099-INT Box 4", names: []string{"FederalIncomeTaxWithheld", "Box4"}},
		{bucket: domain.BucketTaxExemptInterest, box: "1099-INT Box 8", names: []string{"TaxExemptInterest", "Box8"}},
		{bucket: domain.BucketStateTax, box: "1099-INT Box 17", names: []string{"StateTaxWithheld", "Box17"}},
	},
	domain.DocumentType1099DIV: {
		{bucket: domain.BucketDividends, box: "1099-DIV Box 1a", names: []string{"TotalOrdinaryDividends", "OrdinaryDividends", "Box1a"}},
		{bucket: domain.BucketQualifiedDividends, box: "1099-DIV Box 1b", names: []string{"QualifiedDividends", "Box1b"}},
		{bucket: domain.BucketCapitalGains, box: "1099-DIV Box 2a", names: []string{"TotalCapitalGainDistributions", "CapitalGainDistributions", "Box2a"}},
		{bucket: domain.BucketFederalTax, box: "1099-DIV Box 4", names: []string{"FederalIncomeTaxWithheld", "Box4"}},
		{bucket: domain.BucketStateTax, box: "1099-DIV Box 16", names: []string{"StateTaxWithheld", "Box16"}},
	},
	domain.DocumentType1099NEC: {
		{bucket: domain.BucketNonEmployeeCompensation, box: "1099-NEC Box 1", names: []string{"NonemployeeCompensation", "Box1"}},
		{bucket: domain.BucketFederalTax, box: "1099-NEC Box 4", names: []string{"FederalIncomeTaxWithheld", "Box4"}},
		{bucket: domain.BucketStateTax, box: "1099-NEC Box 5", names: []string{"StateTaxWithheld", "Box5"}},
	},
	domain.DocumentType1099MISC: {
		{bucket: domain.BucketMiscellaneousIncome, box: "1099-MISC Box 1", names: []string{"Rents", "Box1"}},
		{bucket: domain.BucketMiscellaneousIncome, box: "1099-MISC Box 2", names: []string{"Royalties", "Box2"}},
		{bucket: domain.BucketMiscellaneousIncome, box: "1099-MISC Box 3", names: []string{"OtherIncome", "Box3"}},
		{bucket: domain.BucketFederalTax, box: "1099-MISC Box 4", names: []string{"FederalIncomeTaxWithheld", "Box4"}},
		{bucket: domain.BucketStateTax, box: "1099-MISC Box 16", names: []string{"StateTaxWithheld", "Box16"}},
	},
	domain.DocumentTypeOther: {
		{bucket: domain.BucketRentalRoyalties, box: "Rental/Royalty", names: []string{"RentalIncome", "RentalRoyalties", "Rents", "Royalties"}},
		{bucket: domain.BucketOther, box: "Other income", names: []string{"OtherIncome"}},
	},
}

// index is rulesByType keyed by normalized field name.
var index = buildIndex()

func buildIndex() map[domain.DocumentType]map[string]rule {
	out := make(map[domain.DocumentType]map[string]rule, len(rulesByType))
	for docType, rules := range rulesByType {
		byName := make(map[string]rule)
		for _, r := range rules {
			for _, n := range r.names {
				byName[normalizeName(n)] = r
			}
		}
		out[docType] = byName
	}
	return out
}

// classify finds the rule for a field of a document type.
func classify(docType domain.DocumentType, fieldName string) (rule, bool) {
	byName, ok := index[docType]
	if !ok {
		return rule{}, false
	}
	r, ok := byName[normalizeName(fieldName)]
	return r, ok
}

func supportedType(docType domain.DocumentType) bool {
	_, ok := index[docType]
	return ok
}

// normalizeName lowercases and drops everything but letters and digits, so
// "Box 1a", "box_1a" and "Box1A" all match.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
