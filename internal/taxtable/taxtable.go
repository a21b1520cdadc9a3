// Package taxtable holds the federal tax constants that change every tax year:
// bracket tables, standard deductions and the self-employment, Medicare and
// NIIT parameters. Tables are embedded YAML files, one per year, keyed by the
// engine's internal filing status tokens.
package taxtable

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"tax-engine/internal/domain"
)

// DefaultYear is used when no year is requested or the requested year has no table.
const DefaultYear = 2025

//go:embed data/*.yaml
var files embed.FS

// Bracket is a marginal rate starting at Min. The next bracket's Min is this
// bracket's upper bound; the last bracket is open-ended.
type Bracket struct {
	Rate decimal.Decimal `yaml:"rate"`
	Min  decimal.Decimal `yaml:"min"`
}

type SelfEmployment struct {
	NetEarningsFactor           decimal.Decimal                         `yaml:"net_earnings_factor"`
	SocialSecurityRate          decimal.Decimal                         `yaml:"social_security_rate"`
	SocialSecurityWageBase      decimal.Decimal                         `yaml:"social_security_wage_base"`
	MedicareRate                decimal.Decimal                         `yaml:"medicare_rate"`
	AdditionalMedicareRate      decimal.Decimal                         `yaml:"additional_medicare_rate"`
	AdditionalMedicareThreshold map[domain.FilingStatus]decimal.Decimal `yaml:"additional_medicare_threshold"`
}

type NIIT struct {
	Rate      decimal.Decimal                         `yaml:"rate"`
	Threshold map[domain.FilingStatus]decimal.Decimal `yaml:"threshold"`
}

// Year is the full set of constants for one tax year.
type Year struct {
	TaxYear           int                                     `yaml:"tax_year"`
	Source            string                                  `yaml:"source"`
	StandardDeduction map[domain.FilingStatus]decimal.Decimal `yaml:"standard_deduction"`
	Brackets          map[domain.FilingStatus][]Bracket       `yaml:"brackets"`
	SelfEmployment    SelfEmployment                          `yaml:"self_employment"`
	NIIT              NIIT                                    `yaml:"niit"`
}

var years = mustLoadEmbedded()

// ForYear returns the table for year. When year has no table the default
// year's table is returned with ok=false.
func ForYear(year int) (*Year, bool) {
	y, ok := years[year]
	if !ok {
		y = years[DefaultYear]
	}
	return y, ok
}

// Supported lists the tax years with a table, ascending.
func Supported() []int {
	out := make([]int, 0, len(years))
	for year := range years {
		out = append(out, year)
	}
	sort.Ints(out)
	return out
}

// Parse decodes and validates a single year's YAML table.
func Parse(data []byte) (*Year, error) {
	var y Year
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("decode tax table: %w", err)
	}
	if err := y.validate(); err != nil {
		return nil, fmt.Errorf("tax table %d: %w", y.TaxYear, err)
	}
	return &y, nil
}

// StandardDeductionFor returns the standard deduction for fs.
func (y *Year) StandardDeductionFor(fs domain.FilingStatus) (decimal.Decimal, error) {
	d, ok := y.StandardDeduction[fs]
	if !ok {
		return decimal.Zero, fmt.Errorf("no standard deduction for %q in %d", fs, y.TaxYear)
	}
	return d, nil
}

// BracketsFor returns the ascending bracket table for fs.
func (y *Year) BracketsFor(fs domain.FilingStatus) ([]Bracket, error) {
	b, ok := y.Brackets[fs]
	if !ok || len(b) == 0 {
		return nil, fmt.Errorf("no brackets for %q in %d", fs, y.TaxYear)
	}
	return b, nil
}

// AdditionalMedicareThresholdFor returns the Additional Medicare Tax threshold for fs.
func (y *Year) AdditionalMedicareThresholdFor(fs domain.FilingStatus) (decimal.Decimal, error) {
	t, ok := y.SelfEmployment.AdditionalMedicareThreshold[fs]
	if !ok {
		return decimal.Zero, fmt.Errorf("no additional medicare threshold for %q in %d", fs, y.TaxYear)
	}
	return t, nil
}

// NIITThresholdFor returns the MAGI threshold of the net investment income tax for fs.
func (y *Year) NIITThresholdFor(fs domain.FilingStatus) (decimal.Decimal, error) {
	t, ok := y.NIIT.Threshold[fs]
	if !ok {
		return decimal.Zero, fmt.Errorf("no NIIT threshold for %q in %d", fs, y.TaxYear)
	}
	return t, nil
}

func (y *Year) validate() error {
	if y.TaxYear == 0 {
		return fmt.Errorf("missing tax_year")
	}
	for _, fs := range domain.FilingStatuses {
		d, ok := y.StandardDeduction[fs]
		if !ok || d.IsNegative() {
			return fmt.Errorf("standard deduction for %q missing or negative", fs)
		}
		if err := validateBrackets(y.Brackets[fs]); err != nil {
			return fmt.Errorf("brackets for %q: %w", fs, err)
		}
		if _, ok := y.SelfEmployment.AdditionalMedicareThreshold[fs]; !ok {
			return fmt.Errorf("additional medicare threshold for %q missing", fs)
		}
		if _, ok := y.NIIT.Threshold[fs]; !ok {
			return fmt.Errorf("NIIT threshold for %q missing", fs)
		}
	}
	for name, rate := range map[string]decimal.Decimal{
		"net_earnings_factor":      y.SelfEmployment.NetEarningsFactor,
		"social_security_rate":     y.SelfEmployment.SocialSecurityRate,
		"medicare_rate":            y.SelfEmployment.MedicareRate,
		"additional_medicare_rate": y.SelfEmployment.AdditionalMedicareRate,
		"niit rate":                y.NIIT.Rate,
	} {
		if !rate.IsPositive() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%s must be in (0, 1], got %s", name, rate)
		}
	}
	if !y.SelfEmployment.SocialSecurityWageBase.IsPositive() {
		return fmt.Errorf("social_security_wage_base must be positive")
	}
	return nil
}

func validateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("empty table")
	}
	if !brackets[0].Min.IsZero() {
		return fmt.Errorf("first bracket must start at 0, got %s", brackets[0].Min)
	}
	for i := 1; i < len(brackets); i++ {
		if !brackets[i].Min.GreaterThan(brackets[i-1].Min) {
			return fmt.Errorf("bracket %d lower bound %s is not above %s", i, brackets[i].Min, brackets[i-1].Min)
		}
		if brackets[i].Rate.LessThan(brackets[i-1].Rate) {
			return fmt.Errorf("bracket %d rate %s is below %s", i, brackets[i].Rate, brackets[i-1].Rate)
		}
	}
	return nil
}

func mustLoadEmbedded() map[int]*Year {
	out := make(map[int]*Year)
	paths, err := fs.Glob(files, "data/*.yaml")
	if err != nil {
		panic(err)
	}
	for _, p := range paths {
		data, err := files.ReadFile(p)
		if err != nil {
			panic(fmt.Sprintf("read %s: %v", p, err))
		}
		y, err := Parse(data)
		if err != nil {
			panic(fmt.Sprintf("load %s: %v", p, err))
		}
		out[y.TaxYear] = y
	}
	if _, ok := out[DefaultYear]; !ok {
		panic(fmt.Sprintf("no embedded table for default year %d", DefaultYear))
	}
	return out
}
