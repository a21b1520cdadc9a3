package domain

// FilingStatus is the engine's internal filing status token.
type FilingStatus string

const (
	FilingStatusSingle                  FilingStatus = "single"
	FilingStatusMarriedFilingJointly    FilingStatus = "marriedFilingJointly"
	FilingStatusMarriedFilingSeparately FilingStatus = "marriedFilingSeparately"
	FilingStatusHeadOfHousehold         FilingStatus = "headOfHousehold"
	FilingStatusQualifyingWidow         FilingStatus = "qualifyingWidow"
)

// FilingStatuses lists every supported status in a stable order.
var FilingStatuses = []FilingStatus{
	FilingStatusSingle,
	FilingStatusMarriedFilingJointly,
	FilingStatusMarriedFilingSeparately,
	FilingStatusHeadOfHousehold,
	FilingStatusQualifyingWidow,
}

// uiTokens is the fixed translation between the hyphenated tokens used by the
// presentation layer and the internal tokens.
var uiTokens = map[string]FilingStatus{
	"single":             FilingStatusSingle,
	"married-jointly":    FilingStatusMarriedFilingJointly,
	"married-separately": FilingStatusMarriedFilingSeparately,
	"head-of-household":  FilingStatusHeadOfHousehold,
	"qualifying-widow":   FilingStatusQualifyingWidow,
}

// ParseFilingStatus resolves either a UI token or an internal token.
// Unknown values fall back to single.
func ParseFilingStatus(s string) FilingStatus {
	if fs, ok := uiTokens[s]; ok {
		return fs
	}
	fs := FilingStatus(s)
	if fs.Valid() {
		return fs
	}
	return FilingStatusSingle
}

// Valid reports whether fs is one of the internal tokens.
func (fs FilingStatus) Valid() bool {
	for _, known := range FilingStatuses {
		if fs == known {
			return true
		}
	}
	return false
}

// UIToken returns the hyphenated presentation token for fs.
func (fs FilingStatus) UIToken() string {
	for token, status := range uiTokens {
		if status == fs {
			return token
		}
	}
	return "single"
}
