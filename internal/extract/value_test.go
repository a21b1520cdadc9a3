package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tax-engine/internal/domain"
)

func TestParseFieldValue(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind domain.ValueKind
	}{
		{name: "empty", raw: "", wantKind: domain.ValueKindNone},
		{name: "null", raw: "null", wantKind: domain.ValueKindNone},
		{name: "number", raw: "60000.5", wantKind: domain.ValueKindNumber},
		{name: "plain string", raw: `"$1,200.00"`, wantKind: domain.ValueKindString},
		{name: "object", raw: `{"valueNumber": 12}`, wantKind: domain.ValueKindNested},
		{name: "stringified object", raw: `"{\"valueNumber\": 12}"`, wantKind: domain.ValueKindNested},
		{name: "stringified broken object", raw: `"{\"valueNumber\": "`, wantKind: domain.ValueKindString},
		{name: "boolean is kept as text", raw: "true", wantKind: domain.ValueKindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFieldValue(json.RawMessage(tt.raw))
			assert.Equal(t, tt.wantKind, got.Kind)
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantOK   bool
		wantKind domain.ValueKind
		want     string
	}{
		{name: "bare number", raw: "42", wantOK: true, wantKind: domain.ValueKindNumber, want: "42"},
		{name: "bare string", raw: `"42.10"`, wantOK: true, wantKind: domain.ValueKindString, want: "42.10"},
		{name: "top level number wins over string", raw: `{"valueNumber": 7, "valueString": "8"}`, wantOK: true, wantKind: domain.ValueKindNumber, want: "7"},
		{name: "top level string", raw: `{"valueString": "1,000"}`, wantOK: true, wantKind: domain.ValueKindString, want: "1,000"},
		{name: "nested number", raw: `{"value": {"valueNumber": 60000, "valueString": "x"}}`, wantOK: true, wantKind: domain.ValueKindNumber, want: "60000"},
		{name: "nested string", raw: `{"value": {"valueString": "5000.00"}}`, wantOK: true, wantKind: domain.ValueKindString, want: "5000.00"},
		{name: "scalar under value", raw: `{"value": 12.5}`, wantOK: true, wantKind: domain.ValueKindNumber, want: "12.5"},
		{name: "nested object without scalar", raw: `{"value": {"Name": {}}}`, wantOK: false},
		{name: "empty object", raw: `{}`, wantOK: false},
		{name: "null", raw: "null", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(ParseFieldValue(json.RawMessage(tt.raw)))
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantKind, got.Kind)
			if got.Kind == domain.ValueKindNumber {
				assert.Equal(t, tt.want, got.Number.String())
			} else {
				assert.Equal(t, tt.want, got.Text)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		value   domain.FieldValue
		want    string
		wantErr bool
	}{
		{name: "number", value: domain.FieldValue{Kind: domain.ValueKindNumber, Number: dec("10.25")}, want: "10.25"},
		{name: "currency string", value: text("$60,000.00"), want: "60000"},
		{name: "spaces", value: text(" 1 200 "), want: "1200"},
		{name: "accounting negative", value: text("(250.00)"), want: "-250"},
		{name: "plain negative", value: text("-5"), want: "-5"},
		{name: "empty", value: text("$ "), wantErr: true},
		{name: "not a number", value: text("N/A"), wantErr: true},
		{name: "nested", value: domain.FieldValue{Kind: domain.ValueKindNested}, wantErr: true},
		{name: "huge exponent string", value: text("1e200000000"), wantErr: true},
		{name: "tiny exponent string", value: text("1e-200000000"), wantErr: true},
		{name: "huge exponent number", value: ParseFieldValue(json.RawMessage(`1e200000000`)), wantErr: true},
		{name: "above magnitude bound", value: text("2000000000000000"), wantErr: true},
		{name: "at magnitude bound", value: text("1e15"), want: "1000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestProviderConfidence(t *testing.T) {
	assert.Equal(t, 0.93, ProviderConfidence(ParseFieldValue(json.RawMessage(`{"valueNumber": 1, "confidence": 0.93}`))))
	assert.Equal(t, 0.0, ProviderConfidence(ParseFieldValue(json.RawMessage(`{"valueNumber": 1}`))))
	assert.Equal(t, 0.0, ProviderConfidence(ParseFieldValue(json.RawMessage(`1`))))
	assert.Equal(t, 0.0, ProviderConfidence(ParseFieldValue(json.RawMessage(`{"valueNumber": 1, "confidence": 1e200000000}`))))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		docType    domain.DocumentType
		field      string
		wantOK     bool
		wantBucket domain.Bucket
	}{
		{docType: domain.DocumentTypeW2, field: "WagesTipsAndOtherCompensation", wantOK: true, wantBucket: domain.BucketWages},
		{docType: domain.DocumentTypeW2, field: "box 2", wantOK: true, wantBucket: domain.BucketFederalTax},
		{docType: domain.DocumentType1099DIV, field: "Box_1B", wantOK: true, wantBucket: domain.BucketQualifiedDividends},
		{docType: domain.DocumentType1099MISC, field: "Royalties", wantOK: true, wantBucket: domain.BucketMiscellaneousIncome},
		{docType: domain.DocumentTypeOther, field: "Royalties", wantOK: true, wantBucket: domain.BucketRentalRoyalties},
		{docType: domain.DocumentType1099INT, field: "PayerName", wantOK: false},
		{docType: domain.DocumentType("1098"), field: "Box1", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.docType)+"/"+tt.field, func(t *testing.T) {
			r, ok := classify(tt.docType, tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantBucket, r.bucket)
		})
	}
}

func text(s string) domain.FieldValue {
	return domain.FieldValue{Kind: domain.ValueKindString, Text: s}
}
