package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tax-engine/internal/domain"
)

// ParseFieldValue turns a raw provider value into the tagged variant.
// A JSON string whose content is itself a JSON object is parsed as Nested; a
// string that fails to parse is kept as a plain String.
func ParseFieldValue(raw json.RawMessage) domain.FieldValue {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return domain.FieldValue{Kind: domain.ValueKindNone}
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return domain.FieldValue{Kind: domain.ValueKindString, Text: string(raw)}
		}
		if m, ok := decodeObject([]byte(strings.TrimSpace(s))); ok {
			return domain.FieldValue{Kind: domain.ValueKindNested, Nested: m}
		}
		return domain.FieldValue{Kind: domain.ValueKindString, Text: s}
	case '{':
		if m, ok := decodeObject(raw); ok {
			return domain.FieldValue{Kind: domain.ValueKindNested, Nested: m}
		}
		return domain.FieldValue{Kind: domain.ValueKindString, Text: string(raw)}
	}

	if d, err := decimal.NewFromString(string(raw)); err == nil {
		return domain.FieldValue{Kind: domain.ValueKindNumber, Number: d}
	}
	return domain.FieldValue{Kind: domain.ValueKindString, Text: string(raw)}
}

func decodeObject(b []byte) (map[string]any, bool) {
	if len(b) == 0 || b[0] != '{' {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, false
	}
	return m, true
}

// Resolve unwraps v to a scalar using a fixed priority:
//
//  1. top-level valueNumber
//  2. top-level valueString
//  3. nested value.valueNumber
//  4. nested value.valueString
//  5. raw passthrough: a bare Number or String, or a scalar under "value"
//
// It reports false when nothing usable is found.
func Resolve(v domain.FieldValue) (domain.FieldValue, bool) {
	switch v.Kind {
	case domain.ValueKindNumber, domain.ValueKindString:
		return v, true
	case domain.ValueKindNested:
		return resolveNested(v.Nested)
	}
	return domain.FieldValue{}, false
}

func resolveNested(m map[string]any) (domain.FieldValue, bool) {
	if n, ok := numberAt(m, "valueNumber"); ok {
		return domain.FieldValue{Kind: domain.ValueKindNumber, Number: n}, true
	}
	if s, ok := m["valueString"].(string); ok {
		return domain.FieldValue{Kind: domain.ValueKindString, Text: s}, true
	}
	inner, isMap := m["value"].(map[string]any)
	if isMap {
		if n, ok := numberAt(inner, "valueNumber"); ok {
			return domain.FieldValue{Kind: domain.ValueKindNumber, Number: n}, true
		}
		if s, ok := inner["valueString"].(string); ok {
			return domain.FieldValue{Kind: domain.ValueKindString, Text: s}, true
		}
		return domain.FieldValue{}, false
	}
	if n, ok := numberAt(m, "value"); ok {
		return domain.FieldValue{Kind: domain.ValueKindNumber, Number: n}, true
	}
	if s, ok := m["value"].(string); ok {
		return domain.FieldValue{Kind: domain.ValueKindString, Text: s}, true
	}
	return domain.FieldValue{}, false
}

func numberAt(m map[string]any, key string) (decimal.Decimal, bool) {
	switch n := m[key].(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(n), true
	}
	return decimal.Zero, false
}

// ProviderConfidence returns the confidence the provider embedded in a nested
// value, or 0.
func ProviderConfidence(v domain.FieldValue) float64 {
	if v.Kind != domain.ValueKindNested {
		return 0
	}
	if c, ok := numberAt(v.Nested, "confidence"); ok && domain.BoundedExponent(c) {
		f, _ := c.Float64()
		return f
	}
	return 0
}

var errEmptyAmount = errors.New("empty amount")

// ParseAmount converts a resolved scalar into a monetary amount. Strings may
// carry a dollar sign, thousands separators and accounting-style parentheses.
// Amounts failing domain.CheckAmount are errors.
func ParseAmount(v domain.FieldValue) (decimal.Decimal, error) {
	switch v.Kind {
	case domain.ValueKindNumber:
		if err := domain.CheckAmount(v.Number); err != nil {
			return decimal.Zero, err
		}
		return v.Number, nil
	case domain.ValueKindString:
		s := strings.TrimSpace(v.Text)
		negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
		s = strings.Trim(s, "()")
		s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
		if s == "" {
			return decimal.Zero, errEmptyAmount
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse amount %q: %w", v.Text, err)
		}
		if err := domain.CheckAmount(d); err != nil {
			return decimal.Zero, fmt.Errorf("parse amount %q: %w", v.Text, err)
		}
		if negative {
			d = d.Neg()
		}
		return d, nil
	}
	return decimal.Zero, fmt.Errorf("value of kind %s is not an amount", v.Kind)
}
