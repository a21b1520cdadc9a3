package extract

import (
	"strings"

	"tax-engine/internal/domain"
)

// personalInfoFrom reads name, SSN and address from the highest-confidence
// W-2 scored above MinFieldConfidence. The nested Employee object wins over
// flat fields.
func personalInfoFrom(docs []domain.ProcessedDocument) domain.PersonalInfo {
	var best *domain.ProcessedDocument
	for i := range docs {
		if docs[i].DocumentType != domain.DocumentTypeW2 || docs[i].Confidence <= MinFieldConfidence {
			continue
		}
		if best == nil || docs[i].Confidence > best.Confidence {
			best = &docs[i]
		}
	}
	if best == nil {
		return domain.PersonalInfo{}
	}

	var fromObject, flat domain.PersonalInfo
	for _, field := range best.ExtractedData {
		value := ParseFieldValue(field.FieldValue)
		switch normalizeName(field.FieldName) {
		case "employee":
			if value.Kind == domain.ValueKindNested {
				fromObject = employeeObject(value.Nested)
			}
		case "employeename", "name":
			setIfEmpty(&flat.Name, scalarText(value))
		case "employeessn", "employeesocialsecuritynumber", "ssn", "socialsecuritynumber":
			setIfEmpty(&flat.SSN, scalarText(value))
		case "employeeaddress", "address":
			setIfEmpty(&flat.Address, scalarText(value))
		}
	}

	return domain.PersonalInfo{
		Name:    firstNonEmpty(fromObject.Name, flat.Name),
		SSN:     firstNonEmpty(fromObject.SSN, flat.SSN),
		Address: firstNonEmpty(fromObject.Address, flat.Address),
	}
}

func employeeObject(m map[string]any) domain.PersonalInfo {
	emp, ok := m["value"].(map[string]any)
	if !ok {
		return domain.PersonalInfo{}
	}
	info := domain.PersonalInfo{
		Name: nestedText(emp["Name"]),
		SSN:  nestedText(emp["SocialSecurityNumber"]),
	}
	if addr, ok := emp["Address"].(map[string]any); ok {
		info.Address = addressText(addr)
	}
	return info
}

func addressText(addr map[string]any) string {
	if components, ok := addr["value"].(map[string]any); ok {
		var parts []string
		for _, key := range []string{"streetAddress", "city", "state", "postalCode"} {
			if s, ok := components[key].(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	return nestedText(addr)
}

func nestedText(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	return scalarText(domain.FieldValue{Kind: domain.ValueKindNested, Nested: m})
}

func scalarText(v domain.FieldValue) string {
	scalar, ok := Resolve(v)
	if !ok || scalar.Kind != domain.ValueKindString {
		return ""
	}
	return strings.TrimSpace(scalar.Text)
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
