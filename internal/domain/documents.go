package domain

import "encoding/json"

// DocumentType tags the kind of tax form a processed document was classified as.
type DocumentType string

const (
	DocumentTypeW2       DocumentType = "W2"
	DocumentType1099INT  DocumentType = "FORM_1099_INT"
	DocumentType1099DIV  DocumentType = "FORM_1099_DIV"
	DocumentType1099NEC  DocumentType = "FORM_1099_NEC"
	DocumentType1099MISC DocumentType = "FORM_1099_MISC"
	DocumentTypeOther    DocumentType = "OTHER"
)

// ProcessedDocument is a document the document-processing collaborator has finished
// extracting. It is the input of the field extractor.
type ProcessedDocument struct {
	ID            string       `json:"id"`
	FileName      string       `json:"fileName"`
	DocumentType  DocumentType `json:"documentType"`
	Confidence    float64      `json:"confidence"`
	ExtractedData []RawField   `json:"extractedData"`
}

// RawField is a single provider field as stored by the document processor.
// FieldValue is kept as raw JSON: it may be a number, a string, a nested provider
// object, or a string holding a JSON-encoded nested object. A zero Confidence
// means the field was not scored and the provider's nested confidence applies.
type RawField struct {
	FieldName  string          `json:"fieldName"`
	FieldValue json.RawMessage `json:"fieldValue"`
	Confidence float64         `json:"confidence"`
}
