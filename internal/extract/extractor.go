// Package extract turns provider-extracted document fields into the canonical
// TaxDocumentData consumed by the tax engine.
package extract

import (
	"fmt"

	"go.uber.org/zap"

	"tax-engine/internal/domain"
)

// MinFieldConfidence is the lowest field confidence that is summed into a bucket.
const MinFieldConfidence = 0.1

// Result is the output of one extraction pass.
type Result struct {
	Data     domain.TaxDocumentData  `json:"data"`
	Fields   []domain.ExtractedField `json:"fields"`
	Warnings []domain.Warning        `json:"warnings"`
}

// Extractor classifies and sums document fields. It keeps no state between calls.
type Extractor struct {
	logger        *zap.Logger
	minConfidence float64
}

// NewExtractor creates an extractor. A nil logger discards output.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger, minConfidence: MinFieldConfidence}
}

// Extract builds TaxDocumentData from docs. Malformed fields and documents are
// skipped with a warning; they never abort the batch.
func (e *Extractor) Extract(docs []domain.ProcessedDocument) Result {
	res := Result{
		Data:     domain.NewTaxDocumentData(),
		Fields:   []domain.ExtractedField{},
		Warnings: []domain.Warning{},
	}
	for _, doc := range docs {
		e.extractDocument(&res, doc)
	}
	res.Data.PersonalInfo = personalInfoFrom(docs)

	e.logger.Info("documents extracted",
		zap.Int("documents", len(docs)),
		zap.Int("fields", len(res.Fields)),
		zap.Int("warnings", len(res.Warnings)),
		zap.String("wages", res.Data.Income.Wages.StringFixed(2)),
		zap.String("federal_withheld", res.Data.Withholdings.FederalTax.StringFixed(2)),
	)
	return res
}

func (e *Extractor) extractDocument(res *Result, doc domain.ProcessedDocument) {
	if !supportedType(doc.DocumentType) {
		if len(doc.ExtractedData) > 0 {
			e.warn(res, doc.ID, "", fmt.Sprintf("no extraction rules for document type %q", doc.DocumentType))
		}
		return
	}

	for _, field := range doc.ExtractedData {
		r, ok := classify(doc.DocumentType, field.FieldName)
		if !ok {
			continue
		}

		value := ParseFieldValue(field.FieldValue)
		scalar, ok := Resolve(value)
		if !ok {
			e.warn(res, doc.ID, field.FieldName, fmt.Sprintf("unresolvable %s value", value.Kind))
			continue
		}
		amount, err := ParseAmount(scalar)
		if err != nil {
			e.warn(res, doc.ID, field.FieldName, err.Error())
			continue
		}
		if amount.IsNegative() {
			e.logger.Debug("negative amount clamped to zero",
				zap.String("document_id", doc.ID),
				zap.String("field", field.FieldName),
				zap.String("amount", amount.String()))
			amount = domain.NonNegative(amount)
		}
		amount = domain.RoundMoney(amount)

		// Zero means the field carries no score of its own.
		confidence := field.Confidence
		if confidence <= 0 {
			confidence = ProviderConfidence(value)
		}

		res.Fields = append(res.Fields, domain.ExtractedField{
			DocumentID:   doc.ID,
			FieldName:    field.FieldName,
			BoxReference: r.box,
			RawValue:     value,
			Confidence:   confidence,
		})

		entry := domain.SourceEntry{
			DocumentID:   doc.ID,
			FileName:     doc.FileName,
			DocumentType: doc.DocumentType,
			FieldName:    field.FieldName,
			BoxReference: r.box,
			Amount:       amount,
			Confidence:   confidence,
			Included:     confidence >= e.minConfidence,
		}
		if entry.Included {
			res.Data.Add(r.bucket, amount)
		} else {
			entry.ExcludedReason = fmt.Sprintf("confidence %.2f below %.2f", confidence, e.minConfidence)
		}
		res.Data.Breakdown[r.bucket] = append(res.Data.Breakdown[r.bucket], entry)
	}
}

func (e *Extractor) warn(res *Result, docID, field, msg string) {
	res.Warnings = append(res.Warnings, domain.Warning{DocumentID: docID, FieldName: field, Message: msg})
	e.logger.Warn("skipping extracted field",
		zap.String("document_id", docID),
		zap.String("field", field),
		zap.String("reason", msg))
}
