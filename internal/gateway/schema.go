package gateway

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"tax-engine/internal/domain"
)

// ErrNoValidDocuments is returned when a payload lists documents and every one
// of them fails validation.
var ErrNoValidDocuments = errors.New("no valid documents")

//go:embed schema/processed_document.json
var documentSchemaJSON []byte

var documentSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("processed_document.json", bytes.NewReader(documentSchemaJSON)); err != nil {
		panic(fmt.Sprintf("add document schema: %v", err))
	}
	schema, err := compiler.Compile("processed_document.json")
	if err != nil {
		panic(fmt.Sprintf("compile document schema: %v", err))
	}
	return schema
}

// ValidateDocument checks one raw document against the processed document schema.
func ValidateDocument(raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	if err := documentSchema.Validate(v); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}

// DecodeDocuments parses a JSON array of documents, or an object with a
// "documents" array. Documents that fail validation are logged and skipped.
// A payload that is not JSON, or whose documents are all invalid, is an error.
func DecodeDocuments(source string, data []byte, logger *zap.Logger) ([]domain.ProcessedDocument, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	raws, err := splitDocuments(data)
	if err != nil {
		return nil, fmt.Errorf("decode documents from %s: %w", source, err)
	}

	docs := make([]domain.ProcessedDocument, 0, len(raws))
	for i, raw := range raws {
		if err := ValidateDocument(raw); err != nil {
			logger.Warn("skipping invalid document",
				zap.String("source", source),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		var doc domain.ProcessedDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			logger.Warn("skipping undecodable document",
				zap.String("source", source),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		docs = append(docs, normalizeDocument(doc, source, i))
	}
	if len(raws) > 0 && len(docs) == 0 {
		return nil, fmt.Errorf("decode documents from %s: %w", source, ErrNoValidDocuments)
	}
	return docs, nil
}

func splitDocuments(data []byte) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '{' {
		var wrapper struct {
			Documents []json.RawMessage `json:"documents"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		return wrapper.Documents, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

func normalizeDocument(doc domain.ProcessedDocument, source string, index int) domain.ProcessedDocument {
	if doc.FileName == "" {
		doc.FileName = "unknown"
	}
	if doc.ID == "" {
		doc.ID = documentID(source, doc.FileName, index)
	}
	doc.DocumentType = documentType(string(doc.DocumentType))
	if doc.ExtractedData == nil {
		doc.ExtractedData = []domain.RawField{}
	}
	return doc
}
