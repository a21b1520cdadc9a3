package gateway

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"tax-engine/internal/domain"
)

// csvHeader is the column layout of a document export: one row per extracted field.
// An empty fieldConfidence means the field has no score of its own; the
// extractor then uses the provider confidence nested in fieldValue, if any.
var csvHeader = []string{"documentId", "fileName", "documentType", "docConfidence", "fieldName", "fieldValue", "fieldConfidence"}

// CSVDocumentRepository implements the DocumentRepository interface for CSV files.
type CSVDocumentRepository struct{}

// NewCSVDocumentRepository creates a new repository instance.
func NewCSVDocumentRepository() *CSVDocumentRepository {
	return &CSVDocumentRepository{}
}

// GetProcessedDocuments reads one or more comma-separated CSV paths and groups
// the rows into documents, in the order each document first appears.
func (r *CSVDocumentRepository) GetProcessedDocuments(ctx context.Context, source string) ([]domain.ProcessedDocument, error) {
	var docs []domain.ProcessedDocument
	byID := make(map[string]int)

	for _, path := range strings.Split(source, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.readFile(path, &docs, byID); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// readFile appends the rows of one CSV file to docs, merging rows into the
// documents already indexed in byID.
func (r *CSVDocumentRepository) readFile(path string, docs *[]domain.ProcessedDocument, byID map[string]int) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open document file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(csvHeader)
	// Skip header
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading record from %s: %w", path, err)
		}

		docConfidence, err := parseConfidence(record[3])
		if err != nil {
			return fmt.Errorf("could not parse docConfidence '%s': %w", record[3], err)
		}
		fieldConfidence, err := parseConfidence(record[6])
		if err != nil {
			return fmt.Errorf("could not parse fieldConfidence '%s': %w", record[6], err)
		}

		id := record[0]
		if id == "" {
			id = documentID(path, record[1], 0)
		}
		i, ok := byID[id]
		if !ok {
			*docs = append(*docs, domain.ProcessedDocument{
				ID:            id,
				FileName:      record[1],
				DocumentType:  documentType(record[2]),
				Confidence:    docConfidence,
				ExtractedData: []domain.RawField{},
			})
			i = len(*docs) - 1
			byID[id] = i
		}

		if record[4] == "" {
			continue
		}
		doc := &(*docs)[i]
		doc.ExtractedData = append(doc.ExtractedData, domain.RawField{
			FieldName:  record[4],
			FieldValue: csvFieldValue(record[5]),
			Confidence: fieldConfidence,
		})
	}
	return nil
}

func parseConfidence(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// csvFieldValue keeps cells that already hold JSON (numbers, objects, quoted
// strings) and encodes everything else as a JSON string.
func csvFieldValue(cell string) json.RawMessage {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return json.RawMessage("null")
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	b, _ := json.Marshal(cell)
	return b
}
