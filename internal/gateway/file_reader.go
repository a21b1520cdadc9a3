package gateway

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"tax-engine/internal/domain"
)

// FileDocumentRepository reads a comma-separated list of local document files,
// CSV or JSON by extension. Every named file must exist.
type FileDocumentRepository struct {
	csv  *CSVDocumentRepository
	json *JSONDocumentRepository
}

// NewFileDocumentRepository creates a repository for local document files.
func NewFileDocumentRepository(logger *zap.Logger) *FileDocumentRepository {
	return &FileDocumentRepository{
		csv:  NewCSVDocumentRepository(),
		json: NewJSONDocumentRepository("", logger),
	}
}

// GetProcessedDocuments reads every file of source in order. CSV rows of the
// same document are grouped across CSV files; JSON documents are taken as is.
func (r *FileDocumentRepository) GetProcessedDocuments(ctx context.Context, source string) ([]domain.ProcessedDocument, error) {
	docs := []domain.ProcessedDocument{}
	byID := make(map[string]int)
	read := 0

	for _, path := range strings.Split(source, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		read++

		if strings.EqualFold(filepath.Ext(path), ".csv") {
			if err := r.csv.readFile(path, &docs, byID); err != nil {
				return nil, err
			}
			continue
		}
		found, err := r.json.readFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, found...)
	}
	if read == 0 {
		return nil, errors.New("empty document source")
	}
	return docs, nil
}
