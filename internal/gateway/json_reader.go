package gateway

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"tax-engine/internal/domain"
)

// JSONDocumentRepository implements the DocumentRepository interface for JSON
// files. A source is a file path, or an owner name resolved to <dir>/<owner>.json.
type JSONDocumentRepository struct {
	dir    string
	logger *zap.Logger
}

// NewJSONDocumentRepository creates a repository rooted at dir. An empty dir
// resolves sources against the working directory.
func NewJSONDocumentRepository(dir string, logger *zap.Logger) *JSONDocumentRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONDocumentRepository{dir: dir, logger: logger}
}

// GetProcessedDocuments reads and validates the documents of source. An owner
// without a file has no documents yet; a missing file named explicitly is an error.
func (r *JSONDocumentRepository) GetProcessedDocuments(ctx context.Context, source string) ([]domain.ProcessedDocument, error) {
	path, owner, err := r.resolve(source)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs, err := r.readFile(path)
	if owner && errors.Is(err, os.ErrNotExist) {
		r.logger.Info("no document file for owner", zap.String("path", path))
		return []domain.ProcessedDocument{}, nil
	}
	return docs, err
}

func (r *JSONDocumentRepository) readFile(path string) ([]domain.ProcessedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file %s: %w", path, err)
	}
	return DecodeDocuments(path, data, r.logger)
}

// resolve maps source to a file. A source without an extension names an owner
// and resolves to <dir>/<owner>.json.
func (r *JSONDocumentRepository) resolve(source string) (path string, owner bool, err error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", false, errors.New("empty document source")
	}
	if filepath.Ext(source) == "" {
		if strings.ContainsAny(source, `/\`) {
			return "", false, fmt.Errorf("invalid document owner %q", source)
		}
		source += ".json"
		owner = true
	}
	if filepath.IsAbs(source) || r.dir == "" {
		return source, owner, nil
	}
	path = filepath.Join(r.dir, source)
	if rel, err := filepath.Rel(r.dir, path); err != nil || strings.HasPrefix(rel, "..") {
		return "", false, fmt.Errorf("document source %q escapes %s", source, r.dir)
	}
	return path, owner, nil
}
