package gateway

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tax-engine/internal/domain"
)

//go:embed migrations/001_documents.sql
var schemaSQL string

// PostgresConfig holds the connection pool settings.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// OpenPostgres creates a pgx pool and verifies the connection.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "tax-engine"

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("connected to database",
		zap.String("host", pc.ConnConfig.Host),
		zap.String("database", pc.ConnConfig.Database),
		zap.Int32("max_conns", pc.MaxConns))
	return pool, nil
}

// PostgresDocumentRepository implements the DocumentRepository and
// TaxReturnRepository interfaces on PostgreSQL. Sources are user IDs.
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresDocumentRepository creates a new repository instance.
func NewPostgresDocumentRepository(pool *pgxpool.Pool, logger *zap.Logger) *PostgresDocumentRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresDocumentRepository{pool: pool, logger: logger}
}

// Migrate creates the tables when they do not exist.
func (r *PostgresDocumentRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *PostgresDocumentRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

const processedDocumentsQuery = `
SELECT d.id, d.file_name, d.document_type, d.confidence,
       e.field_name, e.field_value, e.confidence
FROM documents d
LEFT JOIN extracted_data e ON e.document_id = d.id
WHERE d.user_id = $1 AND d.processing_status = 'COMPLETED'
ORDER BY d.created_at, d.id, e.id`

// documentRow is one row of processedDocumentsQuery. Extracted data columns are
// NULL for documents without fields.
type documentRow struct {
	DocumentID      string
	FileName        *string
	DocumentType    *string
	DocConfidence   *float64
	FieldName       *string
	FieldValue      []byte
	FieldConfidence *float64
}

// GetProcessedDocuments returns the completed documents of a user with their extracted fields.
func (r *PostgresDocumentRepository) GetProcessedDocuments(ctx context.Context, userID string) ([]domain.ProcessedDocument, error) {
	rows, err := r.pool.Query(ctx, processedDocumentsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("query processed documents: %w", err)
	}
	defer rows.Close()

	var scanned []documentRow
	for rows.Next() {
		var row documentRow
		if err := rows.Scan(
			&row.DocumentID,
			&row.FileName,
			&row.DocumentType,
			&row.DocConfidence,
			&row.FieldName,
			&row.FieldValue,
			&row.FieldConfidence,
		); err != nil {
			return nil, fmt.Errorf("scan processed document: %w", err)
		}
		scanned = append(scanned, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processed documents: %w", err)
	}

	docs := groupDocumentRows(scanned)
	r.logger.Debug("loaded processed documents",
		zap.String("user_id", userID),
		zap.Int("documents", len(docs)),
		zap.Int("rows", len(scanned)))
	return docs, nil
}

const upsertTaxReturn = `
INSERT INTO tax_returns (user_id, tax_year, total_income, standard_deduction, taxable_income, estimated_tax, updated_at)
VALUES ($1, $2, $3::text::numeric, $4::text::numeric, $5::text::numeric, $6::text::numeric, now())
ON CONFLICT (user_id, tax_year) DO UPDATE SET
    total_income       = EXCLUDED.total_income,
    standard_deduction = EXCLUDED.standard_deduction,
    taxable_income     = EXCLUDED.taxable_income,
    estimated_tax      = EXCLUDED.estimated_tax,
    updated_at         = now()`

// SaveTaxReturn stores the overview of the latest calculation for a user and year.
func (r *PostgresDocumentRepository) SaveTaxReturn(ctx context.Context, userID string, taxYear int, o domain.TaxOverview) error {
	_, err := r.pool.Exec(ctx, upsertTaxReturn,
		userID,
		taxYear,
		o.TotalIncome.StringFixed(2),
		o.StandardDeduction.StringFixed(2),
		o.TaxableIncome.StringFixed(2),
		o.EstimatedTax.StringFixed(2),
	)
	if err != nil {
		return fmt.Errorf("upsert tax return for %s/%d: %w", userID, taxYear, err)
	}
	return nil
}

// groupDocumentRows folds joined rows into documents, preserving row order.
func groupDocumentRows(rows []documentRow) []domain.ProcessedDocument {
	docs := []domain.ProcessedDocument{}
	byID := make(map[string]int)
	for _, row := range rows {
		i, ok := byID[row.DocumentID]
		if !ok {
			doc := domain.ProcessedDocument{
				ID:            row.DocumentID,
				FileName:      "unknown",
				DocumentType:  documentType(deref(row.DocumentType)),
				ExtractedData: []domain.RawField{},
			}
			if row.FileName != nil && *row.FileName != "" {
				doc.FileName = *row.FileName
			}
			if row.DocConfidence != nil {
				doc.Confidence = *row.DocConfidence
			}
			docs = append(docs, doc)
			i = len(docs) - 1
			byID[row.DocumentID] = i
		}
		if row.FieldName == nil {
			continue
		}
		field := domain.RawField{
			FieldName:  *row.FieldName,
			FieldValue: rawFieldValue(row.FieldValue),
		}
		if row.FieldConfidence != nil {
			field.Confidence = *row.FieldConfidence
		}
		docs[i].ExtractedData = append(docs[i].ExtractedData, field)
	}
	return docs
}

// rawFieldValue passes stored JSON through and encodes anything else as a JSON string.
func rawFieldValue(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	out, _ := json.Marshal(string(b))
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
