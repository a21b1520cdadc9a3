package usecase

import (
	"context"

	"tax-engine/internal/domain"
)

// DocumentRepository loads the processed documents of one source: an owner ID
// for database-backed stores, a path for file-backed ones.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go DocumentRepository,TaxReturnRepository
type DocumentRepository interface {
	GetProcessedDocuments(ctx context.Context, source string) ([]domain.ProcessedDocument, error)
}

// TaxReturnRepository persists the overview of the latest calculation per owner and year.
type TaxReturnRepository interface {
	SaveTaxReturn(ctx context.Context, owner string, taxYear int, overview domain.TaxOverview) error
}
