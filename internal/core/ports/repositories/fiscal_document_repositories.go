package repositories

import (
	"context"
	"time"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
)

// FiscalDocumentReader defines read operations for fiscal document data.
type FiscalDocumentReader interface {
	// FindDocumentByID retrieves a fiscal document by its unique identifier.
	FindDocumentByID(ctx context.Context, organizationID, documentID string) (*domain.FiscalDocument, error)

	// FindItemsByDocumentID retrieves the classified items of a document in
	// their original order.
	FindItemsByDocumentID(ctx context.Context, documentID string) ([]domain.DocumentItem, error)

	// ListDocumentsByPeriod retrieves all fiscal documents issued within
	// [from, to] for an organization, ordered by issue date.
	ListDocumentsByPeriod(ctx context.Context, organizationID string, from, to time.Time) ([]domain.FiscalDocument, error)

	// ListDocuments retrieves a token-paginated list of fiscal documents.
	// It returns the documents, a token for the next page, and an error.
	ListDocuments(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.FiscalDocument, *string, error)
}

// FiscalDocumentWriter defines write operations for fiscal document data.
type FiscalDocumentWriter interface {
	// SaveDocument persists a fiscal document and its items atomically.
	SaveDocument(ctx context.Context, document domain.FiscalDocument, items []domain.DocumentItem) error
}

// FiscalDocumentRepositoryFacade combines all fiscal-document repository interfaces.
type FiscalDocumentRepositoryFacade interface {
	FiscalDocumentReader
	FiscalDocumentWriter
}
