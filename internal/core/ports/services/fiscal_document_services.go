package services

import (
	"context"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
)

// FiscalDocumentSvcFacade exposes fiscal document import and listing.
type FiscalDocumentSvcFacade interface {
	// ImportXML parses an uploaded NFe/CTe XML payload into a fiscal document
	// and persists it.
	ImportXML(ctx context.Context, organizationID string, payload []byte, creatorUserID string) (*domain.FiscalDocument, error)

	// CreateDocument persists a manually entered fiscal document and its items.
	CreateDocument(ctx context.Context, organizationID string, req dto.CreateFiscalDocumentRequest, creatorUserID string) (*domain.FiscalDocument, error)

	// ListDocuments retrieves a token-paginated page of fiscal documents.
	ListDocuments(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.FiscalDocument, *string, error)
}
