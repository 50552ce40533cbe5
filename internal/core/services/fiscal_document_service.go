package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/middleware"
)

// fiscalDocumentService imports and lists NFe/CTe documents.
type fiscalDocumentService struct {
	documentRepo portsrepo.FiscalDocumentRepositoryFacade
	orgRepo      portsrepo.OrganizationRepositoryFacade
}

// NewFiscalDocumentService creates a new fiscal document service.
func NewFiscalDocumentService(documentRepo portsrepo.FiscalDocumentRepositoryFacade, orgRepo portsrepo.OrganizationRepositoryFacade) portssvc.FiscalDocumentSvcFacade {
	return &fiscalDocumentService{documentRepo: documentRepo, orgRepo: orgRepo}
}

var _ portssvc.FiscalDocumentSvcFacade = (*fiscalDocumentService)(nil)

// ImportXML parses one uploaded NFe/CTe XML, resolves or creates the emitter
// as a business partner and persists the document with its items.
func (s *fiscalDocumentService) ImportXML(ctx context.Context, organizationID string, payload []byte, creatorUserID string) (*domain.FiscalDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	parsed, err := parseFiscalXML(payload)
	if err != nil {
		return nil, err
	}
	if _, err := domain.NormalizeCFOP(parsed.cfop); err != nil {
		return nil, err
	}

	partnerID, err := s.resolvePartner(ctx, organizationID, parsed, creatorUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: creatorUserID, LastUpdatedAt: now, LastUpdatedBy: creatorUserID}

	netAmount, err := domain.NewMoney(parsed.netAmount, domain.DefaultCurrency)
	if err != nil {
		return nil, err
	}

	icmsDebit := domain.ZeroMoney(domain.DefaultCurrency)
	icmsCredit := domain.ZeroMoney(domain.DefaultCurrency)
	icms, err := domain.NewMoney(parsed.icms, domain.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	if cfop, cerr := domain.NormalizeCFOP(parsed.cfop); cerr == nil && cfop[0] >= '5' {
		icmsDebit = icms
	} else {
		icmsCredit = icms
	}

	document := domain.FiscalDocument{
		DocumentID:     uuid.NewString(),
		OrganizationID: organizationID,
		PartnerID:      partnerID,
		DocumentType:   parsed.documentType,
		Number:         parsed.number,
		AccessKey:      parsed.accessKey,
		IssueDate:      parsed.issueDate,
		CFOP:           parsed.cfop,
		NetAmount:      netAmount,
		ICMSDebit:      icmsDebit,
		ICMSCredit:     icmsCredit,
		Status:         domain.DocumentClassified,
		AuditFields:    audit,
	}

	items := make([]domain.DocumentItem, len(parsed.items))
	for i, item := range parsed.items {
		amount, merr := domain.NewMoney(item.amount, domain.DefaultCurrency)
		if merr != nil {
			return nil, merr
		}
		items[i] = domain.DocumentItem{
			ItemID:      uuid.NewString(),
			DocumentID:  document.DocumentID,
			Description: item.description,
			Amount:      amount,
		}
	}

	if err := s.documentRepo.SaveDocument(ctx, document, items); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: document with access key %s already imported", apperrors.ErrDuplicate, parsed.accessKey)
		}
		return nil, fmt.Errorf("failed to save imported document: %w", err)
	}

	logger.Info("Fiscal document imported",
		slog.String("document_id", document.DocumentID),
		slog.String("document_type", string(document.DocumentType)),
		slog.String("access_key", document.AccessKey))
	return &document, nil
}

// resolvePartner finds the emitter by CNPJ, creating it on first sight.
func (s *fiscalDocumentService) resolvePartner(ctx context.Context, organizationID string, parsed *parsedDocument, creatorUserID string) (string, error) {
	partner, err := s.orgRepo.FindPartnerByCNPJ(ctx, organizationID, parsed.emitterCNPJ)
	if err == nil {
		return partner.PartnerID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("failed to resolve partner %s: %w", parsed.emitterCNPJ, err)
	}

	now := time.Now().UTC()
	newPartner := domain.BusinessPartner{
		PartnerID:      uuid.NewString(),
		OrganizationID: organizationID,
		Name:           parsed.emitterName,
		CNPJ:           parsed.emitterCNPJ,
		UF:             parsed.emitterUF,
		CityCode:       parsed.emitterCity,
		AuditFields:    domain.AuditFields{CreatedAt: now, CreatedBy: creatorUserID, LastUpdatedAt: now, LastUpdatedBy: creatorUserID},
	}
	if err := s.orgRepo.SavePartner(ctx, newPartner); err != nil {
		return "", fmt.Errorf("failed to create partner %s: %w", parsed.emitterCNPJ, err)
	}
	return newPartner.PartnerID, nil
}

// CreateDocument persists a manually entered fiscal document and its items.
func (s *fiscalDocumentService) CreateDocument(ctx context.Context, organizationID string, req dto.CreateFiscalDocumentRequest, creatorUserID string) (*domain.FiscalDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := domain.NormalizeCFOP(req.CFOP); err != nil {
		return nil, err
	}
	if req.NetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: net amount must be positive", apperrors.ErrValidation)
	}

	netAmount, err := domain.NewMoney(req.NetAmount, domain.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	icmsDebit, err := domain.NewMoney(req.ICMSDebit, domain.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	icmsCredit, err := domain.NewMoney(req.ICMSCredit, domain.DefaultCurrency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: creatorUserID, LastUpdatedAt: now, LastUpdatedBy: creatorUserID}

	document := domain.FiscalDocument{
		DocumentID:     uuid.NewString(),
		OrganizationID: organizationID,
		PartnerID:      req.PartnerID,
		DocumentType:   req.DocumentType,
		Number:         req.Number,
		AccessKey:      req.AccessKey,
		IssueDate:      req.IssueDate,
		CFOP:           req.CFOP,
		NetAmount:      netAmount,
		ICMSDebit:      icmsDebit,
		ICMSCredit:     icmsCredit,
		Status:         domain.DocumentClassified,
		AuditFields:    audit,
	}

	items := make([]domain.DocumentItem, len(req.Items))
	for i, itemReq := range req.Items {
		amount, merr := domain.NewMoney(itemReq.Amount, domain.DefaultCurrency)
		if merr != nil {
			return nil, merr
		}
		items[i] = domain.DocumentItem{
			ItemID:      uuid.NewString(),
			DocumentID:  document.DocumentID,
			Description: itemReq.Description,
			Amount:      amount,
			AccountID:   itemReq.AccountID,
		}
	}

	if err := s.documentRepo.SaveDocument(ctx, document, items); err != nil {
		return nil, fmt.Errorf("failed to save fiscal document: %w", err)
	}

	logger.Info("Fiscal document created",
		slog.String("document_id", document.DocumentID),
		slog.String("document_type", string(document.DocumentType)))
	return &document, nil
}

// ListDocuments retrieves a token-paginated page of fiscal documents.
func (s *fiscalDocumentService) ListDocuments(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.FiscalDocument, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.documentRepo.ListDocuments(ctx, organizationID, limit, nextToken)
}
