package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/middleware"
)

// taxCreditService orchestrates PIS/COFINS credit recovery over all pending
// documents of an organization.
type taxCreditService struct {
	repo       portsrepo.TaxCreditRepositoryFacade
	calculator *TaxCreditCalculator
}

// NewTaxCreditService creates a new tax credit service.
func NewTaxCreditService(repo portsrepo.TaxCreditRepositoryFacade, calculator *TaxCreditCalculator) portssvc.TaxCreditSvcFacade {
	return &taxCreditService{repo: repo, calculator: calculator}
}

var _ portssvc.TaxCreditSvcFacade = (*taxCreditService)(nil)

// ProcessTaxCredits runs the credit recovery batch. Documents are processed
// sequentially: each registration is its own atomic unit, so one bad document
// never blocks recovery for the rest. Ineligible and zero-credit documents
// are skipped; genuine failures are recorded per document and the loop
// continues.
func (s *taxCreditService) ProcessTaxCredits(ctx context.Context, organizationID, userID string) (*dto.ProcessTaxCreditsResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("organization_id", organizationID))

	documentIDs, err := s.repo.GetPendingDocuments(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending documents: %w", err)
	}

	result := &dto.ProcessTaxCreditsResult{
		TotalCredit: decimal.Zero,
		Errors:      []string{},
	}

	for _, documentID := range documentIDs {
		if err := s.processDocument(ctx, documentID, organizationID, userID, result, logger); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("document %s: %v", documentID, err))
		}
	}

	logger.Info("Tax credit batch finished",
		slog.Int("pending", len(documentIDs)),
		slog.Int("processed", result.Processed),
		slog.String("total_credit", result.TotalCredit.StringFixed(2)),
		slog.Int("errors", len(result.Errors)))
	return result, nil
}

// processDocument handles a single pending document. Skips (ineligibility,
// zero credit, already processed by a concurrent run) return nil.
func (s *taxCreditService) processDocument(ctx context.Context, documentID, organizationID, userID string, result *dto.ProcessTaxCreditsResult, logger *slog.Logger) error {
	doc, err := s.repo.GetFiscalDocumentData(ctx, documentID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to load document data: %w", err)
	}

	credit, err := s.calculator.Calculate(*doc)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotEligible) {
			logger.Debug("Document not eligible for credit", slog.String("document_id", documentID), slog.String("reason", err.Error()))
			return nil
		}
		return err
	}

	hasCredit, err := credit.HasCredit()
	if err != nil {
		return err
	}
	if !hasCredit {
		logger.Debug("Document produced zero credit", slog.String("document_id", documentID))
		return nil
	}

	registered, err := s.repo.RegisterCredit(ctx, *credit, userID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to register credit: %w", err)
	}
	if !registered {
		// A concurrent batch run got there first; the storage-level
		// uniqueness makes this a skip, not an error.
		logger.Info("Document already credit-processed, skipping", slog.String("document_id", documentID))
		return nil
	}

	total, err := credit.Total()
	if err != nil {
		return err
	}
	result.Processed++
	result.TotalCredit = result.TotalCredit.Add(total.Amount())
	logger.Info("Credit registered",
		slog.String("document_id", documentID),
		slog.String("pis", credit.PISCredit.Amount().StringFixed(2)),
		slog.String("cofins", credit.COFINSCredit.Amount().StringFixed(2)))
	return nil
}

// ListPendingDocuments returns the ids of documents awaiting credit processing.
func (s *taxCreditService) ListPendingDocuments(ctx context.Context, organizationID string) ([]string, error) {
	return s.repo.GetPendingDocuments(ctx, organizationID)
}
