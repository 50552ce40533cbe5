package services

import (
	"context"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
)

// TaxCreditSvcFacade exposes the PIS/COFINS credit recovery batch.
type TaxCreditSvcFacade interface {
	// ProcessTaxCredits runs credit recovery over all pending documents of the
	// organization. Per-document failures are collected in the result; only a
	// failure to fetch the pending ids aborts the batch.
	ProcessTaxCredits(ctx context.Context, organizationID, userID string) (*dto.ProcessTaxCreditsResult, error)

	// ListPendingDocuments returns the ids of documents awaiting credit processing.
	ListPendingDocuments(ctx context.Context, organizationID string) ([]string, error)
}
