package repositories

import (
	"context"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
)

// TaxCreditRepositoryFacade is the read/write boundary of the tax credit
// recovery batch. Implementations perform the actual balanced double-entry
// insert against the relational store.
type TaxCreditRepositoryFacade interface {
	// GetPendingDocuments returns the ids of documents that are classified but
	// not yet credit-processed. Documents already linked to a TAX_CREDIT
	// journal entry are excluded by the query itself.
	GetPendingDocuments(ctx context.Context, organizationID string) ([]string, error)

	// GetFiscalDocumentData retrieves the calculation projection of one
	// fiscal document, or apperrors.ErrNotFound.
	GetFiscalDocumentData(ctx context.Context, documentID, organizationID string) (*domain.FiscalDocumentData, error)

	// GetCreditAccounts resolves the fixed PIS/COFINS recovery accounts of the
	// organization.
	GetCreditAccounts(ctx context.Context, organizationID string) (*domain.CreditAccounts, error)

	// RegisterCredit persists the credit as a balanced journal entry debiting
	// the recovery accounts against the merchandise cost account. It returns
	// false with a nil error when the document was already processed by a
	// concurrent run (storage-level uniqueness), so callers treat it as a skip.
	RegisterCredit(ctx context.Context, credit domain.TaxCredit, userID, organizationID string) (bool, error)
}
