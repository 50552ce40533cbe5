package repositories

import (
	"context"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
)

// AccountValidator is the narrow read surface the journal generator needs:
// resolve one account and, when a synthetic account is misused, list the
// analytical accounts beneath it for the error message.
type AccountValidator interface {
	// FindAccountByID retrieves a chart account by its unique identifier.
	FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.ChartAccount, error)

	// ListAnalyticalChildren retrieves the analytical (leaf) accounts whose code
	// sits under the given hierarchical code prefix.
	ListAnalyticalChildren(ctx context.Context, organizationID, codePrefix string) ([]domain.ChartAccount, error)
}

// ChartAccountReader defines read operations for chart-of-accounts data.
type ChartAccountReader interface {
	AccountValidator

	// FindAccountByCode retrieves a chart account by its hierarchical code.
	FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.ChartAccount, error)

	// ListAccounts retrieves all chart accounts of an organization ordered by code.
	ListAccounts(ctx context.Context, organizationID string) ([]domain.ChartAccount, error)
}

// ChartAccountWriter defines write operations for chart-of-accounts data.
type ChartAccountWriter interface {
	// SaveAccount persists a new chart account.
	SaveAccount(ctx context.Context, account domain.ChartAccount) error
}

// ChartAccountRepositoryFacade combines all chart-account repository interfaces.
type ChartAccountRepositoryFacade interface {
	ChartAccountReader
	ChartAccountWriter
}
