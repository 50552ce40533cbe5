package services

import (
	"context"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
)

// AccountSvcFacade exposes chart-of-accounts operations to handlers.
type AccountSvcFacade interface {
	// CreateAccount creates a new chart account for the organization.
	CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.ChartAccount, error)

	// GetAccountByID retrieves a single chart account.
	GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.ChartAccount, error)

	// ListAccounts retrieves all chart accounts of the organization ordered by code.
	ListAccounts(ctx context.Context, organizationID string) ([]domain.ChartAccount, error)
}
