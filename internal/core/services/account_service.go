package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/middleware"
)

// accountService manages the organization's chart of accounts.
type accountService struct {
	accountRepo portsrepo.ChartAccountRepositoryFacade
}

// NewAccountService creates a new chart-of-accounts service.
func NewAccountService(accountRepo portsrepo.ChartAccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a new chart account after checking code uniqueness
// and validating the code shape.
func (s *accountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.ChartAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByCode(ctx, organizationID, req.Code); err == nil {
		return nil, fmt.Errorf("%w: account code %s already in use", apperrors.ErrDuplicate, req.Code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code %s: %w", req.Code, err)
	}

	now := time.Now().UTC()
	account := domain.ChartAccount{
		AccountID:      uuid.NewString(),
		OrganizationID: organizationID,
		Code:           req.Code,
		Name:           req.Name,
		AccountType:    req.AccountType,
		IsAnalytical:   req.IsAnalytical,
		IsActive:       true,
		AuditFields:    domain.AuditFields{CreatedAt: now, CreatedBy: creatorUserID, LastUpdatedAt: now, LastUpdatedBy: creatorUserID},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Chart account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a single chart account.
func (s *accountService) GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.ChartAccount, error) {
	return s.accountRepo.FindAccountByID(ctx, organizationID, accountID)
}

// ListAccounts retrieves all chart accounts of the organization ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, organizationID string) ([]domain.ChartAccount, error) {
	return s.accountRepo.ListAccounts(ctx, organizationID)
}
