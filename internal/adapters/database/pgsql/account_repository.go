package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
)

const uniqueViolationCode = "23505"

// PgxAccountRepository implements chart-of-accounts persistence on pgx.
type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new repository for chart account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.ChartAccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.ChartAccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, organization_id, code, name, account_type, is_analytical, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (*domain.ChartAccount, error) {
	var account domain.ChartAccount
	err := row.Scan(
		&account.AccountID,
		&account.OrganizationID,
		&account.Code,
		&account.Name,
		&account.AccountType,
		&account.IsAnalytical,
		&account.IsActive,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan chart account: %w", err)
	}
	return &account, nil
}

// FindAccountByID retrieves a chart account by its unique identifier.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, organizationID, accountID string) (*domain.ChartAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM chart_accounts WHERE organization_id = $1 AND account_id = $2;`
	return scanAccount(r.pool.QueryRow(ctx, query, organizationID, accountID))
}

// FindAccountByCode retrieves a chart account by its hierarchical code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.ChartAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM chart_accounts WHERE organization_id = $1 AND code = $2;`
	return scanAccount(r.pool.QueryRow(ctx, query, organizationID, code))
}

// ListAccounts retrieves all chart accounts of an organization ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, organizationID string) ([]domain.ChartAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM chart_accounts WHERE organization_id = $1 ORDER BY code;`
	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chart accounts: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// ListAnalyticalChildren retrieves the analytical accounts under a code prefix.
func (r *PgxAccountRepository) ListAnalyticalChildren(ctx context.Context, organizationID, codePrefix string) ([]domain.ChartAccount, error) {
	query := `SELECT ` + accountColumns + `
		FROM chart_accounts
		WHERE organization_id = $1 AND is_analytical = TRUE AND is_active = TRUE AND code LIKE $2
		ORDER BY code;`
	rows, err := r.pool.Query(ctx, query, organizationID, codePrefix+".%")
	if err != nil {
		return nil, fmt.Errorf("failed to list analytical children of %s: %w", codePrefix, err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func collectAccounts(rows pgx.Rows) ([]domain.ChartAccount, error) {
	var accounts []domain.ChartAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chart accounts: %w", err)
	}
	return accounts, nil
}

// SaveAccount persists a new chart account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.ChartAccount) error {
	query := `
		INSERT INTO chart_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.OrganizationID,
		account.Code,
		account.Name,
		account.AccountType,
		account.IsAnalytical,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
		return fmt.Errorf("failed to insert chart account %s: %w", account.AccountID, err)
	}
	return nil
}
