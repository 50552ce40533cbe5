package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/utils/accounting"
)

// Fixed recovery account names, looked up in each organization's chart of
// accounts at batch time. Every organization is expected to carry analytical
// accounts under these names.
const (
	pisRecoveryAccountName     = "PIS a Recuperar"
	cofinsRecoveryAccountName  = "COFINS a Recuperar"
	merchandiseCostAccountName = "Custo da Mercadoria"
)

// PgxTaxCreditRepository implements the tax credit batch boundary on pgx.
type PgxTaxCreditRepository struct {
	pool *pgxpool.Pool
}

// NewTaxCreditRepository creates a new repository for the tax credit batch.
func NewTaxCreditRepository(pool *pgxpool.Pool) portsrepo.TaxCreditRepositoryFacade {
	return &PgxTaxCreditRepository{pool: pool}
}

var _ portsrepo.TaxCreditRepositoryFacade = (*PgxTaxCreditRepository)(nil)

// GetPendingDocuments returns classified documents with no TAX_CREDIT entry
// yet. The exclusion lives in the query so a document processed by a previous
// run never reappears, regardless of in-memory state.
func (r *PgxTaxCreditRepository) GetPendingDocuments(ctx context.Context, organizationID string) ([]string, error) {
	query := `
		SELECT d.document_id
		FROM fiscal_documents d
		WHERE d.organization_id = $1
		  AND d.status = 'CLASSIFIED'
		  AND NOT EXISTS (
			SELECT 1 FROM journal_entries e
			WHERE e.organization_id = d.organization_id
			  AND e.fiscal_document_id = d.document_id
			  AND e.source_type = 'TAX_CREDIT'
		  )
		ORDER BY d.issue_date, d.created_at;
	`
	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan pending document id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending documents: %w", err)
	}
	return ids, nil
}

// GetFiscalDocumentData retrieves the calculation projection of one document.
func (r *PgxTaxCreditRepository) GetFiscalDocumentData(ctx context.Context, documentID, organizationID string) (*domain.FiscalDocumentData, error) {
	query := `
		SELECT document_id, document_type, cfop, net_amount, currency_code
		FROM fiscal_documents
		WHERE organization_id = $1 AND document_id = $2;
	`
	var (
		data     domain.FiscalDocumentData
		amount   string
		currency string
	)
	err := r.pool.QueryRow(ctx, query, organizationID, documentID).Scan(
		&data.DocumentID,
		&data.DocumentType,
		&data.CFOP,
		&amount,
		&currency,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load document %s: %w", documentID, err)
	}
	net, err := domain.NewMoneyFromString(amount, currency)
	if err != nil {
		return nil, fmt.Errorf("document %s has invalid net amount: %w", documentID, err)
	}
	data.NetAmount = net
	return &data, nil
}

// GetCreditAccounts resolves the organization's PIS and COFINS recovery
// accounts by their fixed names.
func (r *PgxTaxCreditRepository) GetCreditAccounts(ctx context.Context, organizationID string) (*domain.CreditAccounts, error) {
	pis, err := r.findAccountByName(ctx, organizationID, pisRecoveryAccountName)
	if err != nil {
		return nil, err
	}
	cofins, err := r.findAccountByName(ctx, organizationID, cofinsRecoveryAccountName)
	if err != nil {
		return nil, err
	}
	return &domain.CreditAccounts{PISAccount: *pis, COFINSAccount: *cofins}, nil
}

func (r *PgxTaxCreditRepository) findAccountByName(ctx context.Context, organizationID, name string) (*domain.ChartAccount, error) {
	query := `SELECT ` + accountColumns + `
		FROM chart_accounts
		WHERE organization_id = $1 AND name = $2 AND is_analytical = TRUE AND is_active = TRUE;`
	account, err := scanAccount(r.pool.QueryRow(ctx, query, organizationID, name))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: analytical account %q", apperrors.ErrNotFound, name)
		}
		return nil, err
	}
	return account, nil
}

// RegisterCredit persists a calculated credit as a balanced journal entry:
// debit PIS recovery, debit COFINS recovery, credit merchandise cost.
// Concurrency is settled by the partial unique index on
// (organization_id, fiscal_document_id) for TAX_CREDIT entries; a unique
// violation means another run already registered this document, reported as
// (false, nil) so the batch counts it as a skip, not a failure.
func (r *PgxTaxCreditRepository) RegisterCredit(ctx context.Context, credit domain.TaxCredit, userID, organizationID string) (bool, error) {
	accounts, err := r.GetCreditAccounts(ctx, organizationID)
	if err != nil {
		return false, err
	}
	costAccount, err := r.findAccountByName(ctx, organizationID, merchandiseCostAccountName)
	if err != nil {
		return false, err
	}

	entry, lines, err := buildCreditEntry(credit, accounts, costAccount, userID, organizationID)
	if err != nil {
		return false, err
	}
	if err := accounting.ValidateBalancedLines(lines); err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := insertEntryTx(ctx, tx, *entry, lines); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return false, nil
		}
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit credit entry for document %s: %w", credit.FiscalDocumentID, err)
	}
	return true, nil
}

// buildCreditEntry assembles the entry and its three lines in memory.
func buildCreditEntry(credit domain.TaxCredit, accounts *domain.CreditAccounts, costAccount *domain.ChartAccount, userID, organizationID string) (*domain.JournalEntry, []domain.JournalEntryLine, error) {
	total, err := credit.Total()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrCurrencyMismatch, err)
	}

	now := time.Now().UTC()
	documentID := credit.FiscalDocumentID
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	entry := &domain.JournalEntry{
		EntryID:          uuid.NewString(),
		OrganizationID:   organizationID,
		EntryDate:        now,
		Description:      fmt.Sprintf("%s - doc %s", credit.AccountName, documentID),
		CurrencyCode:     total.Currency(),
		Status:           domain.Posted,
		SourceType:       domain.SourceTaxCredit,
		FiscalDocumentID: &documentID,
		AuditFields:      audit,
	}

	lines := []domain.JournalEntryLine{
		{
			LineID:       uuid.NewString(),
			EntryID:      entry.EntryID,
			LineNumber:   1,
			AccountID:    accounts.PISAccount.AccountID,
			LineType:     domain.Debit,
			Amount:       credit.PISCredit.Amount(),
			CurrencyCode: credit.PISCredit.Currency(),
			Notes:        "Crédito PIS",
			AuditFields:  audit,
		},
		{
			LineID:       uuid.NewString(),
			EntryID:      entry.EntryID,
			LineNumber:   2,
			AccountID:    accounts.COFINSAccount.AccountID,
			LineType:     domain.Debit,
			Amount:       credit.COFINSCredit.Amount(),
			CurrencyCode: credit.COFINSCredit.Currency(),
			Notes:        "Crédito COFINS",
			AuditFields:  audit,
		},
		{
			LineID:       uuid.NewString(),
			EntryID:      entry.EntryID,
			LineNumber:   3,
			AccountID:    costAccount.AccountID,
			LineType:     domain.Credit,
			Amount:       total.Amount(),
			CurrencyCode: total.Currency(),
			Notes:        "Recuperação de custo",
			AuditFields:  audit,
		},
	}
	return entry, lines, nil
}
