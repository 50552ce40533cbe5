package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/utils/pagination"
)

// PgxFiscalDocumentRepository implements fiscal document persistence on pgx.
type PgxFiscalDocumentRepository struct {
	pool *pgxpool.Pool
}

// NewFiscalDocumentRepository creates a new repository for fiscal document data.
func NewFiscalDocumentRepository(pool *pgxpool.Pool) portsrepo.FiscalDocumentRepositoryFacade {
	return &PgxFiscalDocumentRepository{pool: pool}
}

var _ portsrepo.FiscalDocumentRepositoryFacade = (*PgxFiscalDocumentRepository)(nil)

const documentColumns = `document_id, organization_id, partner_id, document_type, number, access_key, issue_date, cfop,
	net_amount, currency_code, icms_debit, icms_credit, status, created_at, created_by, last_updated_at, last_updated_by`

func scanDocument(row pgx.Row) (*domain.FiscalDocument, error) {
	var doc domain.FiscalDocument
	var netAmount, icmsDebit, icmsCredit decimal.Decimal
	var currencyCode string
	err := row.Scan(
		&doc.DocumentID,
		&doc.OrganizationID,
		&doc.PartnerID,
		&doc.DocumentType,
		&doc.Number,
		&doc.AccessKey,
		&doc.IssueDate,
		&doc.CFOP,
		&netAmount,
		&currencyCode,
		&icmsDebit,
		&icmsCredit,
		&doc.Status,
		&doc.CreatedAt,
		&doc.CreatedBy,
		&doc.LastUpdatedAt,
		&doc.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan fiscal document: %w", err)
	}

	if doc.NetAmount, err = domain.NewMoney(netAmount, currencyCode); err != nil {
		return nil, err
	}
	if doc.ICMSDebit, err = domain.NewMoney(icmsDebit, currencyCode); err != nil {
		return nil, err
	}
	if doc.ICMSCredit, err = domain.NewMoney(icmsCredit, currencyCode); err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindDocumentByID retrieves a fiscal document by its unique identifier.
func (r *PgxFiscalDocumentRepository) FindDocumentByID(ctx context.Context, organizationID, documentID string) (*domain.FiscalDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM fiscal_documents WHERE organization_id = $1 AND document_id = $2;`
	return scanDocument(r.pool.QueryRow(ctx, query, organizationID, documentID))
}

// FindItemsByDocumentID retrieves the items of a document in insertion order.
func (r *PgxFiscalDocumentRepository) FindItemsByDocumentID(ctx context.Context, documentID string) ([]domain.DocumentItem, error) {
	query := `
		SELECT item_id, document_id, description, amount, currency_code, COALESCE(account_id, '')
		FROM fiscal_document_items
		WHERE document_id = $1
		ORDER BY item_order;
	`
	rows, err := r.pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items of document %s: %w", documentID, err)
	}
	defer rows.Close()

	var items []domain.DocumentItem
	for rows.Next() {
		var item domain.DocumentItem
		var amount decimal.Decimal
		var currencyCode string
		if err := rows.Scan(&item.ItemID, &item.DocumentID, &item.Description, &amount, &currencyCode, &item.AccountID); err != nil {
			return nil, fmt.Errorf("failed to scan document item: %w", err)
		}
		if item.Amount, err = domain.NewMoney(amount, currencyCode); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document items: %w", err)
	}
	return items, nil
}

// ListDocumentsByPeriod retrieves all documents issued within [from, to].
func (r *PgxFiscalDocumentRepository) ListDocumentsByPeriod(ctx context.Context, organizationID string, from, to time.Time) ([]domain.FiscalDocument, error) {
	query := `SELECT ` + documentColumns + `
		FROM fiscal_documents
		WHERE organization_id = $1 AND issue_date BETWEEN $2 AND $3
		ORDER BY issue_date, document_id;`
	rows, err := r.pool.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents for period: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListDocuments retrieves a token-paginated page of fiscal documents,
// newest first, using (issue_date, created_at) keyset pagination.
func (r *PgxFiscalDocumentRepository) ListDocuments(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.FiscalDocument, *string, error) {
	args := []interface{}{organizationID, limit + 1}
	query := `SELECT ` + documentColumns + `
		FROM fiscal_documents
		WHERE organization_id = $1`

	if nextToken != nil {
		issueDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (issue_date, created_at) < ($3, $4)`
		args = append(args, issueDate, createdAt)
	}
	query += ` ORDER BY issue_date DESC, created_at DESC LIMIT $2;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list fiscal documents: %w", err)
	}
	defer rows.Close()

	docs, err := collectDocuments(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		t := pagination.EncodeToken(last.IssueDate, last.CreatedAt)
		token = &t
	}
	return docs, token, nil
}

func collectDocuments(rows pgx.Rows) ([]domain.FiscalDocument, error) {
	var docs []domain.FiscalDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fiscal documents: %w", err)
	}
	return docs, nil
}

// SaveDocument persists a fiscal document and its items in one transaction.
func (r *PgxFiscalDocumentRepository) SaveDocument(ctx context.Context, document domain.FiscalDocument, items []domain.DocumentItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	docQuery := `
		INSERT INTO fiscal_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, docQuery,
		document.DocumentID,
		document.OrganizationID,
		document.PartnerID,
		document.DocumentType,
		document.Number,
		document.AccessKey,
		document.IssueDate,
		document.CFOP,
		document.NetAmount.Amount(),
		document.NetAmount.Currency(),
		document.ICMSDebit.Amount(),
		document.ICMSCredit.Amount(),
		document.Status,
		document.CreatedAt,
		document.CreatedBy,
		document.LastUpdatedAt,
		document.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("%w: fiscal document %s", apperrors.ErrDuplicate, document.AccessKey)
		}
		return fmt.Errorf("failed to insert fiscal document %s: %w", document.DocumentID, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO fiscal_document_items (item_id, document_id, item_order, description, amount, currency_code, account_id)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''));
	`
	for i, item := range items {
		batch.Queue(itemQuery,
			item.ItemID,
			item.DocumentID,
			i+1,
			item.Description,
			item.Amount.Amount(),
			item.Amount.Currency(),
			item.AccountID,
		)
	}
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to insert items of document %s: %w", document.DocumentID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit document %s: %w", document.DocumentID, err)
	}
	return nil
}
