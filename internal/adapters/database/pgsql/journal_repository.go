package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/utils/accounting"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/utils/pagination"
)

// PgxJournalRepository implements journal entry persistence on pgx.
type PgxJournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new repository for journal entry data.
func NewJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{pool: pool}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, organization_id, entry_date, description, currency_code, status, source_type,
	fiscal_document_id, reversing_entry_id, original_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := row.Scan(
		&entry.EntryID,
		&entry.OrganizationID,
		&entry.EntryDate,
		&entry.Description,
		&entry.CurrencyCode,
		&entry.Status,
		&entry.SourceType,
		&entry.FiscalDocumentID,
		&entry.ReversingEntryID,
		&entry.OriginalEntryID,
		&entry.CreatedAt,
		&entry.CreatedBy,
		&entry.LastUpdatedAt,
		&entry.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan journal entry: %w", err)
	}
	return &entry, nil
}

// SaveEntry persists a journal entry and its lines within one database
// transaction. The balance invariant is re-checked here so an unbalanced
// entry can never reach the ledger, whatever the caller did.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	if err := accounting.ValidateBalancedLines(lines); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := insertEntryTx(ctx, tx, entry, lines); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit journal entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// insertEntryTx inserts an entry and its lines inside an open transaction.
// Shared with the tax credit repository's RegisterCredit.
func insertEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.OrganizationID,
		entry.EntryDate,
		entry.Description,
		entry.CurrencyCode,
		entry.Status,
		entry.SourceType,
		entry.FiscalDocumentID,
		entry.ReversingEntryID,
		entry.OriginalEntryID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, line_number, account_id, line_type, amount, currency_code, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.EntryID,
			line.LineNumber,
			line.AccountID,
			line.LineType,
			line.Amount,
			line.CurrencyCode,
			line.Notes,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines of entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves a journal entry by its unique identifier.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, organizationID, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE organization_id = $1 AND entry_id = $2;`
	return scanEntry(r.pool.QueryRow(ctx, query, organizationID, entryID))
}

// FindLinesByEntryID retrieves the lines of an entry ordered by line number.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT line_id, entry_id, line_number, account_id, line_type, amount, currency_code, notes,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY line_number;
	`
	rows, err := r.pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines of entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var lines []domain.JournalEntryLine
	for rows.Next() {
		var line domain.JournalEntryLine
		if err := rows.Scan(
			&line.LineID,
			&line.EntryID,
			&line.LineNumber,
			&line.AccountID,
			&line.LineType,
			&line.Amount,
			&line.CurrencyCode,
			&line.Notes,
			&line.CreatedAt,
			&line.CreatedBy,
			&line.LastUpdatedAt,
			&line.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal lines: %w", err)
	}
	return lines, nil
}

// ListEntries retrieves a token-paginated page of journal entries, newest first.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := []interface{}{organizationID, limit + 1}
	query := `SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE organization_id = $1`

	if nextToken != nil {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, created_at) < ($3, $4)`
		args = append(args, entryDate, createdAt)
	}
	query += ` ORDER BY entry_date DESC, created_at DESC LIMIT $2;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entries: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}
	return entries, token, nil
}

// UpdateEntryStatusAndLinks updates the status and reversal linkage of an entry.
func (r *PgxJournalRepository) UpdateEntryStatusAndLinks(ctx context.Context, entryID string, status domain.EntryStatus, reversingEntryID *string, originalEntryID *string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2,
		    reversing_entry_id = COALESCE($3, reversing_entry_id),
		    original_entry_id = COALESCE($4, original_entry_id),
		    last_updated_by = $5,
		    last_updated_at = $6
		WHERE entry_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, entryID, status, reversingEntryID, originalEntryID, updatedByUserID, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update status of entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
