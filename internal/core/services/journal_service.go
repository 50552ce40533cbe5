package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/middleware"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/utils/accounting"
)

var (
	ErrEntryUnbalanced    = errors.New("journal entry does not balance")
	ErrEntryMinLines      = errors.New("journal entry must have at least two lines")
	ErrEntryMinAccounts   = errors.New("journal entry must affect at least two different accounts")
	ErrAccountNotFound    = errors.New("account not found")
	ErrSyntheticAccount   = errors.New("cannot post to a synthetic account")
	ErrDescriptionMissing = errors.New("journal entry description is required")
	ErrNoPostableItems    = errors.New("document has no items with an assigned account")
)

// journalService builds, persists and transitions journal entries.
type journalService struct {
	accountRepo  portsrepo.ChartAccountReader
	journalRepo  portsrepo.JournalRepositoryFacade
	documentRepo portsrepo.FiscalDocumentReader
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.ChartAccountReader, documentRepo portsrepo.FiscalDocumentReader) portssvc.JournalSvcFacade {
	return &journalService{
		accountRepo:  accountRepo,
		journalRepo:  journalRepo,
		documentRepo: documentRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validatePostable resolves the account and rejects synthetic (non-leaf)
// targets, listing the analytical accounts under the same code so the caller
// can correct the posting. Rollup accounts never receive direct postings.
func (s *journalService) validatePostable(ctx context.Context, organizationID, accountID string) (*domain.ChartAccount, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, organizationID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to validate account %s: %w", accountID, err)
	}

	if !account.IsAnalytical {
		suggestions := s.analyticalSuggestions(ctx, organizationID, account.Code)
		if suggestions == "" {
			return nil, fmt.Errorf("%w: account %s (%s) is synthetic and has no analytical children",
				ErrSyntheticAccount, account.Code, account.Name)
		}
		return nil, fmt.Errorf("%w: account %s (%s) is synthetic; use one of the analytical accounts: %s",
			ErrSyntheticAccount, account.Code, account.Name, suggestions)
	}
	return account, nil
}

// analyticalSuggestions formats the analytical children of a synthetic code
// for error messages. A lookup failure just degrades the message.
func (s *journalService) analyticalSuggestions(ctx context.Context, organizationID, code string) string {
	children, err := s.accountRepo.ListAnalyticalChildren(ctx, organizationID, code)
	if err != nil || len(children) == 0 {
		return ""
	}
	codes := make([]string, len(children))
	for i, child := range children {
		codes[i] = fmt.Sprintf("%s (%s)", child.Code, child.Name)
	}
	return strings.Join(codes, ", ")
}

// generateLines produces a balanced line set from classified document items
// and one counterpart account. Items without an assigned account are skipped.
func (s *journalService) generateLines(ctx context.Context, organizationID string, items []domain.DocumentItem, counterpartAccountID string, totalAmount domain.Money, userID string, now time.Time) (*domain.GeneratedJournalLines, error) {
	lines := make([]domain.JournalEntryLine, 0, len(items)+1)
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}

	lineNumber := 0
	for _, item := range items {
		if item.AccountID == "" {
			continue
		}
		if item.Amount.Currency() != totalAmount.Currency() {
			return nil, fmt.Errorf("%w: item %q is %s but the entry is %s",
				apperrors.ErrCurrencyMismatch, item.Description, item.Amount.Currency(), totalAmount.Currency())
		}
		if _, err := s.validatePostable(ctx, organizationID, item.AccountID); err != nil {
			return nil, err
		}
		lineNumber++
		lines = append(lines, domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			LineNumber:   lineNumber,
			AccountID:    item.AccountID,
			LineType:     domain.Debit,
			Amount:       item.Amount.Amount(),
			CurrencyCode: item.Amount.Currency(),
			Notes:        item.Description,
			AuditFields:  audit,
		})
	}

	if len(lines) == 0 {
		return nil, ErrNoPostableItems
	}

	if _, err := s.validatePostable(ctx, organizationID, counterpartAccountID); err != nil {
		return nil, err
	}
	lineNumber++
	lines = append(lines, domain.JournalEntryLine{
		LineID:       uuid.NewString(),
		LineNumber:   lineNumber,
		AccountID:    counterpartAccountID,
		LineType:     domain.Credit,
		Amount:       totalAmount.Amount(),
		CurrencyCode: totalAmount.Currency(),
		AuditFields:  audit,
	})

	if err := accounting.ValidateBalancedLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryUnbalanced, err)
	}

	totalDebit, totalCredit := accounting.SumLinesByType(lines)
	return &domain.GeneratedJournalLines{
		Lines:       lines,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}

// GenerateFromDocument builds and persists a balanced journal entry from the
// classified items of a fiscal document.
func (s *journalService) GenerateFromDocument(ctx context.Context, organizationID, documentID string, req dto.GenerateJournalRequest, creatorUserID string) (*domain.JournalEntry, *domain.GeneratedJournalLines, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	document, err := s.documentRepo.FindDocumentByID(ctx, organizationID, documentID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.documentRepo.FindItemsByDocumentID(ctx, documentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load items of document %s: %w", documentID, err)
	}

	currency := document.NetAmount.Currency()
	totalAmount, err := domain.NewMoney(req.TotalAmount, currency)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	generated, err := s.generateLines(ctx, organizationID, items, req.CounterpartAccountID, totalAmount, creatorUserID, now)
	if err != nil {
		return nil, nil, err
	}

	entry := domain.JournalEntry{
		EntryID:          uuid.NewString(),
		OrganizationID:   organizationID,
		EntryDate:        document.IssueDate,
		Description:      req.Description,
		CurrencyCode:     currency,
		Status:           domain.Posted,
		SourceType:       domain.SourceDocument,
		FiscalDocumentID: &document.DocumentID,
		AuditFields:      domain.AuditFields{CreatedAt: now, CreatedBy: creatorUserID, LastUpdatedAt: now, LastUpdatedBy: creatorUserID},
	}
	for i := range generated.Lines {
		generated.Lines[i].EntryID = entry.EntryID
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, generated.Lines); err != nil {
		return nil, nil, fmt.Errorf("failed to save generated journal entry: %w", err)
	}

	logger.Info("Journal entry generated from document",
		slog.String("entry_id", entry.EntryID),
		slog.String("document_id", documentID),
		slog.Int("lines", len(generated.Lines)))
	return &entry, generated, nil
}

// CreateEntry validates and persists a manual balanced journal entry.
func (s *journalService) CreateEntry(ctx context.Context, organizationID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) < 2 {
		return nil, ErrEntryMinLines
	}
	if req.Description == "" {
		return nil, ErrDescriptionMissing
	}

	accountSet := make(map[string]bool)
	for _, line := range req.Lines {
		accountSet[line.AccountID] = true
	}
	if len(accountSet) < 2 {
		return nil, ErrEntryMinAccounts
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:        uuid.NewString(),
		OrganizationID: organizationID,
		EntryDate:      req.EntryDate,
		Description:    req.Description,
		CurrencyCode:   req.CurrencyCode,
		Status:         domain.Posted,
		SourceType:     domain.SourceManual,
		AuditFields:    domain.AuditFields{CreatedAt: now, CreatedBy: creatorUserID, LastUpdatedAt: now, LastUpdatedBy: creatorUserID},
	}

	lines := make([]domain.JournalEntryLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		if lineReq.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: line amount must be positive for account %s", apperrors.ErrValidation, lineReq.AccountID)
		}
		if _, err := s.validatePostable(ctx, organizationID, lineReq.AccountID); err != nil {
			return nil, err
		}
		lines[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entry.EntryID,
			LineNumber:   i + 1,
			AccountID:    lineReq.AccountID,
			LineType:     lineReq.LineType,
			Amount:       lineReq.Amount,
			CurrencyCode: req.CurrencyCode,
			Notes:        lineReq.Notes,
			AuditFields:  entry.AuditFields,
		}
	}

	if err := accounting.ValidateBalancedLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryUnbalanced, err)
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, lines); err != nil {
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.Int("lines", len(lines)))
	return &entry, nil
}

// GetEntryWithLines retrieves a journal entry and its ordered lines.
func (s *journalService) GetEntryWithLines(ctx context.Context, organizationID, entryID string) (*domain.JournalEntry, []domain.JournalEntryLine, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, organizationID, entryID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load lines of entry %s: %w", entryID, err)
	}
	return entry, lines, nil
}

// ReverseEntry creates the mirror entry of a POSTED journal entry and marks
// the original REVERSED. Only POSTED entries can be reversed, once.
func (s *journalService) ReverseEntry(ctx context.Context, organizationID, entryID, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindEntryByID(ctx, organizationID, entryID)
	if err != nil {
		return nil, err
	}
	if err := original.CanReverse(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines of entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	reversal := domain.JournalEntry{
		EntryID:          uuid.NewString(),
		OrganizationID:   organizationID,
		EntryDate:        now,
		Description:      fmt.Sprintf("Reversal of: %s", original.Description),
		CurrencyCode:     original.CurrencyCode,
		Status:           domain.Posted,
		SourceType:       original.SourceType,
		FiscalDocumentID: original.FiscalDocumentID,
		OriginalEntryID:  &original.EntryID,
		AuditFields:      audit,
	}

	reversalLines := make([]domain.JournalEntryLine, len(lines))
	for i, line := range lines {
		flipped := domain.Credit
		if line.LineType == domain.Credit {
			flipped = domain.Debit
		}
		reversalLines[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      reversal.EntryID,
			LineNumber:   i + 1,
			AccountID:    line.AccountID,
			LineType:     flipped,
			Amount:       line.Amount,
			CurrencyCode: line.CurrencyCode,
			Notes:        line.Notes,
			AuditFields:  audit,
		}
	}

	if err := s.journalRepo.SaveEntry(ctx, reversal, reversalLines); err != nil {
		return nil, fmt.Errorf("failed to save reversal entry: %w", err)
	}
	if err := s.journalRepo.UpdateEntryStatusAndLinks(ctx, original.EntryID, domain.Reversed, &reversal.EntryID, nil, userID, now); err != nil {
		return nil, fmt.Errorf("failed to mark entry %s reversed: %w", original.EntryID, err)
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", original.EntryID),
		slog.String("reversal_entry_id", reversal.EntryID))
	return &reversal, nil
}

// CancelEntry marks a POSTED journal entry CANCELLED.
func (s *journalService) CancelEntry(ctx context.Context, organizationID, entryID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, organizationID, entryID)
	if err != nil {
		return err
	}
	if err := entry.CanCancel(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateEntryStatusAndLinks(ctx, entry.EntryID, domain.Cancelled, nil, nil, userID, now); err != nil {
		return fmt.Errorf("failed to cancel entry %s: %w", entry.EntryID, err)
	}

	logger.Info("Journal entry cancelled", slog.String("entry_id", entry.EntryID))
	return nil
}
