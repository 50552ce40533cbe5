package repositories

import (
	"context"
	"time"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
)

// JournalReader defines read operations for journal entry data.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry by its unique identifier.
	FindEntryByID(ctx context.Context, organizationID, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves the lines of a journal entry ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// ListEntries retrieves a token-paginated list of journal entries for an
	// organization. It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entry data.
type JournalWriter interface {
	// SaveEntry persists a journal entry and its lines within one database
	// transaction. Lines must already balance; implementations re-check.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// UpdateEntryStatusAndLinks updates the status and reversal linkage
	// (original/reversing IDs) of a journal entry.
	UpdateEntryStatusAndLinks(ctx context.Context, entryID string, status domain.EntryStatus, reversingEntryID *string, originalEntryID *string, updatedByUserID string, updatedAt time.Time) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
