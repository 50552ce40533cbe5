package services

import (
	"context"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/dto"
)

// JournalSvcFacade exposes journal entry operations to handlers.
type JournalSvcFacade interface {
	// CreateEntry validates and persists a manual balanced journal entry.
	CreateEntry(ctx context.Context, organizationID string, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// GetEntryWithLines retrieves a journal entry and its ordered lines.
	GetEntryWithLines(ctx context.Context, organizationID, entryID string) (*domain.JournalEntry, []domain.JournalEntryLine, error)

	// GenerateFromDocument builds a balanced journal entry from the classified
	// items of a fiscal document and persists it.
	GenerateFromDocument(ctx context.Context, organizationID, documentID string, req dto.GenerateJournalRequest, creatorUserID string) (*domain.JournalEntry, *domain.GeneratedJournalLines, error)

	// ReverseEntry creates the mirror entry of a POSTED journal entry and
	// marks the original REVERSED.
	ReverseEntry(ctx context.Context, organizationID, entryID, userID string) (*domain.JournalEntry, error)

	// CancelEntry marks a POSTED journal entry CANCELLED.
	CancelEntry(ctx context.Context, organizationID, entryID, userID string) error
}
