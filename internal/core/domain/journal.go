package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Posted    EntryStatus = "POSTED"
	Reversed  EntryStatus = "REVERSED"
	Cancelled EntryStatus = "CANCELLED"
)

// EntrySource identifies what produced a journal entry.
type EntrySource string

const (
	SourceManual    EntrySource = "MANUAL"
	SourceTaxCredit EntrySource = "TAX_CREDIT"
	SourceDocument  EntrySource = "DOCUMENT"
)

// LineType indicates whether a journal line is a Debit or a Credit.
type LineType string

const (
	Debit  LineType = "DEBIT"
	Credit LineType = "CREDIT"
)

// JournalEntry represents a single, balanced financial event composed of
// multiple journal lines.
type JournalEntry struct {
	EntryID          string      `json:"entryID"` // Primary Key (UUID)
	OrganizationID   string      `json:"organizationID"`
	EntryDate        time.Time   `json:"entryDate"`
	Description      string      `json:"description"`
	CurrencyCode     string      `json:"currencyCode"`
	Status           EntryStatus `json:"status"` // Default: POSTED
	SourceType       EntrySource `json:"sourceType"`
	FiscalDocumentID *string     `json:"fiscalDocumentID"` // set for TAX_CREDIT/DOCUMENT entries
	ReversingEntryID *string     `json:"reversingEntryID"` // entry that reversed this one
	OriginalEntryID  *string     `json:"originalEntryID"`  // entry this one reverses
	AuditFields
}

// CanReverse is a pure guard: only a POSTED entry may be reversed, once.
func (e JournalEntry) CanReverse() error {
	switch e.Status {
	case Posted:
		return nil
	case Reversed:
		return fmt.Errorf("journal entry %s is already reversed", e.EntryID)
	case Cancelled:
		return fmt.Errorf("journal entry %s is cancelled and cannot be reversed", e.EntryID)
	default:
		return fmt.Errorf("journal entry %s has unknown status %q", e.EntryID, e.Status)
	}
}

// CanCancel is a pure guard: only a POSTED entry may be cancelled.
func (e JournalEntry) CanCancel() error {
	switch e.Status {
	case Posted:
		return nil
	case Reversed:
		return fmt.Errorf("journal entry %s is reversed and cannot be cancelled", e.EntryID)
	case Cancelled:
		return fmt.Errorf("journal entry %s is already cancelled", e.EntryID)
	default:
		return fmt.Errorf("journal entry %s has unknown status %q", e.EntryID, e.Status)
	}
}

// JournalEntryLine is a single debit or credit line within a journal entry.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"` // Primary Key (UUID)
	EntryID      string          `json:"entryID"`
	LineNumber   int             `json:"lineNumber"` // 1-based, sequential within the entry
	AccountID    string          `json:"accountID"`
	LineType     LineType        `json:"lineType"`
	Amount       decimal.Decimal `json:"amount"` // positive value
	CurrencyCode string          `json:"currencyCode"`
	Notes        string          `json:"notes"`
	AuditFields
}

// GeneratedJournalLines is the transient output of the journal generator:
// ordered lines plus the computed side totals.
type GeneratedJournalLines struct {
	Lines       []JournalEntryLine `json:"lines"`
	TotalDebit  decimal.Decimal    `json:"totalDebit"`
	TotalCredit decimal.Decimal    `json:"totalCredit"`
}
