package dto

import (
	"time"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one debit/credit line of a manual journal entry.
type CreateJournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	LineType  domain.LineType `json:"lineType" binding:"required,oneof=DEBIT CREDIT"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Notes     string          `json:"notes"`
}

// CreateJournalEntryRequest defines the payload for creating a manual journal entry.
type CreateJournalEntryRequest struct {
	EntryDate    time.Time                  `json:"entryDate" binding:"required"`
	Description  string                     `json:"description" binding:"required"`
	CurrencyCode string                     `json:"currencyCode" binding:"required,len=3"`
	Lines        []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// GenerateJournalRequest defines the payload for generating a journal entry
// from the classified items of a fiscal document.
type GenerateJournalRequest struct {
	CounterpartAccountID string          `json:"counterpartAccountID" binding:"required"`
	TotalAmount          decimal.Decimal `json:"totalAmount" binding:"required"`
	Description          string          `json:"description" binding:"required"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID     string          `json:"lineID"`
	LineNumber int             `json:"lineNumber"`
	AccountID  string          `json:"accountID"`
	LineType   domain.LineType `json:"lineType"`
	Amount     decimal.Decimal `json:"amount"`
	Notes      string          `json:"notes,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID          string                `json:"entryID"`
	EntryDate        time.Time             `json:"entryDate"`
	Description      string                `json:"description"`
	CurrencyCode     string                `json:"currencyCode"`
	Status           domain.EntryStatus    `json:"status"`
	SourceType       domain.EntrySource    `json:"sourceType"`
	FiscalDocumentID *string               `json:"fiscalDocumentID,omitempty"`
	ReversingEntryID *string               `json:"reversingEntryID,omitempty"`
	OriginalEntryID  *string               `json:"originalEntryID,omitempty"`
	Lines            []JournalLineResponse `json:"lines,omitempty"`
	TotalDebit       decimal.Decimal       `json:"totalDebit"`
	TotalCredit      decimal.Decimal       `json:"totalCredit"`
}

// ToJournalLineResponse converts a domain.JournalEntryLine to its DTO.
func ToJournalLineResponse(line *domain.JournalEntryLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:     line.LineID,
		LineNumber: line.LineNumber,
		AccountID:  line.AccountID,
		LineType:   line.LineType,
		Amount:     line.Amount,
		Notes:      line.Notes,
	}
}

// ToJournalEntryResponse converts a journal entry and its lines to a response,
// computing the side totals from the lines.
func ToJournalEntryResponse(entry *domain.JournalEntry, lines []domain.JournalEntryLine) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:          entry.EntryID,
		EntryDate:        entry.EntryDate,
		Description:      entry.Description,
		CurrencyCode:     entry.CurrencyCode,
		Status:           entry.Status,
		SourceType:       entry.SourceType,
		FiscalDocumentID: entry.FiscalDocumentID,
		ReversingEntryID: entry.ReversingEntryID,
		OriginalEntryID:  entry.OriginalEntryID,
		TotalDebit:       decimal.Zero,
		TotalCredit:      decimal.Zero,
	}
	for i := range lines {
		resp.Lines = append(resp.Lines, ToJournalLineResponse(&lines[i]))
		if lines[i].LineType == domain.Debit {
			resp.TotalDebit = resp.TotalDebit.Add(lines[i].Amount)
		} else {
			resp.TotalCredit = resp.TotalCredit.Add(lines[i].Amount)
		}
	}
	return resp
}
