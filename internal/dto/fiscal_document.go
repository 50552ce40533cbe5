package dto

import (
	"time"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDocumentItemRequest is one classified line of a manually entered document.
type CreateDocumentItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	AccountID   string          `json:"accountID"` // optional: empty = not yet classified
}

// CreateFiscalDocumentRequest defines the payload for manual document entry.
// The cfop binding tag is a custom validator registered at startup.
type CreateFiscalDocumentRequest struct {
	PartnerID    string                      `json:"partnerID" binding:"required"`
	DocumentType domain.DocumentType         `json:"documentType" binding:"required,oneof=NFE CTE"`
	Number       string                      `json:"number" binding:"required"`
	AccessKey    string                      `json:"accessKey"`
	IssueDate    time.Time                   `json:"issueDate" binding:"required"`
	CFOP         string                      `json:"cfop" binding:"required,cfop"`
	NetAmount    decimal.Decimal             `json:"netAmount" binding:"required"`
	ICMSDebit    decimal.Decimal             `json:"icmsDebit"`
	ICMSCredit   decimal.Decimal             `json:"icmsCredit"`
	Items        []CreateDocumentItemRequest `json:"items" binding:"dive"`
}

// FiscalDocumentResponse defines the data returned for a fiscal document.
type FiscalDocumentResponse struct {
	DocumentID   string                `json:"documentID"`
	PartnerID    string                `json:"partnerID"`
	DocumentType domain.DocumentType   `json:"documentType"`
	Number       string                `json:"number"`
	AccessKey    string                `json:"accessKey,omitempty"`
	IssueDate    time.Time             `json:"issueDate"`
	CFOP         string                `json:"cfop"`
	NetAmount    decimal.Decimal       `json:"netAmount"`
	CurrencyCode string                `json:"currencyCode"`
	Status       domain.DocumentStatus `json:"status"`
}

// ListFiscalDocumentsResponse is a token-paginated page of fiscal documents.
type ListFiscalDocumentsResponse struct {
	Documents []FiscalDocumentResponse `json:"documents"`
	NextToken *string                  `json:"nextToken,omitempty"`
}

// ToFiscalDocumentResponse converts a domain.FiscalDocument to its DTO.
func ToFiscalDocumentResponse(doc *domain.FiscalDocument) FiscalDocumentResponse {
	return FiscalDocumentResponse{
		DocumentID:   doc.DocumentID,
		PartnerID:    doc.PartnerID,
		DocumentType: doc.DocumentType,
		Number:       doc.Number,
		AccessKey:    doc.AccessKey,
		IssueDate:    doc.IssueDate,
		CFOP:         doc.CFOP,
		NetAmount:    doc.NetAmount.Amount(),
		CurrencyCode: doc.NetAmount.Currency(),
		Status:       doc.Status,
	}
}

// ToFiscalDocumentResponses converts a slice of documents to responses.
func ToFiscalDocumentResponses(docs []domain.FiscalDocument) []FiscalDocumentResponse {
	responses := make([]FiscalDocumentResponse, len(docs))
	for i := range docs {
		responses[i] = ToFiscalDocumentResponse(&docs[i])
	}
	return responses
}
