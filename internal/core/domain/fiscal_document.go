package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
)

// DocumentType classifies a fiscal document.
type DocumentType string

const (
	NFE DocumentType = "NFE" // electronic goods invoice
	CTE DocumentType = "CTE" // electronic cargo transport document
)

// DocumentStatus tracks the processing state of an imported fiscal document.
type DocumentStatus string

const (
	DocumentImported   DocumentStatus = "IMPORTED"
	DocumentClassified DocumentStatus = "CLASSIFIED"
)

// FiscalDocument is an imported NFe or CTe with the fields this core needs.
type FiscalDocument struct {
	DocumentID     string         `json:"documentID"` // Primary Key (UUID)
	OrganizationID string         `json:"organizationID"`
	PartnerID      string         `json:"partnerID"` // FK -> business_partners
	DocumentType   DocumentType   `json:"documentType"`
	Number         string         `json:"number"`
	AccessKey      string         `json:"accessKey"` // 44-digit NFe/CTe key
	IssueDate      time.Time      `json:"issueDate"`
	CFOP           string         `json:"cfop"`
	NetAmount      Money          `json:"netAmount"`
	ICMSDebit      Money          `json:"icmsDebit"`  // outbound operations
	ICMSCredit     Money          `json:"icmsCredit"` // inbound operations
	Status         DocumentStatus `json:"status"`
	AuditFields
}

// DocumentItem is one classified line of a fiscal document. Items without an
// assigned chart account are skipped during journal generation.
type DocumentItem struct {
	ItemID      string `json:"itemID"`
	DocumentID  string `json:"documentID"`
	Description string `json:"description"`
	Amount      Money  `json:"amount"`
	AccountID   string `json:"accountID"` // empty = not yet classified
}

// FiscalDocumentData is the read-only projection consumed by the tax credit
// calculator: never mutated by this core.
type FiscalDocumentData struct {
	DocumentID   string
	DocumentType DocumentType
	CFOP         string
	NetAmount    Money
}

// NormalizeCFOP strips the optional dot separator ("1.102" -> "1102") and
// validates the 4-digit shape.
func NormalizeCFOP(cfop string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(cfop), ".", "")
	if len(normalized) != 4 {
		return "", fmt.Errorf("%w: CFOP %q must have 4 digits", apperrors.ErrValidation, cfop)
	}
	for _, r := range normalized {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: CFOP %q contains non-digit characters", apperrors.ErrValidation, cfop)
		}
	}
	if normalized[0] == '0' {
		return "", fmt.Errorf("%w: CFOP %q has invalid leading digit", apperrors.ErrValidation, cfop)
	}
	return normalized, nil
}
