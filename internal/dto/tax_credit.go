package dto

import "github.com/shopspring/decimal"

// ProcessTaxCreditsResult summarizes one credit recovery batch run. The batch
// never aborts on a single document; per-document failures land in Errors.
type ProcessTaxCreditsResult struct {
	Processed   int             `json:"processed"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Errors      []string        `json:"errors"`
}

// PendingDocumentsResponse lists documents awaiting credit processing.
type PendingDocumentsResponse struct {
	DocumentIDs []string `json:"documentIDs"`
}
