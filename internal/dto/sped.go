package dto

import "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"

// GenerateSpedRequest defines the payload for generating a SPED Fiscal file.
type GenerateSpedRequest struct {
	ReferenceMonth int                 `json:"referenceMonth" binding:"required,min=1,max=12"`
	ReferenceYear  int                 `json:"referenceYear" binding:"required"`
	Finality       domain.SpedFinality `json:"finality" binding:"required,oneof=ORIGINAL SUBSTITUTION"`
}

// SpedValidationErrorResponse reports why a SPED file could not be generated.
type SpedValidationErrorResponse struct {
	Errors []string `json:"errors"`
}
