package services

import (
	"context"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
)

// SpedSvcFacade exposes SPED Fiscal (EFD-ICMS/IPI) file generation.
type SpedSvcFacade interface {
	// Validate checks whether a SPED file can be generated for the request and
	// returns the full list of validation problems (empty = valid).
	Validate(ctx context.Context, req domain.SpedRequest) ([]string, error)

	// Generate builds the complete pipe-delimited SPED Fiscal text content for
	// one organization and reference month. Callers run Validate first.
	Generate(ctx context.Context, req domain.SpedRequest) (string, error)
}
