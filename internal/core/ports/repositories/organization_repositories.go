package repositories

import (
	"context"
	"time"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
)

// OrganizationReader defines read operations for organization and partner data.
type OrganizationReader interface {
	// FindOrganizationByID retrieves an organization by its unique identifier.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// ListPartnersByPeriod retrieves the distinct business partners involved in
	// the organization's fiscal documents issued within [from, to].
	ListPartnersByPeriod(ctx context.Context, organizationID string, from, to time.Time) ([]domain.BusinessPartner, error)
}

// PartnerReader defines read operations for business partner data.
type PartnerReader interface {
	// FindPartnerByCNPJ retrieves a business partner by its federal tax id.
	FindPartnerByCNPJ(ctx context.Context, organizationID, cnpj string) (*domain.BusinessPartner, error)
}

// PartnerWriter defines write operations for business partner data.
type PartnerWriter interface {
	// SavePartner persists a new business partner.
	SavePartner(ctx context.Context, partner domain.BusinessPartner) error
}

// OrganizationRepositoryFacade combines organization and partner interfaces.
type OrganizationRepositoryFacade interface {
	OrganizationReader
	PartnerReader
	PartnerWriter
}
