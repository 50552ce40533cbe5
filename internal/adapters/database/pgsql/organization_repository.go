package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
)

// PgxOrganizationRepository implements organization and partner persistence on pgx.
type PgxOrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository creates a new repository for organization data.
func NewOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{pool: pool}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

// FindOrganizationByID retrieves an organization by its unique identifier.
func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `
		SELECT organization_id, name, trade_name, cnpj, state_registry, uf, city_code, tax_regime_code,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM organizations
		WHERE organization_id = $1;
	`
	var org domain.Organization
	err := r.pool.QueryRow(ctx, query, organizationID).Scan(
		&org.OrganizationID,
		&org.Name,
		&org.TradeName,
		&org.CNPJ,
		&org.StateRegistry,
		&org.UF,
		&org.CityCode,
		&org.TaxRegimeCode,
		&org.CreatedAt,
		&org.CreatedBy,
		&org.LastUpdatedAt,
		&org.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find organization %s: %w", organizationID, err)
	}
	return &org, nil
}

const partnerColumns = `partner_id, organization_id, name, cnpj, uf, city_code, created_at, created_by, last_updated_at, last_updated_by`

func scanPartner(row pgx.Row) (*domain.BusinessPartner, error) {
	var partner domain.BusinessPartner
	err := row.Scan(
		&partner.PartnerID,
		&partner.OrganizationID,
		&partner.Name,
		&partner.CNPJ,
		&partner.UF,
		&partner.CityCode,
		&partner.CreatedAt,
		&partner.CreatedBy,
		&partner.LastUpdatedAt,
		&partner.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan business partner: %w", err)
	}
	return &partner, nil
}

// ListPartnersByPeriod retrieves the distinct partners involved in the
// organization's fiscal documents issued within [from, to].
func (r *PgxOrganizationRepository) ListPartnersByPeriod(ctx context.Context, organizationID string, from, to time.Time) ([]domain.BusinessPartner, error) {
	query := `
		SELECT DISTINCT ON (p.partner_id) ` + partnerColumnsQualified("p") + `
		FROM business_partners p
		JOIN fiscal_documents d ON d.partner_id = p.partner_id
		WHERE p.organization_id = $1 AND d.issue_date BETWEEN $2 AND $3
		ORDER BY p.partner_id;
	`
	rows, err := r.pool.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners for period: %w", err)
	}
	defer rows.Close()

	var partners []domain.BusinessPartner
	for rows.Next() {
		partner, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, *partner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partners: %w", err)
	}
	return partners, nil
}

func partnerColumnsQualified(alias string) string {
	return alias + `.partner_id, ` + alias + `.organization_id, ` + alias + `.name, ` + alias + `.cnpj, ` +
		alias + `.uf, ` + alias + `.city_code, ` + alias + `.created_at, ` + alias + `.created_by, ` +
		alias + `.last_updated_at, ` + alias + `.last_updated_by`
}

// FindPartnerByCNPJ retrieves a business partner by its federal tax id.
func (r *PgxOrganizationRepository) FindPartnerByCNPJ(ctx context.Context, organizationID, cnpj string) (*domain.BusinessPartner, error) {
	query := `SELECT ` + partnerColumns + ` FROM business_partners WHERE organization_id = $1 AND cnpj = $2;`
	return scanPartner(r.pool.QueryRow(ctx, query, organizationID, cnpj))
}

// SavePartner persists a new business partner.
func (r *PgxOrganizationRepository) SavePartner(ctx context.Context, partner domain.BusinessPartner) error {
	query := `
		INSERT INTO business_partners (` + partnerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		partner.PartnerID,
		partner.OrganizationID,
		partner.Name,
		partner.CNPJ,
		partner.UF,
		partner.CityCode,
		partner.CreatedAt,
		partner.CreatedBy,
		partner.LastUpdatedAt,
		partner.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("%w: partner cnpj %s", apperrors.ErrDuplicate, partner.CNPJ)
		}
		return fmt.Errorf("failed to insert partner %s: %w", partner.PartnerID, err)
	}
	return nil
}
