package services

import (
	"github.com/shopspring/decimal"

	portsrepo "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/repositories"
	portssvc "github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/ports/services"
)

// Repositories bundles the concrete repository implementations handed to the
// service constructors.
type Repositories struct {
	Account  portsrepo.ChartAccountRepositoryFacade
	Journal  portsrepo.JournalRepositoryFacade
	Document portsrepo.FiscalDocumentRepositoryFacade
	Org      portsrepo.OrganizationRepositoryFacade
	TaxCred  portsrepo.TaxCreditRepositoryFacade
}

// TaxRates carries the statutory rates loaded from configuration.
type TaxRates struct {
	PIS    decimal.Decimal
	COFINS decimal.Decimal
}

// NewServiceContainer wires every service by hand. Dependency composition
// stays explicit: constructors receive interfaces, never a global registry.
func NewServiceContainer(repos Repositories, rates TaxRates) *portssvc.ServiceContainer {
	calculator := NewTaxCreditCalculator(rates.PIS, rates.COFINS)

	return &portssvc.ServiceContainer{
		Account:        NewAccountService(repos.Account),
		Journal:        NewJournalService(repos.Journal, repos.Account, repos.Document),
		TaxCredit:      NewTaxCreditService(repos.TaxCred, calculator),
		Sped:           NewSpedService(repos.Org, repos.Document, repos.Account),
		FiscalDocument: NewFiscalDocumentService(repos.Document, repos.Org),
	}
}
