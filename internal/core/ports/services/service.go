package services

// ServiceContainer carries the concrete service implementations wired at
// application start-up, so route registration depends on interfaces only.
type ServiceContainer struct {
	Account        AccountSvcFacade
	Journal        JournalSvcFacade
	TaxCredit      TaxCreditSvcFacade
	Sped           SpedSvcFacade
	FiscalDocument FiscalDocumentSvcFacade
}
