package domain

// Organization is the tenant owning fiscal documents and ledger data.
type Organization struct {
	OrganizationID string `json:"organizationID"` // Primary Key (UUID)
	Name           string `json:"name"`
	TradeName      string `json:"tradeName"`
	CNPJ           string `json:"cnpj"` // federal tax id, digits only
	StateRegistry  string `json:"stateRegistry"`
	UF             string `json:"uf"`            // federation unit, e.g. "GO"
	CityCode       string `json:"cityCode"`      // IBGE municipality code
	TaxRegimeCode  string `json:"taxRegimeCode"` // fiscal profile indicator
	AuditFields
}

// BusinessPartner is a counterparty of a fiscal document (supplier or customer).
type BusinessPartner struct {
	PartnerID      string `json:"partnerID"` // Primary Key (UUID)
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	CNPJ           string `json:"cnpj"`
	UF             string `json:"uf"`
	CityCode       string `json:"cityCode"`
	AuditFields
}
