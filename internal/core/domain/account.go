package domain

import "strings"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// ChartAccount represents one entry of an organization's chart of accounts.
// Codes are dot-delimited hierarchical strings, e.g. "4.1.01.001".
// Only analytical (leaf) accounts may receive journal postings; synthetic
// (aggregating) accounts are structural only.
type ChartAccount struct {
	AccountID      string      `json:"accountID"`      // Primary Key (UUID)
	OrganizationID string      `json:"organizationID"` // FK -> organizations.organization_id
	Code           string      `json:"code"`           // Hierarchical code, unique per organization
	Name           string      `json:"name"`
	AccountType    AccountType `json:"accountType"`
	IsAnalytical   bool        `json:"isAnalytical"` // true = leaf account, accepts postings
	IsActive       bool        `json:"isActive"`
	AuditFields
}

// IsChildOf reports whether the account sits below the given code in the
// chart hierarchy, based on the dot-delimited code prefix.
func (a ChartAccount) IsChildOf(parentCode string) bool {
	if parentCode == "" || a.Code == parentCode {
		return false
	}
	return strings.HasPrefix(a.Code, parentCode+".")
}

// CreditAccounts bundles the fixed recovery accounts used when registering
// a PIS/COFINS credit.
type CreditAccounts struct {
	PISAccount    ChartAccount
	COFINSAccount ChartAccount
}
