package dto

import (
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating a chart account.
type CreateAccountRequest struct {
	Code         string             `json:"code" binding:"required"`
	Name         string             `json:"name" binding:"required"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	IsAnalytical bool               `json:"isAnalytical"`
}

// AccountResponse defines the data returned for a chart account.
type AccountResponse struct {
	AccountID    string             `json:"accountID"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	AccountType  domain.AccountType `json:"accountType"`
	IsAnalytical bool               `json:"isAnalytical"`
	IsActive     bool               `json:"isActive"`
}

// ToAccountResponse converts a domain.ChartAccount to AccountResponse.
func ToAccountResponse(a *domain.ChartAccount) AccountResponse {
	return AccountResponse{
		AccountID:    a.AccountID,
		Code:         a.Code,
		Name:         a.Name,
		AccountType:  a.AccountType,
		IsAnalytical: a.IsAnalytical,
		IsActive:     a.IsActive,
	}
}

// ToAccountResponses converts a slice of domain.ChartAccount to responses.
func ToAccountResponses(accounts []domain.ChartAccount) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
