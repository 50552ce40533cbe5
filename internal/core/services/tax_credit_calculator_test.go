package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/services"
)

func newTestCalculator() *services.TaxCreditCalculator {
	return services.NewTaxCreditCalculator(
		decimal.RequireFromString("0.0165"),
		decimal.RequireFromString("0.076"),
	)
}

func TestCalculateEligiblePurchase(t *testing.T) {
	calc := newTestCalculator()

	credit, err := calc.Calculate(domain.FiscalDocumentData{
		DocumentID:   "doc-1",
		DocumentType: domain.NFE,
		CFOP:         "1.102",
		NetAmount:    domain.MustMoney("1000.00", "BRL"),
	})
	require.NoError(t, err)

	assert.Equal(t, "16.50", credit.PISCredit.Amount().StringFixed(2))
	assert.Equal(t, "76.00", credit.COFINSCredit.Amount().StringFixed(2))

	total, err := credit.Total()
	require.NoError(t, err)
	assert.Equal(t, "92.50", total.Amount().StringFixed(2))
	assert.Equal(t, services.CreditAccountName, credit.AccountName)
}

func TestCalculateInterstatePurchase(t *testing.T) {
	calc := newTestCalculator()

	credit, err := calc.Calculate(domain.FiscalDocumentData{
		DocumentID:   "doc-2",
		DocumentType: domain.NFE,
		CFOP:         "2102",
		NetAmount:    domain.MustMoney("250.00", "BRL"),
	})
	require.NoError(t, err)

	assert.Equal(t, "4.13", credit.PISCredit.Amount().StringFixed(2))
	assert.Equal(t, "19.00", credit.COFINSCredit.Amount().StringFixed(2))
}

func TestCalculateIneligible(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name string
		doc  domain.FiscalDocumentData
	}{
		{
			name: "transport document",
			doc: domain.FiscalDocumentData{
				DocumentID:   "d1",
				DocumentType: domain.CTE,
				CFOP:         "1102",
				NetAmount:    domain.MustMoney("100.00", "BRL"),
			},
		},
		{
			name: "zero amount",
			doc: domain.FiscalDocumentData{
				DocumentID:   "d2",
				DocumentType: domain.NFE,
				CFOP:         "1102",
				NetAmount:    domain.ZeroMoney("BRL"),
			},
		},
		{
			name: "negative amount",
			doc: domain.FiscalDocumentData{
				DocumentID:   "d3",
				DocumentType: domain.NFE,
				CFOP:         "1102",
				NetAmount:    domain.MustMoney("-10.00", "BRL"),
			},
		},
		{
			name: "outbound CFOP",
			doc: domain.FiscalDocumentData{
				DocumentID:   "d4",
				DocumentType: domain.NFE,
				CFOP:         "5102",
				NetAmount:    domain.MustMoney("100.00", "BRL"),
			},
		},
		{
			name: "inbound but not credit-generating",
			doc: domain.FiscalDocumentData{
				DocumentID:   "d5",
				DocumentType: domain.NFE,
				CFOP:         "1556",
				NetAmount:    domain.MustMoney("100.00", "BRL"),
			},
		},
		{
			name: "malformed CFOP",
			doc: domain.FiscalDocumentData{
				DocumentID:   "d6",
				DocumentType: domain.NFE,
				CFOP:         "11",
				NetAmount:    domain.MustMoney("100.00", "BRL"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			credit, err := calc.Calculate(tt.doc)
			assert.Nil(t, credit)
			assert.ErrorIs(t, err, apperrors.ErrNotEligible)
		})
	}
}

func TestCalculateDottedCFOPNormalized(t *testing.T) {
	calc := newTestCalculator()

	// Same document, written with and without the dot separator.
	plain, err := calc.Calculate(domain.FiscalDocumentData{
		DocumentID: "d7", DocumentType: domain.NFE, CFOP: "1102",
		NetAmount: domain.MustMoney("500.00", "BRL"),
	})
	require.NoError(t, err)

	dotted, err := calc.Calculate(domain.FiscalDocumentData{
		DocumentID: "d7", DocumentType: domain.NFE, CFOP: "1.102",
		NetAmount: domain.MustMoney("500.00", "BRL"),
	})
	require.NoError(t, err)

	assert.True(t, plain.PISCredit.Equal(dotted.PISCredit))
	assert.True(t, plain.COFINSCredit.Equal(dotted.COFINSCredit))
}
