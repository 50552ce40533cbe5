package services

import (
	"fmt"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/apperrors"
	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreditAccountName labels the source of recovered PIS/COFINS credits on the
// generated ledger entry.
const CreditAccountName = "Crédito PIS/COFINS s/ compras"

// eligibleCFOPSuffixes are the inbound operation natures that generate
// PIS/COFINS credit under the non-cumulative regime: purchases for resale or
// industrialization and their freight/energy adjuncts. The CFOP first digit
// must be 1 (in-state) or 2 (interstate).
var eligibleCFOPSuffixes = map[string]struct{}{
	"101": {}, "102": {}, "111": {}, "113": {},
	"116": {}, "117": {}, "118": {}, "120": {},
	"121": {}, "122": {}, "126": {}, "128": {},
}

// TaxCreditCalculator computes recoverable PIS/COFINS credit for one fiscal
// document. It is pure: no repository access, no side effects.
type TaxCreditCalculator struct {
	pisRate    decimal.Decimal
	cofinsRate decimal.Decimal
}

// NewTaxCreditCalculator creates a calculator with the statutory rates, given
// as fractions (e.g. 0.0165 for 1.65%).
func NewTaxCreditCalculator(pisRate, cofinsRate decimal.Decimal) *TaxCreditCalculator {
	return &TaxCreditCalculator{pisRate: pisRate, cofinsRate: cofinsRate}
}

// Calculate determines eligibility and computes the credit amounts for the
// document. Ineligibility is reported as an apperrors.ErrNotEligible-wrapped
// error carrying the reason; it is an expected outcome, not a failure.
func (c *TaxCreditCalculator) Calculate(doc domain.FiscalDocumentData) (*domain.TaxCredit, error) {
	if doc.DocumentType != domain.NFE {
		return nil, fmt.Errorf("%w: document %s has type %s, only goods purchase invoices generate credit",
			apperrors.ErrNotEligible, doc.DocumentID, doc.DocumentType)
	}

	if !doc.NetAmount.IsPositive() {
		return nil, fmt.Errorf("%w: document %s has non-positive net amount %s",
			apperrors.ErrNotEligible, doc.DocumentID, doc.NetAmount.String())
	}

	cfop, err := domain.NormalizeCFOP(doc.CFOP)
	if err != nil {
		return nil, fmt.Errorf("%w: document %s has malformed CFOP %q",
			apperrors.ErrNotEligible, doc.DocumentID, doc.CFOP)
	}

	if cfop[0] != '1' && cfop[0] != '2' {
		return nil, fmt.Errorf("%w: document %s CFOP %s is not an inbound operation",
			apperrors.ErrNotEligible, doc.DocumentID, cfop)
	}
	if _, ok := eligibleCFOPSuffixes[cfop[1:]]; !ok {
		return nil, fmt.Errorf("%w: document %s CFOP %s is not a credit-generating purchase",
			apperrors.ErrNotEligible, doc.DocumentID, cfop)
	}

	return &domain.TaxCredit{
		FiscalDocumentID: doc.DocumentID,
		PISCredit:        doc.NetAmount.MulRate(c.pisRate),
		COFINSCredit:     doc.NetAmount.MulRate(c.cofinsRate),
		AccountName:      CreditAccountName,
	}, nil
}
