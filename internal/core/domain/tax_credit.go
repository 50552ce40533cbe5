package domain

// TaxCredit is a calculated, not-yet-persisted PIS/COFINS credit for one
// fiscal document. It is created by the calculator, consumed by the
// repository's RegisterCredit and then discarded; only its effect (a
// balanced journal entry) persists.
type TaxCredit struct {
	FiscalDocumentID string `json:"fiscalDocumentID"`
	PISCredit        Money  `json:"pisCredit"`
	COFINSCredit     Money  `json:"cofinsCredit"`
	AccountName      string `json:"accountName"` // label describing the credit source
}

// Total returns the combined PIS + COFINS credit. It fails when the two
// credits carry different currencies.
func (t TaxCredit) Total() (Money, error) {
	return t.PISCredit.Add(t.COFINSCredit)
}

// HasCredit reports whether any nonzero credit was calculated.
func (t TaxCredit) HasCredit() (bool, error) {
	total, err := t.Total()
	if err != nil {
		return false, err
	}
	return total.IsPositive(), nil
}
