package accounting

import (
	"fmt"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum accepted difference between the debit and
// credit sides of a journal entry. A mismatch at or above this value fails
// validation. The tolerance is a documented invariant kept from the ledger
// design even though decimal arithmetic is exact.
var BalanceTolerance = decimal.RequireFromString("0.01")

// SumLinesByType returns the debit and credit totals of a set of journal lines.
func SumLinesByType(lines []domain.JournalEntryLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, line := range lines {
		if line.LineType == domain.Debit {
			totalDebit = totalDebit.Add(line.Amount)
		} else {
			totalCredit = totalCredit.Add(line.Amount)
		}
	}
	return totalDebit, totalCredit
}

// ValidateBalancedLines checks that a journal entry's lines balance: every
// amount positive and sum(DEBIT) equal to sum(CREDIT) within BalanceTolerance.
// The returned error names both sums so the caller can surface them.
func ValidateBalancedLines(lines []domain.JournalEntryLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal entry must have at least two lines, got %d", len(lines))
	}

	for _, line := range lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("line %d amount must be positive, got %s", line.LineNumber, line.Amount.String())
		}
	}

	totalDebit, totalCredit := SumLinesByType(lines)
	diff := totalDebit.Sub(totalCredit).Abs()
	if diff.GreaterThanOrEqual(BalanceTolerance) {
		return fmt.Errorf("journal entry does not balance: debits sum is %s and credits sum is %s",
			totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}
	return nil
}
