// Package report reduces raw record sets into the financial metrics shown to
// the shop owner. The reduction is pure: given the same three record sets it
// is deterministic and idempotent, with no store access of its own.
package report

import "kasirlaundry/backend/internal/domain"

// Reduce computes the period metrics from already-fetched rows.
//
// Expense already includes wage-derived expense rows, since every wage record
// inserts a matching expense; Wages is that subset restated for visibility,
// never added on top. Cash is income minus expense, exactly.
func Reduce(transactions []domain.Transaction, expenses []domain.Expense, wages []domain.WageRecord) domain.PeriodReport {
	result := domain.PeriodReport{
		TotalOrders: len(transactions),
	}

	for _, tx := range transactions {
		switch tx.Status {
		case domain.StatusPaid:
			result.Income += tx.TotalPrice
		case domain.StatusUnpaid:
			result.PendingIncome += tx.TotalPrice
		}
		result.TotalWeightKg += tx.WeightKg
	}

	for _, expense := range expenses {
		result.Expense += expense.Amount
	}

	for _, record := range wages {
		result.Wages += record.TotalWage
	}

	result.Cash = result.Income - result.Expense
	return result
}
