package core

// AggregateCashFlow computes the period balances for a set of transactions.
// Transactions dated strictly before the period start contribute to the
// opening balance (income positive, expense negative); transactions inside
// [start, end] accumulate into income and expense. Sums are carried at full
// decimal precision; rounding happens only at presentation.
//
// An empty transaction set yields all-zero balances.
func AggregateCashFlow(transactions []Transaction, period Period) CashFlowBalances {
	var b CashFlowBalances

	for _, tx := range transactions {
		switch {
		case tx.Date.Before(period.Start):
			if tx.Type == Income {
				b.Opening = b.Opening.Add(tx.Amount)
			} else {
				b.Opening = b.Opening.Sub(tx.Amount)
			}
		case !tx.Date.After(period.End):
			if tx.Type == Income {
				b.Income = b.Income.Add(tx.Amount)
			} else {
				b.Expense = b.Expense.Add(tx.Amount)
			}
		}
	}

	b.Closing = b.Opening.Add(b.Income).Sub(b.Expense)
	return b
}
