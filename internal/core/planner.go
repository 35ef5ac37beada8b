package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlannedInstallment is one entry of a generated amortization schedule,
// not yet persisted. InstallmentNumber starts at 1.
type PlannedInstallment struct {
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           time.Time       `json:"due_date"`
	Paid              bool            `json:"paid"`
}

// PlanInstallments generates the amortization schedule for a sale or purchase:
// count installments, the first due at start, each subsequent one a calendar
// month later (month-end dates clamp, so Jan 31 is followed by Feb 29 in a
// leap year).
//
// When explicitAmount is non-nil every installment uses it verbatim; the sum
// is NOT reconciled against total. The caller owns that trade-off.
// Otherwise each installment is total/count at full decimal precision, with
// no cent-remainder adjustment on the last installment.
func PlanInstallments(total decimal.Decimal, count int, start time.Time, explicitAmount *decimal.Decimal) ([]PlannedInstallment, error) {
	if count < 1 {
		return nil, Validationf("installment count must be at least 1, got %d", count)
	}
	if !total.IsPositive() {
		return nil, Validationf("total amount must be positive, got %s", total)
	}
	if explicitAmount != nil && !explicitAmount.IsPositive() {
		return nil, Validationf("installment amount must be positive, got %s", explicitAmount)
	}

	amount := total
	switch {
	case explicitAmount != nil:
		amount = *explicitAmount
	case count > 1:
		amount = total.Div(decimal.NewFromInt(int64(count)))
	}

	schedule := make([]PlannedInstallment, count)
	for i := 0; i < count; i++ {
		schedule[i] = PlannedInstallment{
			InstallmentNumber: i + 1,
			Amount:            amount,
			DueDate:           addMonths(start, i),
			Paid:              false,
		}
	}
	return schedule, nil
}

// addMonths advances t by n calendar months, clamping the day-of-month to the
// target month's last day. time.AddDate is unsuitable here: it normalizes
// Jan 31 + 1 month to Mar 2/3 instead of the last day of February.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	lastDay := daysInMonth(firstOfTarget)
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysInMonth(t time.Time) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
