package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Fixed policy values. The settlement horizon scopes which unpaid installments
// count as "current"; the coverage target is two months of average expenses.
const (
	settlementHorizonDays = 30
	trailingExpenseMonths = 3
	coverageMonths        = 2
)

// warningFloor is the fraction of the recommended working capital below which
// the position is critical rather than merely a warning.
var warningFloor = decimal.NewFromFloat(0.7)

// HealthStatus classifies a working-capital position.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

// WorkingCapitalSnapshot is the derived liquidity picture as of a moment in
// time. It is recomputed on every request and never persisted.
// Invariant: at most one of Deficit and Surplus is nonzero.
type WorkingCapitalSnapshot struct {
	AsOf                      time.Time       `json:"as_of"`
	CurrentReceivables        decimal.Decimal `json:"current_receivables"`
	CurrentPayables           decimal.Decimal `json:"current_payables"`
	WorkingCapital            decimal.Decimal `json:"working_capital"`
	AvgMonthlyExpenses        decimal.Decimal `json:"avg_monthly_expenses"`
	RecommendedWorkingCapital decimal.Decimal `json:"recommended_working_capital"`
	Deficit                   decimal.Decimal `json:"deficit"`
	Surplus                   decimal.Decimal `json:"surplus"`
	Health                    HealthStatus    `json:"health"`
}

// EvaluateWorkingCapital derives the liquidity snapshot from raw records.
//
// Receivables and payables are the unpaid installments due within the 30-day
// horizon from asOf. Average monthly expenses is a flat third of the expense
// total over the trailing three months (not weighted by month length). The
// recommended working capital is two months of that average.
func EvaluateWorkingCapital(transactions []Transaction, saleInstallments, purchaseInstallments []Installment, asOf time.Time) WorkingCapitalSnapshot {
	horizon := asOf.AddDate(0, 0, settlementHorizonDays)

	snap := WorkingCapitalSnapshot{
		AsOf:               asOf,
		CurrentReceivables: sumDueUnpaid(saleInstallments, horizon),
		CurrentPayables:    sumDueUnpaid(purchaseInstallments, horizon),
	}
	snap.WorkingCapital = snap.CurrentReceivables.Sub(snap.CurrentPayables)

	trailingStart := asOf.AddDate(0, -trailingExpenseMonths, 0)
	var trailingExpenses decimal.Decimal
	for _, tx := range transactions {
		if tx.Type != Expense {
			continue
		}
		if tx.Date.After(trailingStart) && !tx.Date.After(asOf) {
			trailingExpenses = trailingExpenses.Add(tx.Amount)
		}
	}
	snap.AvgMonthlyExpenses = trailingExpenses.Div(decimal.NewFromInt(trailingExpenseMonths))
	snap.RecommendedWorkingCapital = snap.AvgMonthlyExpenses.Mul(decimal.NewFromInt(coverageMonths))

	snap.Deficit = decimal.Max(decimal.Zero, snap.RecommendedWorkingCapital.Sub(snap.WorkingCapital))
	snap.Surplus = decimal.Max(decimal.Zero, snap.WorkingCapital.Sub(snap.RecommendedWorkingCapital))
	snap.Health = classifyHealth(snap.WorkingCapital, snap.RecommendedWorkingCapital)

	return snap
}

// classifyHealth applies the fixed thresholds in tie-break order: meeting the
// recommendation is healthy, at least 70% of it is a warning, below that is
// critical.
func classifyHealth(workingCapital, recommended decimal.Decimal) HealthStatus {
	if workingCapital.GreaterThanOrEqual(recommended) {
		return HealthHealthy
	}
	if workingCapital.GreaterThanOrEqual(recommended.Mul(warningFloor)) {
		return HealthWarning
	}
	return HealthCritical
}

func sumDueUnpaid(installments []Installment, horizon time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range installments {
		if !inst.Paid && !inst.DueDate.After(horizon) {
			total = total.Add(inst.Amount)
		}
	}
	return total
}

// FigureSummary renders the snapshot's figures two-decimal formatted, one per
// line, for embedding in the forecast prompt.
func (s WorkingCapitalSnapshot) FigureSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Receivables due within %d days: %s\n", settlementHorizonDays, s.CurrentReceivables.StringFixed(2))
	fmt.Fprintf(&b, "- Payables due within %d days: %s\n", settlementHorizonDays, s.CurrentPayables.StringFixed(2))
	fmt.Fprintf(&b, "- Working capital: %s\n", s.WorkingCapital.StringFixed(2))
	fmt.Fprintf(&b, "- Average monthly expenses (trailing %d months): %s\n", trailingExpenseMonths, s.AvgMonthlyExpenses.StringFixed(2))
	fmt.Fprintf(&b, "- Recommended working capital (%d months of expenses): %s\n", coverageMonths, s.RecommendedWorkingCapital.StringFixed(2))
	if s.Deficit.IsPositive() {
		fmt.Fprintf(&b, "- Deficit against recommendation: %s\n", s.Deficit.StringFixed(2))
	} else {
		fmt.Fprintf(&b, "- Surplus above recommendation: %s\n", s.Surplus.StringFixed(2))
	}
	fmt.Fprintf(&b, "- Health classification: %s", s.Health)
	return b.String()
}
