package core_test

import (
	"context"
	"testing"
	"time"

	"finboard/internal/core"
)

func TestReportingService_CashFlow(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	transactions := core.NewTransactionService(pool)
	sales := core.NewSaleService(pool)
	purchases := core.NewPurchaseService(pool)
	reporting := core.NewReportingService(pool, sales, purchases)
	ctx := context.Background()

	seed := []struct {
		day    time.Time
		amount string
		kind   core.TransactionType
	}{
		{date(2023, time.December, 20), "700.00", core.Income}, // before the period
		{date(2024, time.January, 5), "1500.00", core.Income},
		{date(2024, time.January, 20), "500.00", core.Expense},
		{date(2024, time.March, 1), "9999.00", core.Income}, // after the period
	}
	for _, s := range seed {
		_, err := transactions.Create(ctx, 1, core.TransactionInput{
			Date: s.day, Description: "seed", Amount: dec(s.amount),
			Type: s.kind, Status: core.StatusPaid,
		})
		if err != nil {
			t.Fatalf("seed transaction failed: %v", err)
		}
	}

	from, to := date(2024, time.January, 1), date(2024, time.January, 31)
	report, err := reporting.GetCashFlow(ctx, 1, core.PeriodQuery{From: &from, To: &to})
	if err != nil {
		t.Fatalf("cash flow failed: %v", err)
	}

	b := report.Balances
	if !b.Opening.Equal(dec("700.00")) {
		t.Errorf("opening = %s, want 700.00", b.Opening)
	}
	if !b.Income.Equal(dec("1500.00")) {
		t.Errorf("income = %s, want 1500.00", b.Income)
	}
	if !b.Expense.Equal(dec("500.00")) {
		t.Errorf("expense = %s, want 500.00", b.Expense)
	}
	if !b.Closing.Equal(dec("1700.00")) {
		t.Errorf("closing = %s, want 1700.00", b.Closing)
	}
}

func TestReportingService_CashFlow_AllTimeUsesObservedBounds(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	transactions := core.NewTransactionService(pool)
	reporting := core.NewReportingService(pool, core.NewSaleService(pool), core.NewPurchaseService(pool))
	ctx := context.Background()

	// A transaction well outside the fixed fallback window.
	_, err := transactions.Create(ctx, 1, core.TransactionInput{
		Date: date(2019, time.July, 4), Description: "old", Amount: dec("100.00"),
		Type: core.Income, Status: core.StatusPaid,
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	report, err := reporting.GetCashFlow(ctx, 1, core.PeriodQuery{Preset: core.PresetAllTime})
	if err != nil {
		t.Fatalf("cash flow failed: %v", err)
	}
	if report.Period.Start.Year() != 2019 {
		t.Errorf("all_time start = %v, want the oldest observed date", report.Period.Start)
	}
	if !report.Balances.Income.Equal(dec("100.00")) {
		t.Errorf("income = %s, want 100.00 (nothing before the start)", report.Balances.Income)
	}
}

func TestReportingService_WorkingCapital(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	transactions := core.NewTransactionService(pool)
	sales := core.NewSaleService(pool)
	purchases := core.NewPurchaseService(pool)
	reporting := core.NewReportingService(pool, sales, purchases)
	ctx := context.Background()

	asOf := date(2024, time.June, 1)

	// Trailing expenses: 425/month over the last three months.
	for _, m := range []time.Month{time.March, time.April, time.May} {
		_, err := transactions.Create(ctx, 1, core.TransactionInput{
			Date: date(2024, m, 10), Description: "payroll", Amount: dec("425.00"),
			Type: core.Expense, Status: core.StatusPaid,
		})
		if err != nil {
			t.Fatalf("seed expense failed: %v", err)
		}
	}

	// 1000 receivable due in the horizon, 200 payable.
	due := date(2024, time.June, 10)
	if _, err := sales.RegisterSale(ctx, 1, core.SaleInput{
		CustomerID: 1, Description: "receivable", TotalAmount: dec("1000.00"),
		InstallmentCount: 1, SaleDate: asOf, FirstDueDate: &due,
	}); err != nil {
		t.Fatalf("register sale failed: %v", err)
	}
	if _, err := purchases.RegisterPurchase(ctx, 1, core.PurchaseInput{
		SupplierID: 1, Description: "payable", TotalAmount: dec("200.00"),
		InstallmentCount: 1, PurchaseDate: asOf, FirstDueDate: &due,
	}); err != nil {
		t.Fatalf("register purchase failed: %v", err)
	}

	snap, err := reporting.GetWorkingCapital(ctx, 1, asOf)
	if err != nil {
		t.Fatalf("working capital failed: %v", err)
	}

	if !snap.WorkingCapital.Equal(dec("800.00")) {
		t.Errorf("working capital = %s, want 800.00", snap.WorkingCapital)
	}
	if !snap.RecommendedWorkingCapital.Equal(dec("850.00")) {
		t.Errorf("recommended = %s, want 850.00", snap.RecommendedWorkingCapital)
	}
	if snap.Health != core.HealthWarning {
		t.Errorf("health = %s, want warning", snap.Health)
	}
}
